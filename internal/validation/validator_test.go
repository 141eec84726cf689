// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

package validation

import (
	"strings"
	"testing"
)

type pageRequest struct {
	Limit  int    `validate:"min=1,max=1000"`
	Offset int    `validate:"min=0"`
	Sort   string `validate:"omitempty,oneof=date -date"`
}

func TestValidateStructPasses(t *testing.T) {
	req := pageRequest{Limit: 100, Offset: 0, Sort: "-date"}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
}

func TestValidateStructSingleError(t *testing.T) {
	req := pageRequest{Limit: 5000, Offset: 0}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	if len(err.Errors()) != 1 {
		t.Fatalf("error count = %d, want 1", len(err.Errors()))
	}
	fe := err.Errors()[0]
	if fe.Field() != "Limit" || fe.Tag() != "max" {
		t.Errorf("field/tag = %s/%s, want Limit/max", fe.Field(), fe.Tag())
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "at most 1000") {
		t.Errorf("Message = %q, want max translation", apiErr.Message)
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	req := pageRequest{Limit: 0, Offset: -1, Sort: "severity"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	if len(err.Errors()) != 3 {
		t.Fatalf("error count = %d, want 3", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Details should list the failing fields")
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestOneofTranslation(t *testing.T) {
	req := pageRequest{Limit: 10, Sort: "name"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Errorf("Error() = %q, want oneof translation", err.Error())
	}
}
