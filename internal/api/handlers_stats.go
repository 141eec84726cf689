// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/incidentus/internal/dataset"
	"github.com/tomtom215/incidentus/internal/models"
	"github.com/tomtom215/incidentus/internal/query"
)

// Stats handles GET /api/v1/stats
// Groups incidents by a dimension and counts them.
//
// Query parameters:
//   - by: category (default), day, month, year, city, state
//   - start_date, end_date: inclusive date bounds applied before grouping
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := StatsRequest{By: getStringParam(r, "by", "category")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	startDate, err := getDateParam(r, "start_date", dataset.ParseDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	endDate, err := getDateParam(r, "end_date", dataset.ParseDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	buckets, err := engine.Stats(req.By, startDate, endDate)
	if err != nil {
		if errors.Is(err, query.ErrInvalidGroupKey) {
			respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal,
			"Failed to aggregate incidents", err)
		return
	}

	respondSuccess(w, models.StatsResponse{By: req.By, Data: buckets}, start)
}
