// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

// Package models defines the API data structures shared between the HTTP
// layer and its consumers.
package models

import "time"

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Status   string      `json:"status"` // "success" or "error"
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error in an API response.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes used across the API.
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeSourceNotFound = "SOURCE_NOT_FOUND"
	ErrCodeNoGeoData      = "NO_GEO_DATA"
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
)

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartedAt     time.Time      `json:"started_at"`
	Dataset       *DatasetHealth `json:"dataset,omitempty"`
}

// DatasetHealth describes the loaded dataset, when one has been loaded.
// The health endpoint never forces a load itself.
type DatasetHealth struct {
	Loaded   bool       `json:"loaded"`
	Rows     int        `json:"rows,omitempty"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
}
