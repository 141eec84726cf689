// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

package api

// Request structs with validation tags. Populated from query parameters and
// validated via go-playground/validator before the query engine runs.

// IncidentsRequest validates the incident listing parameters.
type IncidentsRequest struct {
	Limit  int    `validate:"min=1,max=1000"`
	Offset int    `validate:"min=0"`
	Sort   string `validate:"omitempty,oneof=date -date"`
}

// StatsRequest validates the grouped aggregation parameters.
type StatsRequest struct {
	By string `validate:"oneof=category day month year city state"`
}

// HeatmapRequest validates the heatmap grid parameters.
type HeatmapRequest struct {
	Bins int `validate:"min=5,max=400"`
}
