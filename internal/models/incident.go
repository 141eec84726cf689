// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

package models

import (
	"time"

	"github.com/tomtom215/incidentus/internal/dataset"
	"github.com/tomtom215/incidentus/internal/schema"
)

// isoTimestamp renders dates without a zone suffix, matching the naive
// datetimes the source datasets carry.
const isoTimestamp = "2006-01-02T15:04:05"

// Incident is the API projection of one dataset record. Missing values
// serialize as null.
type Incident struct {
	ID          string   `json:"id"`
	Date        *string  `json:"date"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	City        string   `json:"city"`
	State       string   `json:"state"`
}

// IncidentFromRecord converts a dataset record to its API projection.
func IncidentFromRecord(r *dataset.Record) Incident {
	var date *string
	if r.Timestamp != nil {
		iso := r.Timestamp.Format(isoTimestamp)
		date = &iso
	}
	return Incident{
		ID:          r.ID,
		Date:        date,
		Category:    r.Category,
		Description: r.Description,
		Lat:         r.Latitude,
		Lng:         r.Longitude,
		City:        r.City,
		State:       r.State,
	}
}

// IncidentPage is a paginated incident listing.
type IncidentPage struct {
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
	Items  []Incident `json:"items"`
}

// ColumnsInfo describes the source columns and the inferred role mapping.
// Every role appears in Mapped; unmatched roles map to null.
type ColumnsInfo struct {
	Columns  []string           `json:"columns"`
	Mapped   map[string]*string `json:"mapped"`
	RowCount int                `json:"row_count"`
	LoadedAt time.Time          `json:"loaded_at"`
}

// ColumnsInfoFromStore builds the columns payload from a loaded store.
func ColumnsInfoFromStore(s *dataset.Store) ColumnsInfo {
	mapped := make(map[string]*string, len(schema.AllRoles))
	for _, role := range schema.AllRoles {
		if col, ok := s.Mapping.Column(role); ok {
			c := col
			mapped[string(role)] = &c
		} else {
			mapped[string(role)] = nil
		}
	}
	columns := s.Columns
	if columns == nil {
		columns = []string{}
	}
	return ColumnsInfo{
		Columns:  columns,
		Mapped:   mapped,
		RowCount: s.Len(),
		LoadedAt: s.LoadedAt,
	}
}

// StatsResponse is the grouped aggregation payload.
type StatsResponse struct {
	By   string      `json:"by"`
	Data interface{} `json:"data"`
}
