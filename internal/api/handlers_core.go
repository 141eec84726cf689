// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/incidentus/internal/dataset"
	"github.com/tomtom215/incidentus/internal/models"
	"github.com/tomtom215/incidentus/internal/query"
)

// Columns handles GET /api/v1/columns
// Returns the raw dataset columns and the inferred role mapping.
func (h *Handler) Columns(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	respondSuccess(w, models.ColumnsInfoFromStore(engine.Store()), start)
}

// Incidents handles GET /api/v1/incidents
// Lists incidents with filtering, sorting, and pagination.
//
// Query parameters:
//   - q: case-insensitive substring match on description or category
//   - category, city, state: exact case-insensitive match
//   - start_date, end_date: inclusive date bounds
//   - min_lat, max_lat, min_lng, max_lng: bounding box
//   - sort: "date" or "-date" (default "-date")
//   - limit (default 100, max 1000), offset (default 0)
func (h *Handler) Incidents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := getIntParam(r, "limit", h.cfg.API.DefaultPageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	offset, err := getIntParam(r, "offset", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	req := IncidentsRequest{
		Limit:  limit,
		Offset: offset,
		Sort:   getStringParam(r, "sort", "-date"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	filter, apiErr := h.buildListFilter(r, req)
	if apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	result := engine.List(filter)

	items := make([]models.Incident, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, models.IncidentFromRecord(&result.Items[i]))
	}

	respondSuccess(w, models.IncidentPage{
		Total:  result.Total,
		Limit:  req.Limit,
		Offset: req.Offset,
		Items:  items,
	}, start)
}

// buildListFilter parses the optional filter parameters into a query filter.
func (h *Handler) buildListFilter(r *http.Request, req IncidentsRequest) (query.ListFilter, *models.APIError) {
	filter := query.ListFilter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		City:     r.URL.Query().Get("city"),
		State:    r.URL.Query().Get("state"),
		Sort:     req.Sort,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}

	var err error
	if filter.Start, err = getDateParam(r, "start_date", dataset.ParseDate); err != nil {
		return filter, &models.APIError{Code: models.ErrCodeValidation, Message: err.Error()}
	}
	if filter.End, err = getDateParam(r, "end_date", dataset.ParseDate); err != nil {
		return filter, &models.APIError{Code: models.ErrCodeValidation, Message: err.Error()}
	}
	if filter.MinLat, err = getFloatParam(r, "min_lat"); err != nil {
		return filter, &models.APIError{Code: models.ErrCodeValidation, Message: err.Error()}
	}
	if filter.MaxLat, err = getFloatParam(r, "max_lat"); err != nil {
		return filter, &models.APIError{Code: models.ErrCodeValidation, Message: err.Error()}
	}
	if filter.MinLng, err = getFloatParam(r, "min_lng"); err != nil {
		return filter, &models.APIError{Code: models.ErrCodeValidation, Message: err.Error()}
	}
	if filter.MaxLng, err = getFloatParam(r, "max_lng"); err != nil {
		return filter, &models.APIError{Code: models.ErrCodeValidation, Message: err.Error()}
	}

	return filter, nil
}
