// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/incidentus/internal/logging"
	"github.com/tomtom215/incidentus/internal/models"
	"github.com/tomtom215/incidentus/internal/query"
)

// ExportGeoJSON handles GET /api/v1/export/geojson
// Exports all geolocated incidents as an RFC 7946 FeatureCollection.
// The body is the bare FeatureCollection, not the API envelope, so the file
// drops straight into GIS tools.
func (h *Handler) ExportGeoJSON(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	fc, err := engine.GeoJSON()
	if err != nil {
		if errors.Is(err, query.ErrNoGeoData) {
			respondError(w, http.StatusBadRequest, models.ErrCodeNoGeoData,
				"Dataset has no geographic data", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal,
			"Failed to export GeoJSON", err)
		return
	}

	data, err := json.Marshal(fc)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal,
			"Failed to marshal GeoJSON", err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Content-Disposition", `attachment; filename="incidents.geojson"`)
	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write GeoJSON export")
	}
}

// Heatmap handles GET /api/v1/heatmap
// Bins geolocated incidents into a fixed grid for density rendering.
//
// Query parameters:
//   - bins: grid resolution per axis (default 50, range 5-400)
func (h *Handler) Heatmap(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	bins, err := getIntParam(r, "bins", 50)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	req := HeatmapRequest{Bins: bins}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	hm, err := engine.Heatmap(req.Bins)
	if err != nil {
		if errors.Is(err, query.ErrNoGeoData) {
			respondError(w, http.StatusBadRequest, models.ErrCodeNoGeoData,
				"Dataset has no geographic data", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal,
			"Failed to build heatmap", err)
		return
	}

	respondSuccess(w, hm, start)
}
