// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/incidentus/internal/config"
	"github.com/tomtom215/incidentus/internal/dataset"
	"github.com/tomtom215/incidentus/internal/logging"
	"github.com/tomtom215/incidentus/internal/models"
	"github.com/tomtom215/incidentus/internal/query"
)

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	loader    *dataset.Loader
	cfg       *config.Config
	version   string
	startTime time.Time
}

// NewHandler creates a Handler backed by the given dataset loader.
func NewHandler(loader *dataset.Loader, cfg *config.Config, version string) *Handler {
	return &Handler{
		loader:    loader,
		cfg:       cfg,
		version:   version,
		startTime: time.Now(),
	}
}

// engine loads the dataset (first call builds it) and wraps it in a query
// engine. On failure it writes the error response and returns false.
func (h *Handler) engine(w http.ResponseWriter, r *http.Request) (*query.Engine, bool) {
	store, err := h.loader.Load(r.Context())
	if err != nil {
		if errors.Is(err, dataset.ErrSourceNotFound) {
			respondError(w, http.StatusNotFound, models.ErrCodeSourceNotFound,
				"Incident dataset is not available", err)
			return nil, false
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("Dataset load failed")
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal,
			"Failed to load incident dataset", err)
		return nil, false
	}
	return query.NewEngine(store), true
}
