// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

package api

import (
	"net/http"
	"os"
	"time"

	"github.com/tomtom215/incidentus/internal/models"
)

// Health handles GET /api/v1/health
// Reports service status and, when a dataset has been loaded, its shape.
// Health never forces a dataset load; a cold cache reports loaded=false.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := models.HealthStatus{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		StartedAt:     h.startTime,
	}

	if store, ok := h.loader.Loaded(); ok {
		loadedAt := store.LoadedAt
		status.Dataset = &models.DatasetHealth{
			Loaded:   true,
			Rows:     store.Len(),
			LoadedAt: &loadedAt,
		}
	} else {
		status.Dataset = &models.DatasetHealth{Loaded: false}
	}

	respondSuccess(w, status, start)
}

// HealthLive handles GET /api/v1/health/live
// Liveness: the process is up and serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"alive"}`))
}

// HealthReady handles GET /api/v1/health/ready
// Readiness: the dataset file is reachable (or already loaded).
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if _, ok := h.loader.Loaded(); ok {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
		return
	}

	if _, err := os.Stat(h.loader.Path()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"not_ready","reason":"dataset file not reachable"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
