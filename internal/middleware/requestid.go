// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

// Package middleware provides HTTP middleware shared by the API layer.
package middleware

import (
	"net/http"

	"github.com/tomtom215/incidentus/internal/logging"
)

// RequestID attaches a request ID and correlation ID to the request context
// and echoes the request ID in the X-Request-ID response header. An incoming
// X-Request-ID header is honored so IDs propagate across proxies.
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = logging.ContextWithNewCorrelationID(ctx)

		w.Header().Set("X-Request-ID", requestID)
		next(w, r.WithContext(ctx))
	}
}
