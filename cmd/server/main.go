// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

// Package main is the entry point for the Incidentus server.
//
// Incidentus serves municipal incident CSV exports over a query and
// aggregation HTTP API: filtered listings, grouped statistics, GeoJSON
// export, and grid heatmaps. Column roles (date, category, coordinates,
// and so on) are inferred from the headers, so differently shaped civic
// exports work without per-dataset configuration.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: settings from environment variables and config files (Koanf v2)
//  2. Dataset loader: lazy CSV loader; the file is read on first data request
//  3. HTTP server: Chi router under a suture supervisor tree
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config.yaml, built-in defaults.
//
// Common settings:
//   - INCIDENT_CSV: path to the incident CSV export (default data/incidents.csv)
//   - HTTP_PORT: listen port (default 4326)
//   - LOG_LEVEL, LOG_FORMAT: zerolog settings
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections and waits up to 10s for in-flight requests.
//
// # Port 4326
//
// The default port 4326 references EPSG:4326, the coordinate reference
// system the dataset's latitude/longitude columns live in.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/incidentus/internal/api"
	"github.com/tomtom215/incidentus/internal/config"
	"github.com/tomtom215/incidentus/internal/dataset"
	"github.com/tomtom215/incidentus/internal/logging"
	"github.com/tomtom215/incidentus/internal/metrics"
	"github.com/tomtom215/incidentus/internal/supervisor"
	"github.com/tomtom215/incidentus/internal/supervisor/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("dataset", cfg.Dataset.Path).
		Int("port", cfg.Server.Port).
		Msg("Starting Incidentus")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	// The dataset is loaded lazily on the first data request, so a missing
	// file at startup is a warning, not a failure. It may be mounted later.
	loader := dataset.NewLoader(cfg.Dataset.Path)
	if _, err := os.Stat(cfg.Dataset.Path); err != nil {
		logging.Warn().
			Str("path", cfg.Dataset.Path).
			Msg("Incident CSV not found at startup; data endpoints return 404 until it appears")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	handler := api.NewHandler(loader, cfg, version)
	router := api.NewRouter(handler, &api.ChiMiddlewareConfig{
		CORSAllowedOrigins:   cfg.API.CORSOrigins,
		CORSAllowedMethods:   []string{"GET", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		CORSExposedHeaders:   []string{"X-Request-ID"},
		CORSAllowCredentials: false,
		CORSMaxAge:           86400,
		RateLimitRequests:    cfg.API.RateLimitReqs,
		RateLimitWindow:      cfg.API.RateLimitWindow,
		RateLimitDisabled:    cfg.API.RateLimitDisabled,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Uptime gauge for /metrics
	go func() {
		start := time.Now()
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.AppUptime.Set(time.Since(start).Seconds())
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
