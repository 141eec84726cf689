// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

package query

import (
	"sort"
	"time"

	"github.com/tomtom215/incidentus/internal/metrics"
)

// isoTimestamp renders timestamps without a zone suffix, matching the
// naive datetimes the source datasets carry.
const isoTimestamp = "2006-01-02T15:04:05"

// FeatureProperties carries the non-geometric incident attributes.
type FeatureProperties struct {
	ID          string  `json:"id"`
	Date        *string `json:"date"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	City        string  `json:"city"`
	State       string  `json:"state"`
}

// Geometry is an RFC 7946 Point geometry. Coordinates are [lng, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Feature is an RFC 7946 Feature with a Point geometry.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// FeatureCollection is an RFC 7946 FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// GeoJSON exports every record with both coordinates as a Point feature.
//
// Returns ErrNoGeoData when no record carries both coordinates.
func (e *Engine) GeoJSON() (*FeatureCollection, error) {
	start := time.Now()

	if !e.hasGeoData() {
		return nil, ErrNoGeoData
	}

	features := make([]Feature, 0, len(e.store.Records))
	for i := range e.store.Records {
		r := &e.store.Records[i]
		if !r.HasLocation() {
			continue
		}
		var date *string
		if r.Timestamp != nil {
			iso := r.Timestamp.Format(isoTimestamp)
			date = &iso
		}
		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: [2]float64{*r.Longitude, *r.Latitude},
			},
			Properties: FeatureProperties{
				ID:          r.ID,
				Date:        date,
				Category:    r.Category,
				Description: r.Description,
				City:        r.City,
				State:       r.State,
			},
		})
	}

	metrics.RecordQuery("geojson", time.Since(start), len(features))
	return &FeatureCollection{Type: "FeatureCollection", Features: features}, nil
}

// HeatmapBounds is the coordinate envelope of the binned records.
type HeatmapBounds struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LngMin float64 `json:"lng_min"`
	LngMax float64 `json:"lng_max"`
}

// HeatmapCell is one non-empty grid cell, positioned at its center.
type HeatmapCell struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Count int     `json:"count"`
}

// Heatmap is a fixed-grid density aggregation.
// Bounds is omitted when the data collapses to a single point or line.
type Heatmap struct {
	Bins   int            `json:"bins"`
	Bounds *HeatmapBounds `json:"bounds,omitempty"`
	Grid   []HeatmapCell  `json:"grid"`
}

// Heatmap bins records with both coordinates into a bins x bins grid over
// their coordinate envelope. Only non-empty cells are returned, ordered by
// grid position for stable output.
//
// When all points share a latitude or longitude the grid degenerates to a
// single cell at the envelope minimum and Bounds is omitted.
func (e *Engine) Heatmap(bins int) (*Heatmap, error) {
	start := time.Now()

	if !e.hasGeoData() {
		return nil, ErrNoGeoData
	}

	type point struct{ lat, lng float64 }
	var points []point
	for i := range e.store.Records {
		r := &e.store.Records[i]
		if r.HasLocation() {
			points = append(points, point{*r.Latitude, *r.Longitude})
		}
	}

	latMin, latMax := points[0].lat, points[0].lat
	lngMin, lngMax := points[0].lng, points[0].lng
	for _, p := range points[1:] {
		if p.lat < latMin {
			latMin = p.lat
		}
		if p.lat > latMax {
			latMax = p.lat
		}
		if p.lng < lngMin {
			lngMin = p.lng
		}
		if p.lng > lngMax {
			lngMax = p.lng
		}
	}

	if latMin == latMax || lngMin == lngMax {
		metrics.RecordQuery("heatmap", time.Since(start), 1)
		return &Heatmap{
			Bins: bins,
			Grid: []HeatmapCell{{Lat: latMin, Lng: lngMin, Count: len(points)}},
		}, nil
	}

	latStep := (latMax - latMin) / float64(bins)
	lngStep := (lngMax - lngMin) / float64(bins)

	type cellKey struct{ i, j int }
	cells := make(map[cellKey]int)
	for _, p := range points {
		i := int((p.lat - latMin) / latStep)
		if i > bins-1 {
			i = bins - 1
		}
		j := int((p.lng - lngMin) / lngStep)
		if j > bins-1 {
			j = bins - 1
		}
		cells[cellKey{i, j}]++
	}

	keys := make([]cellKey, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].i != keys[b].i {
			return keys[a].i < keys[b].i
		}
		return keys[a].j < keys[b].j
	})

	grid := make([]HeatmapCell, 0, len(keys))
	for _, k := range keys {
		grid = append(grid, HeatmapCell{
			Lat:   latMin + (float64(k.i)+0.5)*latStep,
			Lng:   lngMin + (float64(k.j)+0.5)*lngStep,
			Count: cells[k],
		})
	}

	metrics.RecordQuery("heatmap", time.Since(start), len(grid))
	return &Heatmap{
		Bins:   bins,
		Bounds: &HeatmapBounds{LatMin: latMin, LatMax: latMax, LngMin: lngMin, LngMax: lngMax},
		Grid:   grid,
	}, nil
}

// hasGeoData reports whether at least one record carries both coordinates.
func (e *Engine) hasGeoData() bool {
	for i := range e.store.Records {
		if e.store.Records[i].HasLocation() {
			return true
		}
	}
	return false
}
