// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

// Package dataset loads the incident CSV into an immutable in-memory store.
//
// The store is built lazily on first access and memoized for the lifetime of
// the process. Concurrent first accesses are collapsed into a single build via
// singleflight, so the CSV is parsed at most once no matter how many requests
// race on a cold start.
package dataset

import (
	"time"

	"github.com/tomtom215/incidentus/internal/schema"
)

// Record is one normalized incident row.
//
// Pointer fields distinguish "absent or unparseable" from zero values: a
// record at (0, 0) is a real location, a record with nil coordinates has no
// usable location at all.
type Record struct {
	ID          string
	Timestamp   *time.Time
	Category    string
	Description string
	City        string
	State       string
	Latitude    *float64
	Longitude   *float64
}

// HasLocation reports whether the record carries both coordinates.
func (r *Record) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Store is the immutable result of a dataset load.
//
// Nothing mutates a Store after Loader publishes it; readers share it
// without synchronization.
type Store struct {
	// Path is the CSV file the store was built from.
	Path string

	// Columns is the raw header row in file order.
	Columns []string

	// Mapping is the inferred column role mapping.
	Mapping schema.Mapping

	// Records holds all rows in file order.
	Records []Record

	// LoadedAt is when the build completed.
	LoadedAt time.Time
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.Records)
}
