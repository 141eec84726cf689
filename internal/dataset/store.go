// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/incidentus/internal/logging"
	"github.com/tomtom215/incidentus/internal/metrics"
	"github.com/tomtom215/incidentus/internal/schema"
)

// ErrSourceNotFound indicates the configured CSV file does not exist.
// The HTTP layer maps this to 404.
var ErrSourceNotFound = errors.New("dataset source not found")

// Loader builds and memoizes the in-memory Store.
//
// The first Load parses the CSV; every subsequent Load returns the same
// *Store. A failed build is not memoized, so a dataset file that appears
// after startup is picked up by the next request.
type Loader struct {
	path string

	mu    sync.RWMutex
	store *Store

	group singleflight.Group
}

// NewLoader creates a Loader for the given CSV path.
// The file is not touched until the first Load.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the configured CSV path.
func (l *Loader) Path() string {
	return l.path
}

// Loaded returns the memoized store without triggering a build.
// Used by health checks, which must stay cheap on a cold process.
func (l *Loader) Loaded() (*Store, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store, l.store != nil
}

// Load returns the memoized store, building it on first use.
//
// Concurrent callers during the initial build are collapsed into a single
// parse; all of them receive the same result.
func (l *Loader) Load(ctx context.Context) (*Store, error) {
	l.mu.RLock()
	store := l.store
	l.mu.RUnlock()
	if store != nil {
		return store, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, _ := l.group.Do("build", func() (interface{}, error) {
		// Re-check under the lock: a previous flight may have published
		// between our RUnlock and Do.
		l.mu.RLock()
		existing := l.store
		l.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		start := time.Now()
		built, buildErr := buildStore(l.path)
		metrics.RecordDatasetLoad(time.Since(start), built.Len(), buildErr)
		if buildErr != nil {
			return nil, buildErr
		}

		logging.Ctx(ctx).Info().
			Str("path", l.path).
			Int("rows", built.Len()).
			Int("columns", len(built.Columns)).
			Dur("duration", time.Since(start)).
			Msg("Dataset loaded")

		l.mu.Lock()
		l.store = built
		l.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

// buildStore parses the CSV at path into an immutable Store.
func buildStore(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Store{}, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return &Store{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // municipal exports are frequently ragged
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		// Empty file: a valid, empty dataset.
		return &Store{
			Path:     path,
			Mapping:  schema.Mapping{},
			LoadedAt: time.Now().UTC(),
		}, nil
	}
	if err != nil {
		return &Store{}, fmt.Errorf("parse dataset header: %w", err)
	}

	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.TrimSpace(col)
	}
	mapping := schema.Infer(columns)
	indexes := columnIndexes(columns, mapping)

	var records []Record
	for row := 0; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip unreadable rows instead of failing the whole load.
			metrics.DatasetRowsDiscarded.Inc()
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return &Store{}, fmt.Errorf("read dataset row %d: %w", row, err)
		}
		records = append(records, buildRecord(fields, indexes, row))
	}

	return &Store{
		Path:     path,
		Columns:  columns,
		Mapping:  mapping,
		Records:  records,
		LoadedAt: time.Now().UTC(),
	}, nil
}

// roleIndexes maps each resolved role to its header position.
type roleIndexes map[schema.Role]int

// columnIndexes resolves mapped column names back to header positions.
// Duplicate headers resolve to the first occurrence, matching role inference.
func columnIndexes(columns []string, mapping schema.Mapping) roleIndexes {
	indexes := make(roleIndexes, len(mapping))
	for role, name := range mapping {
		for i, col := range columns {
			if col == name {
				indexes[role] = i
				break
			}
		}
	}
	return indexes
}

// field returns the raw value for a role, or "" when the role is unmapped
// or the row is too short.
func (ri roleIndexes) field(fields []string, role schema.Role) string {
	i, ok := ri[role]
	if !ok || i >= len(fields) {
		return ""
	}
	return fields[i]
}

// buildRecord coerces one CSV row. Coercion failures degrade the field to
// its absent form (nil pointer, empty string); they never fail the load.
func buildRecord(fields []string, indexes roleIndexes, row int) Record {
	rec := Record{
		Category:    indexes.field(fields, schema.RoleCategory),
		Description: indexes.field(fields, schema.RoleDescription),
		City:        indexes.field(fields, schema.RoleCity),
		State:       indexes.field(fields, schema.RoleState),
	}

	rec.ID = strings.TrimSpace(indexes.field(fields, schema.RoleID))
	if rec.ID == "" {
		// Positional fallback keeps every record addressable.
		rec.ID = strconv.Itoa(row)
	}

	if t, ok := ParseDate(indexes.field(fields, schema.RoleDate)); ok {
		rec.Timestamp = &t
	}

	rec.Latitude = parseCoordinate(indexes.field(fields, schema.RoleLatitude))
	rec.Longitude = parseCoordinate(indexes.field(fields, schema.RoleLongitude))

	return rec
}

// parseCoordinate parses a float field, treating blanks, non-numeric text,
// and NaN/Inf as absent.
func parseCoordinate(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
