// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

// Package query implements filtering, aggregation, and geographic export
// over an immutable dataset store.
//
// An Engine never mutates the store it wraps, so a single Engine is safe for
// concurrent use by any number of requests.
package query

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/incidentus/internal/dataset"
	"github.com/tomtom215/incidentus/internal/metrics"
)

// ErrInvalidGroupKey indicates an unsupported stats grouping dimension.
var ErrInvalidGroupKey = errors.New("invalid group key")

// ErrNoGeoData indicates the dataset has no usable coordinate columns.
var ErrNoGeoData = errors.New("dataset has no latitude/longitude data")

// Engine answers queries against one immutable store snapshot.
type Engine struct {
	store *dataset.Store
}

// NewEngine creates an Engine over the given store.
func NewEngine(store *dataset.Store) *Engine {
	return &Engine{store: store}
}

// Store returns the underlying store snapshot.
func (e *Engine) Store() *dataset.Store {
	return e.store
}

// ListFilter narrows and pages the record listing. Zero values mean
// "no constraint"; Limit and Offset are applied as given.
type ListFilter struct {
	// Query matches case-insensitive substrings of description or category.
	Query string

	// Category, City, and State match their fields exactly,
	// case-insensitive.
	Category string
	City     string
	State    string

	// Start and End bound the record timestamp inclusively. Records
	// without a timestamp never match a date bound.
	Start *time.Time
	End   *time.Time

	// Bounding box. Records without the corresponding coordinate never
	// match a coordinate bound.
	MinLat *float64
	MaxLat *float64
	MinLng *float64
	MaxLng *float64

	// Sort is "date" (ascending) or "-date" (descending). Records without
	// a timestamp sort last in both directions.
	Sort string

	Limit  int
	Offset int
}

// ListResult is one page of matching records.
type ListResult struct {
	// Total counts all matches before pagination.
	Total int

	Items []dataset.Record
}

// List applies the filter, sorts, and returns the requested page.
func (e *Engine) List(filter ListFilter) ListResult {
	start := time.Now()

	matched := make([]dataset.Record, 0, len(e.store.Records))
	for i := range e.store.Records {
		if filter.matches(&e.store.Records[i]) {
			matched = append(matched, e.store.Records[i])
		}
	}

	descending := filter.Sort != "date"
	sort.SliceStable(matched, func(i, j int) bool {
		return lessByTimestamp(&matched[i], &matched[j], descending)
	})

	total := len(matched)
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if filter.Limit > 0 && offset+filter.Limit < end {
		end = offset + filter.Limit
	}

	metrics.RecordQuery("list", time.Since(start), total)
	return ListResult{Total: total, Items: matched[offset:end]}
}

// matches reports whether the record satisfies every set constraint.
func (f *ListFilter) matches(r *dataset.Record) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(r.Description), q) &&
			!strings.Contains(strings.ToLower(r.Category), q) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(r.Category, f.Category) {
		return false
	}
	if f.City != "" && !strings.EqualFold(r.City, f.City) {
		return false
	}
	if f.State != "" && !strings.EqualFold(r.State, f.State) {
		return false
	}
	if !withinDates(r.Timestamp, f.Start, f.End) {
		return false
	}
	if f.MinLat != nil && (r.Latitude == nil || *r.Latitude < *f.MinLat) {
		return false
	}
	if f.MaxLat != nil && (r.Latitude == nil || *r.Latitude > *f.MaxLat) {
		return false
	}
	if f.MinLng != nil && (r.Longitude == nil || *r.Longitude < *f.MinLng) {
		return false
	}
	if f.MaxLng != nil && (r.Longitude == nil || *r.Longitude > *f.MaxLng) {
		return false
	}
	return true
}

// withinDates applies inclusive timestamp bounds. A nil timestamp fails
// any set bound.
func withinDates(ts, start, end *time.Time) bool {
	if start != nil && (ts == nil || ts.Before(*start)) {
		return false
	}
	if end != nil && (ts == nil || ts.After(*end)) {
		return false
	}
	return true
}

// lessByTimestamp orders records by timestamp in the requested direction
// with nil timestamps pinned to the end either way.
func lessByTimestamp(a, b *dataset.Record, descending bool) bool {
	switch {
	case a.Timestamp == nil:
		return false
	case b.Timestamp == nil:
		return true
	case descending:
		return a.Timestamp.After(*b.Timestamp)
	default:
		return a.Timestamp.Before(*b.Timestamp)
	}
}

// StatsBucket is one group in an aggregation. Key is a string for most
// dimensions and an int for year grouping.
type StatsBucket struct {
	Key   interface{} `json:"key"`
	Count int         `json:"count"`
}

// Stats groups records by the given dimension, optionally bounded by an
// inclusive timestamp range.
//
// Categorical dimensions (category, city, state) sort by count descending
// with ties keeping first-seen order; time dimensions (day, month, year)
// sort by key ascending and skip records without a timestamp.
func (e *Engine) Stats(by string, start, end *time.Time) ([]StatsBucket, error) {
	began := time.Now()

	var buckets []StatsBucket
	switch by {
	case "category":
		buckets = e.groupByString(func(r *dataset.Record) string { return r.Category }, start, end)
	case "city":
		buckets = e.groupByString(func(r *dataset.Record) string { return r.City }, start, end)
	case "state":
		buckets = e.groupByString(func(r *dataset.Record) string { return r.State }, start, end)
	case "day":
		buckets = e.groupByTime(func(t time.Time) interface{} { return t.Format("2006-01-02") }, start, end)
	case "month":
		buckets = e.groupByTime(func(t time.Time) interface{} { return t.Format("2006-01") }, start, end)
	case "year":
		buckets = e.groupByTime(func(t time.Time) interface{} { return t.Year() }, start, end)
	default:
		return nil, ErrInvalidGroupKey
	}

	metrics.RecordQuery("stats", time.Since(began), len(buckets))
	return buckets, nil
}

// groupByString counts records per key and sorts by count descending.
func (e *Engine) groupByString(key func(*dataset.Record) string, start, end *time.Time) []StatsBucket {
	counts := make(map[string]int)
	var order []string
	for i := range e.store.Records {
		r := &e.store.Records[i]
		if !withinDates(r.Timestamp, start, end) {
			continue
		}
		k := key(r)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	buckets := make([]StatsBucket, 0, len(order))
	for _, k := range order {
		buckets = append(buckets, StatsBucket{Key: k, Count: counts[k]})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	return buckets
}

// groupByTime counts records per derived time key and sorts by key ascending.
// The key function receives only non-nil timestamps.
func (e *Engine) groupByTime(key func(time.Time) interface{}, start, end *time.Time) []StatsBucket {
	type timeKey struct {
		sortable time.Time
		value    interface{}
	}
	counts := make(map[interface{}]int)
	firsts := make(map[interface{}]time.Time)
	for i := range e.store.Records {
		r := &e.store.Records[i]
		if r.Timestamp == nil || !withinDates(r.Timestamp, start, end) {
			continue
		}
		k := key(*r.Timestamp)
		if _, seen := counts[k]; !seen {
			firsts[k] = *r.Timestamp
		} else if r.Timestamp.Before(firsts[k]) {
			firsts[k] = *r.Timestamp
		}
		counts[k]++
	}

	keys := make([]timeKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, timeKey{sortable: firsts[k], value: k})
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].sortable.Before(keys[j].sortable)
	})

	buckets := make([]StatsBucket, 0, len(keys))
	for _, k := range keys {
		buckets = append(buckets, StatsBucket{Key: k.value, Count: counts[k.value]})
	}
	return buckets
}
