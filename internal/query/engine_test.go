// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

package query

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/incidentus/internal/dataset"
)

func ts(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func fp(v float64) *float64 { return &v }

// testStore builds a small fixture covering categories, cities, missing
// dates, and missing coordinates.
func testStore() *dataset.Store {
	return &dataset.Store{
		Records: []dataset.Record{
			{ID: "0", Timestamp: ts(2021, 3, 5), Category: "THEFT", Description: "bike stolen", City: "Springfield", State: "OH", Latitude: fp(39.9), Longitude: fp(-83.8)},
			{ID: "1", Timestamp: ts(2021, 4, 1), Category: "ASSAULT", Description: "bar fight", City: "Dayton", State: "OH", Latitude: fp(39.7), Longitude: fp(-84.2)},
			{ID: "2", Timestamp: ts(2020, 12, 31), Category: "THEFT", Description: "shoplifting", City: "Springfield", State: "OH", Latitude: fp(39.92), Longitude: fp(-83.81)},
			{ID: "3", Timestamp: nil, Category: "FRAUD", Description: "wire fraud", City: "Columbus", State: "OH"},
			{ID: "4", Timestamp: ts(2022, 1, 15), Category: "theft", Description: "porch piracy", City: "Dayton", State: "OH", Latitude: fp(39.75), Longitude: fp(-84.19)},
		},
	}
}

func TestListNoFilter(t *testing.T) {
	e := NewEngine(testStore())
	res := e.List(ListFilter{Limit: 100})

	if res.Total != 5 {
		t.Fatalf("Total = %d, want 5", res.Total)
	}
	// Default sort is descending by date with undated records last.
	wantOrder := []string{"4", "1", "0", "2", "3"}
	for i, want := range wantOrder {
		if res.Items[i].ID != want {
			t.Errorf("item %d = %q, want %q", i, res.Items[i].ID, want)
		}
	}
}

func TestListSortAscending(t *testing.T) {
	e := NewEngine(testStore())
	res := e.List(ListFilter{Sort: "date", Limit: 100})

	wantOrder := []string{"2", "0", "1", "4", "3"}
	for i, want := range wantOrder {
		if res.Items[i].ID != want {
			t.Errorf("item %d = %q, want %q", i, res.Items[i].ID, want)
		}
	}
}

func TestListTextSearch(t *testing.T) {
	e := NewEngine(testStore())

	tests := []struct {
		name   string
		filter ListFilter
		want   int
	}{
		{"substring of description", ListFilter{Query: "stolen", Limit: 100}, 1},
		{"substring of category", ListFilter{Query: "theft", Limit: 100}, 3},
		{"case insensitive", ListFilter{Query: "BIKE", Limit: 100}, 1},
		{"no match", ListFilter{Query: "arson", Limit: 100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := e.List(tt.filter); res.Total != tt.want {
				t.Errorf("Total = %d, want %d", res.Total, tt.want)
			}
		})
	}
}

func TestListExactFilters(t *testing.T) {
	e := NewEngine(testStore())

	// Category matching is exact but case-insensitive: "theft" and
	// "THEFT" are one category.
	if res := e.List(ListFilter{Category: "Theft", Limit: 100}); res.Total != 3 {
		t.Errorf("category filter Total = %d, want 3", res.Total)
	}
	if res := e.List(ListFilter{City: "springfield", Limit: 100}); res.Total != 2 {
		t.Errorf("city filter Total = %d, want 2", res.Total)
	}
	if res := e.List(ListFilter{State: "oh", Limit: 100}); res.Total != 5 {
		t.Errorf("state filter Total = %d, want 5", res.Total)
	}
	if res := e.List(ListFilter{State: "KY", Limit: 100}); res.Total != 0 {
		t.Errorf("non-matching state Total = %d, want 0", res.Total)
	}
}

func TestListDateBounds(t *testing.T) {
	e := NewEngine(testStore())

	res := e.List(ListFilter{Start: ts(2021, 4, 1), Limit: 100})
	if res.Total != 2 {
		t.Fatalf("start bound Total = %d, want 2", res.Total)
	}
	for _, item := range res.Items {
		if item.Timestamp == nil {
			t.Error("undated record matched a date bound")
		}
	}

	res = e.List(ListFilter{Start: ts(2021, 1, 1), End: ts(2021, 12, 31), Limit: 100})
	if res.Total != 2 {
		t.Errorf("range Total = %d, want 2", res.Total)
	}

	// Bounds are inclusive.
	res = e.List(ListFilter{Start: ts(2021, 3, 5), End: ts(2021, 3, 5), Limit: 100})
	if res.Total != 1 {
		t.Errorf("inclusive bound Total = %d, want 1", res.Total)
	}
}

func TestListBoundingBox(t *testing.T) {
	e := NewEngine(testStore())

	// Springfield cluster only.
	res := e.List(ListFilter{MinLat: fp(39.85), MaxLat: fp(40.0), Limit: 100})
	if res.Total != 2 {
		t.Fatalf("bbox Total = %d, want 2", res.Total)
	}

	// A record without coordinates never matches a coordinate bound.
	res = e.List(ListFilter{MinLat: fp(-90), Limit: 100})
	if res.Total != 4 {
		t.Errorf("min_lat=-90 Total = %d, want 4 (no-geo record excluded)", res.Total)
	}
}

func TestListPagination(t *testing.T) {
	e := NewEngine(testStore())

	page := e.List(ListFilter{Sort: "date", Limit: 2, Offset: 0})
	if page.Total != 5 || len(page.Items) != 2 {
		t.Fatalf("page 1: total=%d len=%d, want 5/2", page.Total, len(page.Items))
	}
	if page.Items[0].ID != "2" {
		t.Errorf("page 1 first = %q, want 2", page.Items[0].ID)
	}

	page = e.List(ListFilter{Sort: "date", Limit: 2, Offset: 4})
	if len(page.Items) != 1 {
		t.Fatalf("last page len = %d, want 1", len(page.Items))
	}

	page = e.List(ListFilter{Sort: "date", Limit: 2, Offset: 100})
	if len(page.Items) != 0 {
		t.Errorf("offset past end len = %d, want 0", len(page.Items))
	}
	if page.Total != 5 {
		t.Errorf("offset past end Total = %d, want 5", page.Total)
	}
}

func TestStatsCategory(t *testing.T) {
	e := NewEngine(testStore())

	buckets, err := e.Stats("category", nil, nil)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	// Raw category strings group as-is: "THEFT" and "theft" are distinct
	// buckets here, counts sorted descending.
	if len(buckets) != 4 {
		t.Fatalf("bucket count = %d, want 4: %v", len(buckets), buckets)
	}
	if buckets[0].Key != "THEFT" || buckets[0].Count != 2 {
		t.Errorf("top bucket = %+v, want THEFT/2", buckets[0])
	}
}

func TestStatsTimeGroupings(t *testing.T) {
	e := NewEngine(testStore())

	day, err := e.Stats("day", nil, nil)
	if err != nil {
		t.Fatalf("Stats(day) error = %v", err)
	}
	if len(day) != 4 {
		t.Fatalf("day buckets = %d, want 4 (undated record skipped)", len(day))
	}
	if day[0].Key != "2020-12-31" {
		t.Errorf("first day key = %v, want 2020-12-31 (ascending)", day[0].Key)
	}

	month, err := e.Stats("month", nil, nil)
	if err != nil {
		t.Fatalf("Stats(month) error = %v", err)
	}
	if month[0].Key != "2020-12" {
		t.Errorf("first month key = %v, want 2020-12", month[0].Key)
	}

	year, err := e.Stats("year", nil, nil)
	if err != nil {
		t.Fatalf("Stats(year) error = %v", err)
	}
	if year[0].Key != 2020 {
		t.Errorf("first year key = %v (%T), want int 2020", year[0].Key, year[0].Key)
	}
	if year[1].Key != 2021 || year[1].Count != 2 {
		t.Errorf("2021 bucket = %+v, want 2021/2", year[1])
	}
}

func TestStatsDateBounds(t *testing.T) {
	e := NewEngine(testStore())

	buckets, err := e.Stats("category", ts(2021, 1, 1), ts(2021, 12, 31))
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if total != 2 {
		t.Errorf("bounded stats counted %d records, want 2", total)
	}
}

func TestStatsInvalidGroupKey(t *testing.T) {
	e := NewEngine(testStore())
	if _, err := e.Stats("severity", nil, nil); !errors.Is(err, ErrInvalidGroupKey) {
		t.Errorf("Stats(severity) error = %v, want ErrInvalidGroupKey", err)
	}
}

func TestStatsEmptyTimeGrouping(t *testing.T) {
	e := NewEngine(&dataset.Store{
		Records: []dataset.Record{
			{ID: "0", Category: "THEFT"},
		},
	})

	buckets, err := e.Stats("day", nil, nil)
	if err != nil {
		t.Fatalf("Stats(day) error = %v", err)
	}
	if len(buckets) != 0 {
		t.Errorf("day buckets over undated data = %d, want 0", len(buckets))
	}
	if buckets == nil {
		t.Error("buckets should be an empty slice, not nil")
	}
}
