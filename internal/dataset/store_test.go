// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/tomtom215/incidentus/internal/schema"
)

// writeCSV writes content to a temp file and returns its path.
func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "incidents.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadBasic(t *testing.T) {
	path := writeCSV(t, "Latitude,Longitude,Date,Offense\n"+
		"39.1,-84.5,2021-03-05,THEFT\n"+
		"39.2,-84.6,2021-04-01,ASSAULT\n")

	loader := NewLoader(path)
	store, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}
	if got := store.Mapping[schema.RoleCategory]; got != "Offense" {
		t.Errorf("category column = %q, want %q", got, "Offense")
	}

	first := store.Records[0]
	if first.Latitude == nil || *first.Latitude != 39.1 {
		t.Errorf("record 0 latitude = %v, want 39.1", first.Latitude)
	}
	if first.Timestamp == nil || first.Timestamp.Year() != 2021 {
		t.Errorf("record 0 timestamp = %v, want year 2021", first.Timestamp)
	}
	if first.Category != "THEFT" {
		t.Errorf("record 0 category = %q, want THEFT", first.Category)
	}
	if first.ID != "0" {
		t.Errorf("record 0 id = %q, want positional fallback \"0\"", first.ID)
	}
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent.csv"))

	_, err := loader.Load(context.Background())
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("Load() error = %v, want ErrSourceNotFound", err)
	}
}

func TestLoadFailureNotMemoized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.csv")
	loader := NewLoader(path)

	if _, err := loader.Load(context.Background()); !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("first Load() error = %v, want ErrSourceNotFound", err)
	}

	// The file shows up after the first failed attempt.
	if err := os.WriteFile(path, []byte("lat,lon\n1.0,2.0\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestLoadMemoized(t *testing.T) {
	path := writeCSV(t, "lat,lon\n1.0,2.0\n")
	loader := NewLoader(path)

	first, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Mutating the file must not affect subsequent loads.
	if err := os.WriteFile(path, []byte("lat,lon\n9.0,9.0\n9.0,9.0\n"), 0o600); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}

	second, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if first != second {
		t.Error("Load() returned a different store instance after memoization")
	}
}

func TestLoadConcurrentFirstAccess(t *testing.T) {
	path := writeCSV(t, "lat,lon,date\n1.0,2.0,2021-01-01\n")
	loader := NewLoader(path)

	const goroutines = 16
	stores := make([]*Store, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := loader.Load(context.Background())
			if err != nil {
				t.Errorf("Load() error = %v", err)
				return
			}
			stores[i] = s
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if stores[i] != stores[0] {
			t.Fatalf("goroutine %d observed a different store instance", i)
		}
	}
}

func TestLoadCoercionFailuresAbsorbed(t *testing.T) {
	path := writeCSV(t, "id,lat,lon,date,category\n"+
		"A-1,not-a-number,-84.5,never,THEFT\n"+
		",39.1,,2021-03-05,\n")

	store, err := NewLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}

	first := store.Records[0]
	if first.Latitude != nil {
		t.Errorf("unparseable latitude = %v, want nil", first.Latitude)
	}
	if first.Longitude == nil {
		t.Error("valid longitude dropped")
	}
	if first.Timestamp != nil {
		t.Errorf("unparseable date = %v, want nil", first.Timestamp)
	}
	if first.ID != "A-1" {
		t.Errorf("id = %q, want A-1", first.ID)
	}

	second := store.Records[1]
	if second.ID != "1" {
		t.Errorf("blank id = %q, want positional fallback \"1\"", second.ID)
	}
	if second.HasLocation() {
		t.Error("record with missing longitude reported HasLocation")
	}
}

func TestLoadShortRows(t *testing.T) {
	// Ragged rows are common in hand-edited exports; missing trailing
	// fields coerce to absent values.
	path := writeCSV(t, "lat,lon,date\n39.1\n39.2,-84.6,2021-01-01\n")

	store, err := NewLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}
	if store.Records[0].Longitude != nil {
		t.Error("missing longitude field should coerce to nil")
	}
	if !store.Records[1].HasLocation() {
		t.Error("complete row lost its coordinates")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	store, err := NewLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
	if len(store.Columns) != 0 {
		t.Errorf("Columns = %v, want empty", store.Columns)
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	path := writeCSV(t, "lat,lon,date\n")

	store, err := NewLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
	if _, ok := store.Mapping[schema.RoleLatitude]; !ok {
		t.Error("header-only file should still infer roles")
	}
}

func TestLoadedDoesNotBuild(t *testing.T) {
	path := writeCSV(t, "lat,lon\n1.0,2.0\n")
	loader := NewLoader(path)

	if _, ok := loader.Loaded(); ok {
		t.Fatal("Loaded() reported a store before any Load")
	}

	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, ok := loader.Loaded(); !ok {
		t.Fatal("Loaded() missing store after Load")
	}
}
