// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

package dataset

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dateLayouts are tried in order before falling back to the permissive
// parser. Ordering matters: ambiguous values resolve to the first layout
// that accepts them (e.g. "01/02/2006" is month-first, US convention).
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"01/02/2006 15:04",
	"01/02/06",
	"2006/01/02",
	"02-01-2006",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
}

// ParseDate normalizes a raw date string from the dataset.
//
// The fixed layouts cover the formats seen across municipal incident
// exports; anything else goes through dateparse, which handles the long
// tail (RFC 3339 with zones, month names, unix epochs). Returns false for
// empty or unparseable input - callers treat those rows as having no date
// rather than failing the load.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	if t, err := dateparse.ParseAny(value); err == nil {
		return t, true
	}

	return time.Time{}, false
}
