// Incidentus - Incident Dataset Query and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/incidentus

// Package schema infers semantic column roles from raw CSV headers.
//
// Municipal incident exports use wildly inconsistent column naming
// ("lat" vs "latitude" vs "y", "offense" vs "crime_type"). The mapper
// resolves each role against an ordered candidate list so the rest of the
// system can address columns by role instead of by literal header name.
package schema

import "strings"

// Role identifies the semantic meaning of a dataset column.
type Role string

// Known column roles.
const (
	RoleLatitude    Role = "latitude"
	RoleLongitude   Role = "longitude"
	RoleDate        Role = "date"
	RoleCategory    Role = "category"
	RoleDescription Role = "description"
	RoleID          Role = "id"
	RoleCity        Role = "city"
	RoleState       Role = "state"
)

// AllRoles lists every known role in candidate-list order.
var AllRoles = []Role{
	RoleLatitude,
	RoleLongitude,
	RoleDate,
	RoleCategory,
	RoleDescription,
	RoleID,
	RoleCity,
	RoleState,
}

// Mapping associates roles with the original column names they resolved to.
// Roles with no matching column are absent from the map.
type Mapping map[Role]string

// roleCandidates lists, per role, the header names that may carry it.
// Candidate order is priority order: the first candidate present among the
// columns wins, regardless of column position.
var roleCandidates = []struct {
	role       Role
	candidates []string
}{
	{RoleLatitude, []string{"latitude", "lat", "y"}},
	{RoleLongitude, []string{"longitude", "lon", "lng", "x"}},
	{RoleDate, []string{"date", "datetime", "occurred_on", "timestamp", "reported_date", "reported_at"}},
	{RoleCategory, []string{"category", "offense", "crime_type", "offense_type", "type", "ucr", "incident_type"}},
	{RoleDescription, []string{"description", "details", "summary", "narrative", "offense_description", "incident_description"}},
	{RoleID, []string{"id", "incident_id", "case_number", "case_id", "event_number"}},
	{RoleCity, []string{"city", "municipality", "jurisdiction"}},
	{RoleState, []string{"state", "province", "region"}},
}

// Infer resolves column roles for the given header row.
//
// Matching is case-insensitive and exact. Roles resolve independently, so a
// single column may serve more than one role. The returned mapping carries
// the original (case-preserved) column names.
func Infer(columns []string) Mapping {
	lower := make([]string, len(columns))
	for i, col := range columns {
		lower[i] = strings.ToLower(col)
	}

	mapping := make(Mapping)
	for _, rc := range roleCandidates {
		for _, cand := range rc.candidates {
			if col, ok := findColumn(columns, lower, cand); ok {
				mapping[rc.role] = col
				break
			}
		}
	}
	return mapping
}

// findColumn returns the first original column whose lowercased name equals cand.
func findColumn(columns, lower []string, cand string) (string, bool) {
	for i, l := range lower {
		if l == cand {
			return columns[i], true
		}
	}
	return "", false
}

// Column returns the original column name mapped to the given role.
func (m Mapping) Column(role Role) (string, bool) {
	col, ok := m[role]
	return col, ok
}

// Roles returns the roles present in the mapping, in candidate-list order.
// Useful for deterministic serialization.
func (m Mapping) Roles() []Role {
	roles := make([]Role, 0, len(m))
	for _, rc := range roleCandidates {
		if _, ok := m[rc.role]; ok {
			roles = append(roles, rc.role)
		}
	}
	return roles
}
