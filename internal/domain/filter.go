package domain

import (
	"slices"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	RecentLimit     = 10
)

// OrderField is one column of an ORDER BY clause.
type OrderField struct {
	Name string
	Desc bool
}

// Orderable columns a client may sort on.
var orderableFields = map[string]bool{
	"date":            true,
	"duration":        true,
	"distance":        true,
	"calories_burned": true,
	"created_at":      true,
}

var DefaultOrdering = []OrderField{
	{Name: "date", Desc: true},
	{Name: "created_at", Desc: true},
}

// ParseOrdering reads a comma separated list such as "-date,duration".
// Fields outside the allow-list are dropped; an empty result falls back to
// DefaultOrdering.
func ParseOrdering(raw string) []OrderField {
	var out []OrderField
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		if !orderableFields[name] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, OrderField{Name: name, Desc: desc})
	}
	if len(out) == 0 {
		return DefaultOrdering
	}
	return out
}

// ActivityFilter narrows a user's activities. Every condition is optional
// and all of them are AND-combined; UserID is always applied.
type ActivityFilter struct {
	UserID      int64
	Types       []ActivityType
	Intensities []Intensity
	Date        *Date
	Year        *int
	Month       *int
	PeriodFrom  *Date
	DateFrom    *Date
	DateTo      *Date
	MinDuration *int
	MaxDuration *int
	MinDistance *float64
	MaxDistance *float64
	MinCalories *int
	MaxCalories *int
	Search      string
	Ordering    []OrderField
}

// Matches reports whether a satisfies the filter, mirroring the SQL the
// repository builds for it.
func (f ActivityFilter) Matches(a *Activity) bool {
	if a.UserID != f.UserID {
		return false
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, a.ActivityType) {
		return false
	}
	if len(f.Intensities) > 0 && !slices.Contains(f.Intensities, a.Intensity) {
		return false
	}
	if f.Date != nil && !a.Date.Equal(*f.Date) {
		return false
	}
	if f.Year != nil && a.Date.Year() != *f.Year {
		return false
	}
	if f.Month != nil && int(a.Date.Month()) != *f.Month {
		return false
	}
	if f.PeriodFrom != nil && a.Date.Before(*f.PeriodFrom) {
		return false
	}
	if f.DateFrom != nil && a.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && a.Date.After(*f.DateTo) {
		return false
	}
	if f.MinDuration != nil && a.Duration < *f.MinDuration {
		return false
	}
	if f.MaxDuration != nil && a.Duration > *f.MaxDuration {
		return false
	}
	if (f.MinDistance != nil || f.MaxDistance != nil) && a.Distance == nil {
		return false
	}
	if f.MinDistance != nil && *a.Distance < *f.MinDistance {
		return false
	}
	if f.MaxDistance != nil && *a.Distance > *f.MaxDistance {
		return false
	}
	if (f.MinCalories != nil || f.MaxCalories != nil) && a.CaloriesBurned == nil {
		return false
	}
	if f.MinCalories != nil && *a.CaloriesBurned < *f.MinCalories {
		return false
	}
	if f.MaxCalories != nil && *a.CaloriesBurned > *f.MaxCalories {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(a.Title), term) &&
			!strings.Contains(strings.ToLower(a.Description), term) &&
			!strings.Contains(strings.ToLower(a.Location), term) {
			return false
		}
	}
	return true
}

// PageRequest is a 1-based page number and a bounded page size.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}
