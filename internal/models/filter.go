package models

import (
	"fmt"
	"strings"
	"time"

	"kitchenlog"
)

// FilterKind tells which rule a DateFilter resolves to.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterRange
	FilterMonth
)

// DateFilter narrows queries by the record start date. An explicit range wins
// over year/month; with neither, every record matches.
type DateFilter struct {
	StartDate string // YYYY-MM-DD, inclusive, optional
	EndDate   string // YYYY-MM-DD, inclusive, optional
	Year      int
	Month     int
}

// Kind resolves which rule applies.
func (f DateFilter) Kind() FilterKind {
	switch {
	case f.StartDate != "" || f.EndDate != "":
		return FilterRange
	case f.Year > 0 && f.Month > 0:
		return FilterMonth
	default:
		return FilterNone
	}
}

// MonthPrefix is the start-date prefix for the year/month rule, e.g. "2024-03-".
func (f DateFilter) MonthPrefix() string {
	return fmt.Sprintf("%04d-%02d-", f.Year, f.Month)
}

// Match reports whether a record with the given start date passes the filter.
func (f DateFilter) Match(startDate string) bool {
	switch f.Kind() {
	case FilterRange:
		if f.StartDate != "" && startDate < f.StartDate {
			return false
		}
		if f.EndDate != "" && startDate > f.EndDate {
			return false
		}
		return true
	case FilterMonth:
		return strings.HasPrefix(startDate, f.MonthPrefix())
	default:
		return true
	}
}

// Validate checks date formats and the month number.
func (f DateFilter) Validate() error {
	for field, v := range map[string]string{"startDate": f.StartDate, "endDate": f.EndDate} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, v); err != nil {
			return kitchenlog.Invalid(field, "use YYYY-MM-DD")
		}
	}
	if f.StartDate != "" && f.EndDate != "" && f.StartDate > f.EndDate {
		return kitchenlog.Invalid("startDate", "must be <= endDate")
	}
	if f.Month < 0 || f.Month > 12 {
		return kitchenlog.Invalid("month", "must be 1-12")
	}
	if f.Year < 0 {
		return kitchenlog.Invalid("year", "must be positive")
	}
	return nil
}

// Apply keeps the rows whose start date passes the filter, preserving order.
func (f DateFilter) Apply(rows []CookRow) []CookRow {
	if f.Kind() == FilterNone {
		return rows
	}
	out := make([]CookRow, 0, len(rows))
	for _, r := range rows {
		if f.Match(r.StartDate) {
			out = append(out, r)
		}
	}
	return out
}
