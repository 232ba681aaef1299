package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"kitchenlog"
)

// CookRow is one record of the durable log. Every field is kept as text so the
// file and document backends export the exact same bytes.
type CookRow struct {
	Food      string    `json:"food"`
	StartDate string    `json:"startDate"`
	StartTime string    `json:"startTime"`
	EndDate   string    `json:"endDate"`
	EndTime   string    `json:"endTime"`
	Duration  string    `json:"duration"`
	Temp      string    `json:"temp"`
	Staff     string    `json:"staff"`
	Trays     string    `json:"trays"`
	CreatedAt time.Time `json:"createdAt,omitzero"` // document stores only
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// SplitInstant returns the UTC calendar date and time of day of t.
func SplitInstant(t time.Time) (date, clock string) {
	u := t.UTC()
	return u.Format(DateLayout), u.Format(TimeLayout)
}

// Fields returns the row in log column order.
func (r CookRow) Fields() []string {
	return []string{
		r.Food, r.StartDate, r.StartTime, r.EndDate, r.EndTime,
		r.Duration, r.Temp, r.Staff, r.Trays,
	}
}

// Validate checks the fields a document store requires before a write.
// Temp and trays are only checked when present.
func (r CookRow) Validate() error {
	if err := CheckFood(r.Food); err != nil {
		return err
	}
	if strings.TrimSpace(r.Staff) == "" {
		return kitchenlog.Invalid("staff", "required")
	}
	if r.Temp != "" {
		if _, err := ParseTemp(r.Temp); err != nil {
			return err
		}
	}
	if r.Trays != "" {
		if _, err := ParseTrays(r.Trays); err != nil {
			return err
		}
	}
	return nil
}

// CheckFood rejects a blank food name or one spanning several lines. A log
// line must hold exactly one record.
func CheckFood(food string) error {
	if strings.TrimSpace(food) == "" {
		return kitchenlog.Invalid("food", "required")
	}
	if strings.ContainsAny(food, "\r\n") {
		return kitchenlog.Invalid("food", "must be a single line")
	}
	return nil
}

// ParseTemp parses a core temperature in °C. Any finite number is accepted;
// the 0–150 range is an input hint only.
func ParseTemp(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, kitchenlog.Invalid("temp", "must be a number")
	}
	return v, nil
}

// ParseTrays parses a tray count, which must be an integer >= 1.
func ParseTrays(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, kitchenlog.Invalid("trays", "must be a whole number >= 1")
	}
	return n, nil
}

// DurationMinutes formats (end-start) in minutes rounded to one decimal.
func DurationMinutes(start, end time.Time) string {
	mins := end.Sub(start).Seconds() / 60
	return strconv.FormatFloat(math.Round(mins*10)/10, 'f', 1, 64)
}
