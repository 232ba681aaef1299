package models

import (
	"testing"
	"time"

	"kitchenlog"
)

func TestDateFilter_Precedence(t *testing.T) {
	cases := []struct {
		name string
		f    DateFilter
		kind FilterKind
		in   []string
		out  []string
	}{
		{"none", DateFilter{}, FilterNone, []string{"2024-01-01"}, nil},
		{"year without month", DateFilter{Year: 2024}, FilterNone, []string{"2023-05-05"}, nil},
		{"month", DateFilter{Year: 2024, Month: 3}, FilterMonth, []string{"2024-03-01", "2024-03-31"}, []string{"2024-02-29", "2024-04-01", "2023-03-15"}},
		{"range wins", DateFilter{StartDate: "2024-03-10", EndDate: "2024-03-12", Year: 2024, Month: 4}, FilterRange, []string{"2024-03-10", "2024-03-12"}, []string{"2024-04-05", "2024-03-09", "2024-03-13"}},
		{"open start", DateFilter{EndDate: "2024-03-12"}, FilterRange, []string{"2020-01-01", "2024-03-12"}, []string{"2024-03-13"}},
		{"open end", DateFilter{StartDate: "2024-03-12"}, FilterRange, []string{"2024-03-12", "2030-01-01"}, []string{"2024-03-11"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.f.Kind() != tc.kind {
				t.Fatalf("Kind = %v, want %v", tc.f.Kind(), tc.kind)
			}
			for _, d := range tc.in {
				if !tc.f.Match(d) {
					t.Errorf("%s should match", d)
				}
			}
			for _, d := range tc.out {
				if tc.f.Match(d) {
					t.Errorf("%s should not match", d)
				}
			}
		})
	}
}

func TestDateFilter_ApplyKeepsOrder(t *testing.T) {
	rows := []CookRow{{Food: "a", StartDate: "2024-03-02"}, {Food: "b", StartDate: "2024-04-01"}, {Food: "c", StartDate: "2024-03-01"}}
	got := DateFilter{Year: 2024, Month: 3}.Apply(rows)
	if len(got) != 2 || got[0].Food != "a" || got[1].Food != "c" {
		t.Fatalf("Apply = %+v", got)
	}
}

func TestDateFilter_Validate(t *testing.T) {
	bad := []DateFilter{
		{StartDate: "2024/03/01"},
		{EndDate: "2024-13-01"},
		{StartDate: "2024-03-05", EndDate: "2024-03-01"},
		{Year: 2024, Month: 13},
		{Year: -1},
	}
	for _, f := range bad {
		if err := f.Validate(); !kitchenlog.IsValidation(err) {
			t.Errorf("%+v: want validation error, got %v", f, err)
		}
	}
	if err := (DateFilter{StartDate: "2024-03-01", EndDate: "2024-03-01", Year: 2024, Month: 3}).Validate(); err != nil {
		t.Fatalf("valid filter rejected: %v", err)
	}
}

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	cases := map[time.Duration]string{
		0:                     "0.0",
		125 * time.Second:     "2.1",
		90 * time.Second:      "1.5",
		2 * time.Second:       "0.0",
		61 * time.Minute:      "61.0",
		599*time.Second + 999: "10.0",
	}
	for d, want := range cases {
		if got := DurationMinutes(start, start.Add(d)); got != want {
			t.Errorf("DurationMinutes(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestParseTempAndTrays(t *testing.T) {
	for _, s := range []string{"74.5", " 80 ", "-5", "0"} {
		if _, err := ParseTemp(s); err != nil {
			t.Errorf("ParseTemp(%q): %v", s, err)
		}
	}
	for _, s := range []string{"", "hot", "NaN", "Inf", "74,5"} {
		if _, err := ParseTemp(s); !kitchenlog.IsValidation(err) {
			t.Errorf("ParseTemp(%q) should fail", s)
		}
	}
	if n, err := ParseTrays(" 3 "); err != nil || n != 3 {
		t.Errorf("ParseTrays: %d, %v", n, err)
	}
	for _, s := range []string{"", "0", "-2", "1.5", "2 trays"} {
		if _, err := ParseTrays(s); !kitchenlog.IsValidation(err) {
			t.Errorf("ParseTrays(%q) should fail", s)
		}
	}
}

func TestCookRow_Validate(t *testing.T) {
	ok := CookRow{Food: "Wings", Staff: "Bob"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("minimal row: %v", err)
	}
	for field, r := range map[string]CookRow{
		"food":  {Staff: "Bob"},
		"staff": {Food: "Wings", Staff: "  "},
		"temp":  {Food: "Wings", Staff: "Bob", Temp: "x"},
		"trays": {Food: "Wings", Staff: "Bob", Trays: "0"},
	} {
		err := r.Validate()
		ve, isVE := err.(*kitchenlog.ValidationError)
		if !isVE || ve.Field != field {
			t.Errorf("%s: got %v", field, err)
		}
	}
}

func TestCookRow_ValidateRejectsMultilineFood(t *testing.T) {
	for _, food := range []string{"Chicken\nWings", "Chicken\r\nWings", "Wings\r"} {
		err := CookRow{Food: food, Staff: "Bob"}.Validate()
		ve, isVE := err.(*kitchenlog.ValidationError)
		if !isVE || ve.Field != "food" {
			t.Errorf("Validate(%q) = %v, want food validation error", food, err)
		}
	}
}

func TestRosterLookup(t *testing.T) {
	if name, ok := DefaultRoster.Lookup(" bOB "); !ok || name != "Bob" {
		t.Fatalf("Lookup = %q, %v", name, ok)
	}
	if _, ok := DefaultRoster.Lookup(""); ok {
		t.Fatalf("blank name must not match")
	}
}
