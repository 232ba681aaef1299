package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kitchenlog"
	"kitchenlog/internal/codec"
	"kitchenlog/internal/models"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func rowOn(food, date string) models.CookRow {
	return models.CookRow{
		Food:      food,
		StartDate: date,
		StartTime: "10:00:00",
		EndDate:   date,
		EndTime:   "10:02:05",
		Duration:  "2.1",
		Temp:      "75",
		Staff:     "Alice",
		Trays:     "2",
	}
}

func TestCSVLog_AppendCreatesHeaderOnce(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deepfry.csv")
	repo := NewCSVLog(path, codec.Full, nil)

	if err := repo.Append(ctx(t), rowOn(`Fish & "Chips"`, "2024-06-01")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := repo.Append(ctx(t), rowOn("Fries", "2024-06-02")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 lines, got %d: %q", len(lines), data)
	}
	if lines[0] != codec.Full.HeaderLine() {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != `"Fish & ""Chips""",2024-06-01,10:00:00,2024-06-01,10:02:05,2.1,75,Alice,2` {
		t.Fatalf("unexpected first line %q", lines[1])
	}
}

func TestCSVLog_AppendKeepsExistingLegacyLayout(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "old.csv")
	// legacy header, no trailing newline
	if err := os.WriteFile(path, []byte(codec.Legacy.HeaderLine()), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo := NewCSVLog(path, codec.Full, nil)
	if err := repo.Append(ctx(t), rowOn("Fries", "2024-06-02")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := repo.QueryAll(ctx(t), models.DateFilter{})
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(got) != 1 || got[0].Food != "Fries" || got[0].EndDate != "" || got[0].EndTime != "10:02:05" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestCSVLog_AppendRejectsMissingStaffWithoutWriting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deepfry.csv")
	repo := NewCSVLog(path, codec.Full, nil)

	row := rowOn("Fries", "2024-06-02")
	row.Staff = ""
	err := repo.Append(ctx(t), row)
	if !kitchenlog.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file must not be created, stat err=%v", err)
	}
}

func TestCSVLog_AppendIOError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing-dir", "deepfry.csv")
	repo := NewCSVLog(path, codec.Full, nil)

	err := repo.Append(ctx(t), rowOn("Fries", "2024-06-02"))
	var ioErr *kitchenlog.IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "open" {
		t.Fatalf("expected open IOError, got %v", err)
	}
}

func TestCSVLog_QueryRecentReturnsNewestFirst(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deepfry.csv")
	repo := NewCSVLog(path, codec.Full, nil)
	for i := 1; i <= 20; i++ {
		if err := repo.Append(ctx(t), rowOn(fmt.Sprintf("item-%02d", i), "2024-06-01")); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	got, err := repo.QueryRecent(ctx(t), 8, models.DateFilter{})
	if err != nil {
		t.Fatalf("QueryRecent: %v", err)
	}
	if len(got) != 8 {
		t.Fatalf("want 8 rows, got %d", len(got))
	}
	for i, r := range got {
		want := fmt.Sprintf("item-%02d", 20-i)
		if r.Food != want {
			t.Fatalf("row %d: want %s, got %s", i, want, r.Food)
		}
	}
}

func TestCSVLog_Filters(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deepfry.csv")
	repo := NewCSVLog(path, codec.Full, nil)
	for _, r := range []models.CookRow{
		rowOn("may", "2024-05-31"),
		rowOn("june-a", "2024-06-01"),
		rowOn("june-b", "2024-06-30"),
		rowOn("july", "2024-07-01"),
	} {
		if err := repo.Append(ctx(t), r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	byRange, err := repo.QueryAll(ctx(t), models.DateFilter{StartDate: "2024-06-01", EndDate: "2024-06-30"})
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(byRange) != 2 || byRange[0].Food != "june-a" || byRange[1].Food != "june-b" {
		t.Fatalf("range filter: %+v", byRange)
	}

	byMonth, err := repo.QueryRecent(ctx(t), 0, models.DateFilter{Year: 2024, Month: 7})
	if err != nil {
		t.Fatalf("QueryRecent: %v", err)
	}
	if len(byMonth) != 1 || byMonth[0].Food != "july" {
		t.Fatalf("month filter: %+v", byMonth)
	}
}

func TestCSVLog_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	repo := NewCSVLog(filepath.Join(t.TempDir(), "none.csv"), codec.Full, nil)
	got, err := repo.QueryRecent(ctx(t), 8, models.DateFilter{})
	if err != nil || len(got) != 0 {
		t.Fatalf("want empty, got %v, %v", got, err)
	}
}
