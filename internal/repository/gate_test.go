package repository

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"kitchenlog"
	"kitchenlog/internal/codec"
	"kitchenlog/internal/models"
)

func TestGate_NotReadyUntilSet(t *testing.T) {
	t.Parallel()

	g := NewGate()
	if g.Ready() {
		t.Fatalf("new gate must not be ready")
	}
	if err := g.Append(ctx(t), rowOn("Wings", "2024-06-01")); !errors.Is(err, kitchenlog.ErrNotReady) {
		t.Fatalf("Append: want ErrNotReady, got %v", err)
	}
	if _, err := g.QueryRecent(ctx(t), 8, models.DateFilter{}); !errors.Is(err, kitchenlog.ErrNotReady) {
		t.Fatalf("QueryRecent: want ErrNotReady, got %v", err)
	}
	if _, err := g.QueryAll(ctx(t), models.DateFilter{}); !errors.Is(err, kitchenlog.ErrNotReady) {
		t.Fatalf("QueryAll: want ErrNotReady, got %v", err)
	}

	g.Fail(errors.New("connection refused"))
	_, err := g.QueryAll(ctx(t), models.DateFilter{})
	if !errors.Is(err, kitchenlog.ErrNotReady) || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("want ErrNotReady with cause, got %v", err)
	}

	g.Set(NewCSVLog(filepath.Join(t.TempDir(), "log.csv"), codec.Full, nil), nil)
	if !g.Ready() {
		t.Fatalf("gate must be ready after Set")
	}
	if err := g.Append(ctx(t), rowOn("Wings", "2024-06-01")); err != nil {
		t.Fatalf("Append after Set: %v", err)
	}
	raw, err := g.Raw(ctx(t))
	if err != nil || !strings.HasPrefix(string(raw), codec.Full.HeaderLine()) {
		t.Fatalf("Raw: %q, %v", raw, err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewRepository_UnknownBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewRepository(ctx(t), Config{Backend: "mongo"}, nil, nil); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestNewRepository_FileBackendReadyAtOnce(t *testing.T) {
	t.Parallel()

	repo, err := NewRepository(ctx(t), Config{Backend: BackendFile, CSVPath: filepath.Join(t.TempDir(), "x.csv")}, nil, nil)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	if !repo.CookLog.Ready() || repo.Schema.Name != codec.Full.Name {
		t.Fatalf("file backend must be ready with full schema")
	}
}

func TestGate_Wait(t *testing.T) {
	t.Parallel()

	g := NewGate()
	cancelled, cancel := context.WithCancel(ctx(t))
	cancel()
	if err := g.Wait(cancelled); !errors.Is(err, kitchenlog.ErrNotReady) {
		t.Fatalf("Wait on cancelled ctx: want ErrNotReady, got %v", err)
	}

	go g.Fail(errors.New("no route to host"))
	if err := g.Wait(ctx(t)); !errors.Is(err, kitchenlog.ErrNotReady) {
		t.Fatalf("Wait after Fail: want ErrNotReady, got %v", err)
	}
}

func TestNewRepository_BadgerConnectsInBackground(t *testing.T) {
	t.Parallel()

	repo, err := NewRepository(ctx(t), Config{Backend: BackendBadger, ConnectAttempts: 1}, nil, nil)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	defer repo.CookLog.Close()

	if err := repo.CookLog.Wait(ctx(t)); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if err := repo.CookLog.Append(ctx(t), rowOn("Wings", "2024-06-01")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	rows, err := repo.CookLog.QueryAll(ctx(t), models.DateFilter{})
	if err != nil || len(rows) != 1 {
		t.Fatalf("QueryAll: %+v, %v", rows, err)
	}
}
