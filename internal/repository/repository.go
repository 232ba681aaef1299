package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"kitchenlog/internal/codec"
	"kitchenlog/internal/logger"
	"kitchenlog/internal/models"
	"kitchenlog/internal/repository/db"

	"github.com/dgraph-io/badger/v3"
	"github.com/juju/clock"
)

// CookLog is the durable, append-only record store. The CSV file and the
// document stores all implement it.
type CookLog interface {
	// Append writes one row. It either writes the whole row or nothing.
	Append(ctx context.Context, row models.CookRow) error
	// QueryRecent returns up to limit matching rows, newest first. limit <= 0 means all.
	QueryRecent(ctx context.Context, limit int, f models.DateFilter) ([]models.CookRow, error)
	// QueryAll returns every matching row, oldest first.
	QueryAll(ctx context.Context, f models.DateFilter) ([]models.CookRow, error)
}

// RawReader is implemented by backends that can hand back the stored log verbatim.
type RawReader interface {
	Raw(ctx context.Context) ([]byte, error)
}

// Backend names accepted in configuration.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Config selects and locates the backend.
type Config struct {
	Backend         string
	CSVPath         string
	Schema          string
	SQLitePath      string
	BadgerDir       string
	ConnectAttempts int
}

// Repository exposes the configured log behind a readiness gate.
type Repository struct {
	CookLog *Gate
	Schema  codec.Schema
}

// NewRepository builds the configured backend. The file backend is ready at
// once; document stores connect in the background and the gate reports
// NotReady until they do.
func NewRepository(ctx context.Context, cfg Config, clk clock.Clock, log *logger.Logger) (*Repository, error) {
	schema, err := codec.SchemaByName(cfg.Schema)
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.WallClock
	}
	gate := NewGate()
	repo := &Repository{CookLog: gate, Schema: schema}

	switch strings.ToLower(cfg.Backend) {
	case "", BackendFile:
		path := cfg.CSVPath
		if path == "" {
			path = "deepfry.csv"
		}
		gate.Set(NewCSVLog(path, schema, log), nil)
	case BackendSQLite:
		go connectSQLite(ctx, cfg, clk, gate, log)
	case BackendBadger:
		go connectBadger(ctx, cfg, clk, gate, log)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	return repo, nil
}

func connectSQLite(ctx context.Context, cfg Config, clk clock.Clock, gate *Gate, log *logger.Logger) {
	path := cfg.SQLitePath
	if path == "" {
		path = "kitchenlog.db"
	}
	sqlDB, err := db.Connect(ctx, clk, cfg.ConnectAttempts, func() (*sql.DB, error) {
		return db.OpenSQLite(path)
	}, retryLogger(log, BackendSQLite))
	if err != nil {
		gate.Fail(err)
		if log != nil {
			log.Errorw("store_connect_failed", "backend", BackendSQLite, "path", path, "err", err)
		}
		return
	}
	gate.Set(NewDocSQLite(sqlDB, clk, log), sqlDB)
	if log != nil {
		log.Infow("store_connected", "backend", BackendSQLite, "path", path)
	}
}

func connectBadger(ctx context.Context, cfg Config, clk clock.Clock, gate *Gate, log *logger.Logger) {
	bdb, err := db.Connect(ctx, clk, cfg.ConnectAttempts, func() (*badger.DB, error) {
		return db.OpenBadger(cfg.BadgerDir)
	}, retryLogger(log, BackendBadger))
	if err != nil {
		gate.Fail(err)
		if log != nil {
			log.Errorw("store_connect_failed", "backend", BackendBadger, "dir", cfg.BadgerDir, "err", err)
		}
		return
	}
	gate.Set(NewDocBadger(bdb, clk, log), bdb)
	if log != nil {
		log.Infow("store_connected", "backend", BackendBadger, "dir", cfg.BadgerDir)
	}
}

func retryLogger(log *logger.Logger, backend string) func(int, time.Duration, error) {
	return func(attempt int, wait time.Duration, err error) {
		if log != nil {
			log.Warnw("store_connect_retry", "backend", backend, "attempt", attempt, "wait", wait, "err", err)
		}
	}
}
