package repository

import (
	"context"
	"fmt"
	"io"
	"sync"

	"kitchenlog"
	"kitchenlog/internal/models"
)

// Gate fronts a CookLog that may not be connected yet. Until Set is called
// every operation fails fast with kitchenlog.ErrNotReady.
type Gate struct {
	mu      sync.RWMutex
	log     CookLog
	closer  io.Closer
	lastErr error

	settled chan struct{} // closed by the first Set or Fail
	settle  sync.Once
}

// Ensure implementation of CookLog interface at compile time.
var _ CookLog = (*Gate)(nil)

func NewGate() *Gate { return &Gate{settled: make(chan struct{})} }

// Set installs the connected backend. closer may be nil.
func (g *Gate) Set(log CookLog, closer io.Closer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.log = log
	g.closer = closer
	g.lastErr = nil
	g.settle.Do(func() { close(g.settled) })
}

// Fail records why the backend could not be connected.
func (g *Gate) Fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastErr = err
	g.settle.Do(func() { close(g.settled) })
}

// Wait blocks until the backend is connected or has failed for good.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.settled:
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", kitchenlog.ErrNotReady, ctx.Err())
	}
	_, err := g.current()
	return err
}

// Ready reports whether a backend is installed.
func (g *Gate) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.log != nil
}

func (g *Gate) current() (CookLog, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.log == nil {
		if g.lastErr != nil {
			return nil, fmt.Errorf("%w: %v", kitchenlog.ErrNotReady, g.lastErr)
		}
		return nil, kitchenlog.ErrNotReady
	}
	return g.log, nil
}

func (g *Gate) Append(ctx context.Context, row models.CookRow) error {
	l, err := g.current()
	if err != nil {
		return err
	}
	return l.Append(ctx, row)
}

func (g *Gate) QueryRecent(ctx context.Context, limit int, f models.DateFilter) ([]models.CookRow, error) {
	l, err := g.current()
	if err != nil {
		return nil, err
	}
	return l.QueryRecent(ctx, limit, f)
}

func (g *Gate) QueryAll(ctx context.Context, f models.DateFilter) ([]models.CookRow, error) {
	l, err := g.current()
	if err != nil {
		return nil, err
	}
	return l.QueryAll(ctx, f)
}

// Raw returns the stored log verbatim when the backend supports it.
func (g *Gate) Raw(ctx context.Context) ([]byte, error) {
	l, err := g.current()
	if err != nil {
		return nil, err
	}
	rr, ok := l.(RawReader)
	if !ok {
		return nil, fmt.Errorf("backend %T has no raw log", l)
	}
	return rr.Raw(ctx)
}

// Close releases the backend, if one was connected.
func (g *Gate) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closer == nil {
		return nil
	}
	err := g.closer.Close()
	g.closer = nil
	g.log = nil
	return err
}
