package service

import (
	"sync"
	"time"

	"kitchenlog/internal/models"

	"github.com/juju/clock"
)

const defaultTickInterval = 1 * time.Second

// ElapsedTicker publishes elapsed-time snapshots at a fixed interval. It only
// runs while source reports at least one running cook and stops itself on the
// first empty tick.
type ElapsedTicker struct {
	clk      clock.Clock
	interval time.Duration
	source   func() []models.ElapsedView

	mu      sync.Mutex
	stop    chan struct{} // non-nil while the loop runs
	subs    map[int]chan []models.ElapsedView
	nextSub int
}

func NewElapsedTicker(clk clock.Clock, interval time.Duration, source func() []models.ElapsedView) *ElapsedTicker {
	if interval <= 0 {
		interval = defaultTickInterval
	}
	return &ElapsedTicker{
		clk:      clk,
		interval: interval,
		source:   source,
		subs:     make(map[int]chan []models.ElapsedView),
	}
}

// Ensure starts the loop unless it is already running.
func (t *ElapsedTicker) Ensure() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	stop := make(chan struct{})
	t.stop = stop
	go t.run(stop)
}

// StopIfIdle stops the loop when nothing is running any more.
func (t *ElapsedTicker) StopIfIdle(anyRunning bool) {
	if anyRunning {
		return
	}
	t.Stop()
}

// Stop ends the loop if it is running.
func (t *ElapsedTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// Running reports whether the loop is active.
func (t *ElapsedTicker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// Subscribe returns a channel of snapshots and a function to release it.
// Slow readers only ever see the latest snapshot.
func (t *ElapsedTicker) Subscribe() (<-chan []models.ElapsedView, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextSub
	t.nextSub++
	ch := make(chan []models.ElapsedView, 1)
	t.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.subs, id)
		})
	}
}

func (t *ElapsedTicker) run(stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-t.clk.After(t.interval):
			views := t.source()
			if len(views) == 0 {
				t.mu.Lock()
				if t.stop == stop {
					t.stop = nil
				}
				t.mu.Unlock()
				return
			}
			t.publish(views)
		}
	}
}

func (t *ElapsedTicker) publish(views []models.ElapsedView) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ch := range t.subs {
		select {
		case <-ch: // drop the stale snapshot
		default:
		}
		select {
		case ch <- views:
		default:
		}
	}
}
