package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"kitchenlog"
	"kitchenlog/internal/logger"
	"kitchenlog/internal/metrics"
	"kitchenlog/internal/models"
	"kitchenlog/internal/repository"

	"github.com/juju/clock"
)

// StationService owns the active set for one station session. All state
// transitions happen under mu; the durable append runs outside it.
type StationService struct {
	cookLog repository.CookLog
	clk     clock.Clock
	roster  models.Roster
	ticker  *ElapsedTicker
	metrics *metrics.Metrics
	log     *logger.Logger

	mu     sync.Mutex
	staff  string
	cooks  map[int64]*activeCook
	order  []int64 // creation order
	lastID int64
}

type activeCook struct {
	models.Cook
	saving bool
}

var _ Station = (*StationService)(nil)

func NewStationService(cookLog repository.CookLog, opts Options) *StationService {
	clk := opts.Clock
	if clk == nil {
		clk = clock.WallClock
	}
	roster := opts.Roster
	if len(roster) == 0 {
		roster = models.DefaultRoster
	}
	s := &StationService{
		cookLog: cookLog,
		clk:     clk,
		roster:  roster,
		metrics: opts.Metrics,
		log:     opts.Logger,
		cooks:   make(map[int64]*activeCook),
	}
	s.ticker = NewElapsedTicker(clk, opts.TickInterval, s.runningElapsed)
	return s
}

// SetStaff selects the operator used for new cooks and saves.
func (s *StationService) SetStaff(name string) (string, error) {
	staff, ok := s.roster.Lookup(name)
	if !ok {
		return "", kitchenlog.Invalid("staff", fmt.Sprintf("%q is not on the roster", strings.TrimSpace(name)))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff = staff
	return staff, nil
}

func (s *StationService) CurrentStaff() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staff
}

func (s *StationService) Roster() models.Roster { return s.roster }

// Create adds an unstarted cook. A staff member must be selected first.
func (s *StationService) Create(food string) (models.CookView, error) {
	food = strings.TrimSpace(food)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staff == "" {
		return models.CookView{}, kitchenlog.Invalid("staff", "select a staff member first")
	}
	if err := models.CheckFood(food); err != nil {
		return models.CookView{}, err
	}

	now := s.clk.Now()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	c := &activeCook{Cook: models.Cook{ID: id, Food: food, State: models.StateUnstarted}}
	s.cooks[id] = c
	s.order = append(s.order, id)
	s.metrics.SetActive(len(s.cooks))
	return s.viewLocked(c, now), nil
}

// Start begins the timer. A cook that is already started is returned unchanged.
func (s *StationService) Start(id int64) (models.CookView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cooks[id]
	if !ok {
		return models.CookView{}, kitchenlog.ErrCookNotFound
	}
	now := s.clk.Now()
	if c.Started() {
		return s.viewLocked(c, now), nil
	}
	c.StartTime = &now
	c.State = models.StateRunning
	s.ticker.Ensure()
	return s.viewLocked(c, now), nil
}

// End stops the timer and fixes the duration. Only running cooks change.
func (s *StationService) End(id int64) (models.CookView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cooks[id]
	if !ok {
		return models.CookView{}, kitchenlog.ErrCookNotFound
	}
	now := s.clk.Now()
	if c.State != models.StateRunning {
		return s.viewLocked(c, now), nil
	}
	c.EndTime = &now
	c.Duration = models.DurationMinutes(*c.StartTime, now)
	c.State = models.StateEnded
	s.ticker.StopIfIdle(s.anyRunningLocked())
	return s.viewLocked(c, now), nil
}

// SetTemp stores the raw temperature text; it is validated on save.
func (s *StationService) SetTemp(id int64, value string) (models.CookView, error) {
	return s.update(id, func(c *activeCook) { c.Temp = strings.TrimSpace(value) })
}

// SetTrays stores the raw tray count text; it is validated on save.
func (s *StationService) SetTrays(id int64, value string) (models.CookView, error) {
	return s.update(id, func(c *activeCook) { c.Trays = strings.TrimSpace(value) })
}

func (s *StationService) update(id int64, fn func(*activeCook)) (models.CookView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cooks[id]
	if !ok {
		return models.CookView{}, kitchenlog.ErrCookNotFound
	}
	fn(c)
	return s.viewLocked(c, s.clk.Now()), nil
}

// Save validates an ended cook, appends it to the durable log and removes it
// from the active set. On any failure the cook stays ENDED for a retry.
func (s *StationService) Save(ctx context.Context, id int64) (models.CookRow, error) {
	s.mu.Lock()
	c, ok := s.cooks[id]
	if !ok {
		s.mu.Unlock()
		return models.CookRow{}, kitchenlog.ErrCookNotFound
	}
	if c.saving {
		s.mu.Unlock()
		return models.CookRow{}, kitchenlog.ErrSaveInProgress
	}
	row, err := s.rowLocked(c)
	if err != nil {
		s.mu.Unlock()
		s.metrics.SaveFailed("validation")
		return models.CookRow{}, err
	}
	c.saving = true
	s.mu.Unlock()

	err = s.cookLog.Append(ctx, row)

	s.mu.Lock()
	defer s.mu.Unlock()
	c.saving = false
	if err != nil {
		s.metrics.SaveFailed(failureReason(err))
		if s.log != nil {
			s.log.Errorw("cook_save_failed", "id", id, "food", c.Food, "err", err)
		}
		return models.CookRow{}, fmt.Errorf("save cook %d: %w", id, err)
	}

	c.State = models.StateSaved
	s.removeLocked(id)
	if mins, perr := strconv.ParseFloat(row.Duration, 64); perr == nil {
		s.metrics.CookSaved(row.Staff, mins)
	}
	if s.log != nil {
		s.log.Infow("cook_saved", "id", id, "food", row.Food, "staff", row.Staff, "trays", row.Trays)
	}
	return row, nil
}

// rowLocked checks that the cook can be saved and builds its log row.
func (s *StationService) rowLocked(c *activeCook) (models.CookRow, error) {
	if c.State != models.StateEnded {
		return models.CookRow{}, kitchenlog.Invalid("endTime", "end the cook before saving")
	}
	if _, err := models.ParseTemp(c.Temp); err != nil {
		return models.CookRow{}, err
	}
	if _, err := models.ParseTrays(c.Trays); err != nil {
		return models.CookRow{}, err
	}
	if s.staff == "" {
		return models.CookRow{}, kitchenlog.Invalid("staff", "select a staff member first")
	}

	startDate, startTime := models.SplitInstant(*c.StartTime)
	endDate, endTime := models.SplitInstant(*c.EndTime)
	return models.CookRow{
		Food:      c.Food,
		StartDate: startDate,
		StartTime: startTime,
		EndDate:   endDate,
		EndTime:   endTime,
		Duration:  c.Duration,
		Temp:      c.Temp,
		Staff:     s.staff,
		Trays:     c.Trays,
	}, nil
}

// Cancel drops a cook without logging it. A cook being saved cannot be cancelled.
func (s *StationService) Cancel(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cooks[id]
	if !ok {
		return kitchenlog.ErrCookNotFound
	}
	if c.saving {
		return kitchenlog.ErrSaveInProgress
	}
	c.State = models.StateCancelled
	s.removeLocked(id)
	s.ticker.StopIfIdle(s.anyRunningLocked())
	return nil
}

func (s *StationService) Get(id int64) (models.CookView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cooks[id]
	if !ok {
		return models.CookView{}, kitchenlog.ErrCookNotFound
	}
	return s.viewLocked(c, s.clk.Now()), nil
}

// Active lists the active set in creation order with fresh display text.
func (s *StationService) Active() []models.CookView {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clk.Now()
	out := make([]models.CookView, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.viewLocked(s.cooks[id], now))
	}
	return out
}

func (s *StationService) Subscribe() (<-chan []models.ElapsedView, func()) {
	return s.ticker.Subscribe()
}

// Close ends the session: the ticker stops and the active set is discarded.
func (s *StationService) Close() {
	s.ticker.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cooks = make(map[int64]*activeCook)
	s.order = nil
	s.metrics.SetActive(0)
}

// runningElapsed is the ticker source: one entry per running cook.
func (s *StationService) runningElapsed() []models.ElapsedView {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clk.Now()
	var out []models.ElapsedView
	for _, id := range s.order {
		c := s.cooks[id]
		if c.State != models.StateRunning {
			continue
		}
		sec := ElapsedSeconds(*c.StartTime, now)
		out = append(out, models.ElapsedView{ID: c.ID, Food: c.Food, Seconds: sec, Display: FormatElapsed(sec)})
	}
	return out
}

func (s *StationService) anyRunningLocked() bool {
	for _, c := range s.cooks {
		if c.State == models.StateRunning {
			return true
		}
	}
	return false
}

func (s *StationService) removeLocked(id int64) {
	delete(s.cooks, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.metrics.SetActive(len(s.cooks))
}

func (s *StationService) viewLocked(c *activeCook, now time.Time) models.CookView {
	return models.CookView{Cook: c.Cook, Display: Display(c.Cook, now)}
}

// Display is the timer text for a cook at instant now.
func Display(c models.Cook, now time.Time) string {
	switch {
	case !c.Started():
		return "Not started"
	case c.Ended():
		return c.Duration + " min"
	default:
		return FormatElapsed(ElapsedSeconds(*c.StartTime, now))
	}
}

// ElapsedSeconds is floor((now-start)/1s), never negative.
func ElapsedSeconds(start, now time.Time) int64 {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

// FormatElapsed renders seconds as MM:SS.
func FormatElapsed(sec int64) string {
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}

func failureReason(err error) string {
	var ioErr *kitchenlog.IOError
	switch {
	case errors.Is(err, kitchenlog.ErrNotReady):
		return "not_ready"
	case kitchenlog.IsValidation(err):
		return "validation"
	case errors.As(err, &ioErr):
		return "io"
	default:
		return "store"
	}
}
