package handlers

import (
	"context"
	"sync"
	"testing"
	"time"

	"kitchenlog/internal/models"
	"kitchenlog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/juju/clock/testclock"
)

// ---- Service Mocks ----

type mockHistory struct {
	ready     bool
	rows      []models.CookRow
	recordErr error
	listErr   error

	recorded   []models.CookRow
	lastLimit  int
	lastFilter models.DateFilter
}

func (m *mockHistory) Record(ctx context.Context, row models.CookRow) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	if err := row.Validate(); err != nil {
		return err
	}
	m.recorded = append(m.recorded, row)
	return nil
}
func (m *mockHistory) Recent(ctx context.Context, limit int, f models.DateFilter) ([]models.CookRow, error) {
	m.lastLimit = limit
	m.lastFilter = f
	return m.rows, m.listErr
}
func (m *mockHistory) All(ctx context.Context, f models.DateFilter) ([]models.CookRow, error) {
	m.lastFilter = f
	return m.rows, m.listErr
}
func (m *mockHistory) Ready() bool { return m.ready }

type mockReport struct {
	art        service.Artifact
	err        error
	lastFilter models.DateFilter
	lastFormat service.Format
}

func (m *mockReport) Artifact(ctx context.Context, f models.DateFilter, format service.Format) (service.Artifact, error) {
	m.lastFilter = f
	m.lastFormat = format
	return m.art, m.err
}
func (m *mockReport) RawLog(ctx context.Context) (service.Artifact, error) {
	return m.art, m.err
}

// memLog is an in-memory repository.CookLog behind a real station.
type memLog struct {
	mu        sync.Mutex
	rows      []models.CookRow
	appendErr error
}

func (l *memLog) Append(ctx context.Context, row models.CookRow) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.appendErr != nil {
		return l.appendErr
	}
	l.rows = append(l.rows, row)
	return nil
}
func (l *memLog) QueryRecent(ctx context.Context, limit int, f models.DateFilter) ([]models.CookRow, error) {
	return nil, nil
}
func (l *memLog) QueryAll(ctx context.Context, f models.DateFilter) ([]models.CookRow, error) {
	return nil, nil
}

var testEpoch = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

// newTestStation builds a real station on a test clock.
func newTestStation(t *testing.T, l *memLog) (*service.StationService, *testclock.Clock) {
	t.Helper()
	clk := testclock.NewClock(testEpoch)
	st := service.NewStationService(l, service.Options{Clock: clk})
	t.Cleanup(st.Close)
	return st, clk
}

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
