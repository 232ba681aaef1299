package service

import (
	"context"
	"time"

	"kitchenlog/internal/logger"
	"kitchenlog/internal/metrics"
	"kitchenlog/internal/models"
	"kitchenlog/internal/repository"

	"github.com/juju/clock"
)

// Station is the cook lifecycle engine for one kitchen station: the active set
// of cooks and the currently selected staff member.
type Station interface {
	SetStaff(name string) (string, error)
	CurrentStaff() string
	Roster() models.Roster

	Create(food string) (models.CookView, error)
	Start(id int64) (models.CookView, error)
	End(id int64) (models.CookView, error)
	SetTemp(id int64, value string) (models.CookView, error)
	SetTrays(id int64, value string) (models.CookView, error)
	Save(ctx context.Context, id int64) (models.CookRow, error)
	Cancel(id int64) error

	Get(id int64) (models.CookView, error)
	Active() []models.CookView
	// Subscribe delivers elapsed-time snapshots while any cook is running.
	Subscribe() (<-chan []models.ElapsedView, func())
	Close()
}

// History reads and writes the durable log directly (the document-store API).
type History interface {
	Record(ctx context.Context, row models.CookRow) error
	Recent(ctx context.Context, limit int, f models.DateFilter) ([]models.CookRow, error)
	All(ctx context.Context, f models.DateFilter) ([]models.CookRow, error)
	Ready() bool
}

// Report builds exportable artifacts from filtered log rows.
type Report interface {
	Artifact(ctx context.Context, f models.DateFilter, format Format) (Artifact, error)
	RawLog(ctx context.Context) (Artifact, error)
}

// Service aggregates all sub-services.
type Service struct {
	Station
	History
	Report
}

// Options carries the collaborators that are not repositories.
type Options struct {
	Clock        clock.Clock
	Roster       models.Roster
	TickInterval time.Duration
	Metrics      *metrics.Metrics
	Renderer     Renderer // nil disables PDF export
	ReportURL    string   // base URL of the HTML report page
	Logger       *logger.Logger
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = clock.WallClock
	}
	if len(opts.Roster) == 0 {
		opts.Roster = models.DefaultRoster
	}
	return &Service{
		Station: NewStationService(repos.CookLog, opts),
		History: NewHistoryService(repos.CookLog),
		Report:  NewReportService(repos.CookLog, repos.Schema, opts),
	}
}
