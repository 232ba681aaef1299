package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kitchenlog"
	"kitchenlog/internal/codec"
	"kitchenlog/internal/logger"
	"kitchenlog/internal/metrics"
	"kitchenlog/internal/models"
	"kitchenlog/internal/repository"
)

// Format is an export format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ReadyExpression is evaluated by the renderer; the report page sets it once
// the table is in place.
const ReadyExpression = "window.__reportReady === true"

// PageFormat is the paper size of rendered reports.
const PageFormat = "A4"

// RawLogFilename is the download name of a verbatim log export.
const RawLogFilename = "deep_fry_cooking_log.csv"

// Artifact is a finished export ready to be sent as an attachment.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RenderRequest asks an external renderer to capture a page as a document.
type RenderRequest struct {
	URL     string `json:"url"`
	WaitFor string `json:"waitFor"`
	Format  string `json:"format"`
}

// Renderer turns a report page into PDF bytes.
type Renderer interface {
	RenderPDF(ctx context.Context, req RenderRequest) ([]byte, error)
}

// ReportService builds exports from the durable log.
type ReportService struct {
	cookLog   repository.CookLog
	schema    codec.Schema
	renderer  Renderer
	reportURL string
	metrics   *metrics.Metrics
	log       *logger.Logger
}

var _ Report = (*ReportService)(nil)

func NewReportService(cookLog repository.CookLog, schema codec.Schema, opts Options) *ReportService {
	if schema.Name == "" {
		schema = codec.Full
	}
	return &ReportService{
		cookLog:   cookLog,
		schema:    schema,
		renderer:  opts.Renderer,
		reportURL: opts.ReportURL,
		metrics:   opts.Metrics,
		log:       opts.Logger,
	}
}

// Artifact exports the rows matching f in the requested format.
func (s *ReportService) Artifact(ctx context.Context, f models.DateFilter, format Format) (Artifact, error) {
	if err := f.Validate(); err != nil {
		return Artifact{}, err
	}
	suffix := FilenameSuffix(f.Year, f.Month)

	switch format {
	case FormatCSV, "":
		rows, err := s.cookLog.QueryAll(ctx, f)
		if err != nil {
			return Artifact{}, fmt.Errorf("export csv: %w", err)
		}
		s.metrics.Exported(string(FormatCSV))
		return Artifact{
			Filename:    "kitchenlog-" + suffix + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Data:        []byte(BuildCSV(rows, s.schema)),
		}, nil

	case FormatPDF:
		if s.renderer == nil || s.reportURL == "" {
			return Artifact{}, kitchenlog.ErrRendererUnavailable
		}
		req := RenderRequest{
			URL:     ReportURL(s.reportURL, f),
			WaitFor: ReadyExpression,
			Format:  PageFormat,
		}
		pdf, err := s.renderer.RenderPDF(ctx, req)
		if err != nil {
			if s.log != nil {
				s.log.Errorw("report_render_failed", "url", req.URL, "err", err)
			}
			if errors.Is(err, kitchenlog.ErrRendererUnavailable) {
				return Artifact{}, err
			}
			return Artifact{}, fmt.Errorf("%w: %v", kitchenlog.ErrRendererUnavailable, err)
		}
		s.metrics.Exported(string(FormatPDF))
		return Artifact{
			Filename:    "kitchenlog-" + suffix + ".pdf",
			ContentType: "application/pdf",
			Data:        pdf,
		}, nil

	default:
		return Artifact{}, kitchenlog.Invalid("format", fmt.Sprintf("unsupported format %q", format))
	}
}

// RawLog returns the stored log exactly as written. Backends that cannot
// hand back raw bytes get a CSV rebuilt from every row.
func (s *ReportService) RawLog(ctx context.Context) (Artifact, error) {
	var (
		data []byte
		err  error
	)
	if rr, ok := s.cookLog.(repository.RawReader); ok {
		data, err = rr.Raw(ctx)
	}
	if err != nil || data == nil {
		rows, qerr := s.cookLog.QueryAll(ctx, models.DateFilter{})
		if qerr != nil {
			return Artifact{}, fmt.Errorf("export raw log: %w", qerr)
		}
		data = []byte(BuildCSV(rows, s.schema))
	}
	s.metrics.Exported("raw")
	return Artifact{
		Filename:    RawLogFilename,
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

// BuildCSV renders rows as an export: BOM, header, then one line per row with
// every field quoted. Lines are joined with \n and there is no trailing newline.
func BuildCSV(rows []models.CookRow, schema codec.Schema) string {
	var b strings.Builder
	b.WriteString(codec.BOM)
	writeQuoted(&b, schema.Header)
	for _, r := range rows {
		b.WriteByte('\n')
		writeQuoted(&b, schema.Values(r))
	}
	return b.String()
}

func writeQuoted(b *strings.Builder, fields []string) {
	for i, v := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(codec.Quote(v))
	}
}

// FilenameSuffix is "<MonthName>-<year>" when both are given, else "all".
func FilenameSuffix(year, month int) string {
	if year <= 0 || month == 0 {
		return "all"
	}
	month = min(max(month, 1), 12)
	return time.Month(month).String() + "-" + strconv.Itoa(year)
}

// ReportQuery is the filter as report URL parameters. A date range wins over
// year/month.
func ReportQuery(f models.DateFilter) url.Values {
	q := url.Values{}
	switch f.Kind() {
	case models.FilterRange:
		if f.StartDate != "" {
			q.Set("startDate", f.StartDate)
		}
		if f.EndDate != "" {
			q.Set("endDate", f.EndDate)
		}
	case models.FilterMonth:
		q.Set("year", strconv.Itoa(f.Year))
		q.Set("month", strconv.Itoa(f.Month))
	}
	return q
}

// ReportURL appends the filter to the report page address.
func ReportURL(base string, f models.DateFilter) string {
	q := ReportQuery(f).Encode()
	if q == "" {
		return base
	}
	if strings.Contains(base, "?") {
		return base + "&" + q
	}
	return base + "?" + q
}
