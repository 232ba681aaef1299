package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kitchenlog/internal/logger"
	"kitchenlog/internal/models"

	"github.com/google/uuid"
	"github.com/juju/clock"
)

// DocSQLite keeps each cook as a JSON document in the cooks table.
type DocSQLite struct {
	db  *sql.DB
	clk clock.Clock
	log *logger.Logger
}

var _ CookLog = (*DocSQLite)(nil)

func NewDocSQLite(db *sql.DB, clk clock.Clock, log *logger.Logger) *DocSQLite {
	return &DocSQLite{db: db, clk: clk, log: log}
}

const (
	// fixed-width so created_at sorts as text
	createdAtLayout = "2006-01-02 15:04:05.000000000"

	insertCookSQL = `INSERT INTO cooks (id, created_at, start_date, doc) VALUES (?, ?, ?, ?)`
	selectCookSQL = `SELECT doc, created_at FROM cooks`
)

// Append validates the row, stamps createdAt and inserts the document.
func (r *DocSQLite) Append(ctx context.Context, row models.CookRow) error {
	if err := row.Validate(); err != nil {
		return err
	}
	row.CreatedAt = r.clk.Now().UTC()

	doc, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal cook: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertCookSQL,
		uuid.NewString(),
		row.CreatedAt.Format(createdAtLayout),
		row.StartDate,
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("insert cook: %w", err)
	}
	return nil
}

func (r *DocSQLite) QueryRecent(ctx context.Context, limit int, f models.DateFilter) ([]models.CookRow, error) {
	return r.query(ctx, f, "DESC", limit)
}

func (r *DocSQLite) QueryAll(ctx context.Context, f models.DateFilter) ([]models.CookRow, error) {
	return r.query(ctx, f, "ASC", 0)
}

// buildCookQuery renders the filtered select. dir is ASC or DESC.
func buildCookQuery(f models.DateFilter, dir string, limit int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	switch f.Kind() {
	case models.FilterRange:
		if f.StartDate != "" {
			conds = append(conds, "start_date >= ?")
			args = append(args, f.StartDate)
		}
		if f.EndDate != "" {
			conds = append(conds, "start_date <= ?")
			args = append(args, f.EndDate)
		}
	case models.FilterMonth:
		conds = append(conds, "start_date LIKE ?")
		args = append(args, f.MonthPrefix()+"%")
	}

	q := selectCookSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at " + dir + ", rowid " + dir
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	return q, args
}

func (r *DocSQLite) query(ctx context.Context, f models.DateFilter, dir string, limit int) ([]models.CookRow, error) {
	q, args := buildCookQuery(f, dir, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query cooks: %w", err)
	}
	defer rows.Close()

	out := make([]models.CookRow, 0, 64)
	for rows.Next() {
		var (
			doc       string
			createdAt createdAtValue
		)
		if err := rows.Scan(&doc, &createdAt); err != nil {
			return nil, fmt.Errorf("scan cook: %w", err)
		}
		var row models.CookRow
		if err := json.Unmarshal([]byte(doc), &row); err != nil {
			// a broken document is skipped, not fatal to the read
			if r.log != nil {
				r.log.Warnw("cook_doc_skipped", "err", err)
			}
			continue
		}
		row.CreatedAt = time.Time(createdAt).UTC()
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cooks: %w", err)
	}
	return out, nil
}

// createdAtValue scans created_at whether the driver hands back a parsed
// time or the stored text.
type createdAtValue time.Time

func (v *createdAtValue) Scan(src any) error {
	switch t := src.(type) {
	case time.Time:
		*v = createdAtValue(t)
		return nil
	case string:
		return v.parse(t)
	case []byte:
		return v.parse(string(t))
	default:
		return fmt.Errorf("created_at: unsupported type %T", src)
	}
}

func (v *createdAtValue) parse(s string) error {
	t, err := time.Parse(createdAtLayout, s)
	if err != nil {
		return fmt.Errorf("created_at: %w", err)
	}
	*v = createdAtValue(t)
	return nil
}
