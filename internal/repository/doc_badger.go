package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"kitchenlog/internal/logger"
	"kitchenlog/internal/models"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/juju/clock"
)

// DocBadger keeps each cook as a JSON value keyed by creation time.
type DocBadger struct {
	db  *badger.DB
	clk clock.Clock
	log *logger.Logger
}

var _ CookLog = (*DocBadger)(nil)

func NewDocBadger(db *badger.DB, clk clock.Clock, log *logger.Logger) *DocBadger {
	return &DocBadger{db: db, clk: clk, log: log}
}

const cookKeyPrefix = "cook:"

// cookKey orders keys by creation time; the uuid keeps equal instants apart.
func cookKey(nanos int64, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", cookKeyPrefix, nanos, id))
}

func (r *DocBadger) Append(ctx context.Context, row models.CookRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := row.Validate(); err != nil {
		return err
	}
	row.CreatedAt = r.clk.Now().UTC()

	doc, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal cook: %w", err)
	}
	key := cookKey(row.CreatedAt.UnixNano(), uuid.NewString())
	if err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, doc)
	}); err != nil {
		return fmt.Errorf("insert cook: %w", err)
	}
	return nil
}

func (r *DocBadger) QueryRecent(ctx context.Context, limit int, f models.DateFilter) ([]models.CookRow, error) {
	return r.scan(ctx, true, f, limit)
}

func (r *DocBadger) QueryAll(ctx context.Context, f models.DateFilter) ([]models.CookRow, error) {
	return r.scan(ctx, false, f, 0)
}

// scan walks the cook keys in creation order (or reverse), keeping rows that
// pass f until limit is reached.
func (r *DocBadger) scan(ctx context.Context, reverse bool, f models.DateFilter, limit int) ([]models.CookRow, error) {
	prefix := []byte(cookKeyPrefix)
	out := make([]models.CookRow, 0, 64)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = reverse
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := prefix
		if reverse {
			seek = append(append([]byte{}, prefix...), 0xFF)
		}
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var row models.CookRow
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &row)
			})
			if err != nil {
				if r.log != nil {
					r.log.Warnw("cook_doc_skipped", "key", string(it.Item().Key()), "err", err)
				}
				continue
			}
			if !f.Match(row.StartDate) {
				continue
			}
			out = append(out, row)
			if limit > 0 && len(out) >= limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan cooks: %w", err)
	}
	return out, nil
}
