package service

import (
	"context"
	"fmt"

	"kitchenlog/internal/models"
	"kitchenlog/internal/repository"
)

// DefaultRecentLimit is how many rows the recent listing shows by default.
const DefaultRecentLimit = 8

// HistoryService reads and appends log rows without going through a station.
type HistoryService struct {
	cookLog repository.CookLog
}

var _ History = (*HistoryService)(nil)

func NewHistoryService(cookLog repository.CookLog) *HistoryService {
	return &HistoryService{cookLog: cookLog}
}

// Record validates a row and appends it.
func (s *HistoryService) Record(ctx context.Context, row models.CookRow) error {
	if err := row.Validate(); err != nil {
		return err
	}
	if err := s.cookLog.Append(ctx, row); err != nil {
		return fmt.Errorf("record cook: %w", err)
	}
	return nil
}

// Recent returns up to limit matching rows, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int, f models.DateFilter) ([]models.CookRow, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.cookLog.QueryRecent(ctx, limit, f)
	if err != nil {
		return nil, fmt.Errorf("query recent cooks: %w", err)
	}
	return rows, nil
}

// All returns every matching row, oldest first.
func (s *HistoryService) All(ctx context.Context, f models.DateFilter) ([]models.CookRow, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.cookLog.QueryAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("query cooks: %w", err)
	}
	return rows, nil
}

// Ready reports whether the backing store is connected.
func (s *HistoryService) Ready() bool {
	if r, ok := s.cookLog.(interface{ Ready() bool }); ok {
		return r.Ready()
	}
	return true
}
