package reports

import (
	"context"

	"github.com/tanakritw/officestock-backend/pkg/db"
)

// Service exposes the reporting surface. It never mutates state.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, db.WrapError(err, "failed to build summary")
	}
	return summary, nil
}

func (s *Service) RoomStats(ctx context.Context) ([]RoomStat, error) {
	stats, err := s.repo.RoomStats(ctx)
	if err != nil {
		return nil, db.WrapError(err, "failed to load room stats")
	}
	return stats, nil
}

func (s *Service) ChartRows(ctx context.Context) ([]ChartRow, error) {
	rows, err := s.repo.ChartRows(ctx)
	if err != nil {
		return nil, db.WrapError(err, "failed to load chart rows")
	}
	return rows, nil
}

func (s *Service) RoomItems(ctx context.Context, location string) ([]RoomItem, error) {
	items, err := s.repo.RoomItems(ctx, location)
	if err != nil {
		return nil, db.WrapError(err, "failed to load room items")
	}
	return items, nil
}

func (s *Service) WithdrawHistory(ctx context.Context, filter HistoryFilter) ([]WithdrawEntry, error) {
	entries, err := s.repo.WithdrawHistory(ctx, filter)
	if err != nil {
		return nil, db.WrapError(err, "failed to load withdraw history")
	}
	return entries, nil
}

func (s *Service) BorrowHistory(ctx context.Context, location string) ([]BorrowEntry, error) {
	entries, err := s.repo.BorrowHistory(ctx, location)
	if err != nil {
		return nil, db.WrapError(err, "failed to load borrow history")
	}
	return entries, nil
}

func (s *Service) ActiveBorrows(ctx context.Context) ([]BorrowEntry, error) {
	entries, err := s.repo.ActiveBorrows(ctx)
	if err != nil {
		return nil, db.WrapError(err, "failed to load active borrows")
	}
	return entries, nil
}
