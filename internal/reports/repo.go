package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tanakritw/officestock-backend/pkg/db/models"
	"github.com/tanakritw/officestock-backend/pkg/enums"
)

// lowStockCutoff marks an item as running low on the dashboard. This is a
// display cutoff, distinct from the withdrawal alert threshold.
const lowStockCutoff = 10

// Repository runs the read-only reporting queries over committed state.
type Repository interface {
	Summary(ctx context.Context) (*Summary, error)
	RoomStats(ctx context.Context) ([]RoomStat, error)
	ChartRows(ctx context.Context) ([]ChartRow, error)
	RoomItems(ctx context.Context, location string) ([]RoomItem, error)
	WithdrawHistory(ctx context.Context, filter HistoryFilter) ([]WithdrawEntry, error)
	BorrowHistory(ctx context.Context, location string) ([]BorrowEntry, error)
	ActiveBorrows(ctx context.Context) ([]BorrowEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reports repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) Summary(ctx context.Context) (*Summary, error) {
	var summary Summary

	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&summary.TotalQuantity).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("quantity < ?", lowStockCutoff).
		Count(&summary.LowStockItems).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.BorrowTransaction{}).
		Where("status <> ?", enums.BorrowStatusReturned).
		Count(&summary.ActiveBorrows).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *repository) RoomStats(ctx context.Context) ([]RoomStat, error) {
	var stats []RoomStat
	err := r.db.WithContext(ctx).
		Table("storages s").
		Select("s.location AS location, COUNT(DISTINCT s.storage_id) AS storage_count, COUNT(i.item_id) AS item_count").
		Joins("LEFT JOIN items i ON s.storage_id = i.storage_id").
		Group("s.location").
		Order("s.location ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *repository) ChartRows(ctx context.Context) ([]ChartRow, error) {
	var rows []ChartRow
	err := r.db.WithContext(ctx).
		Table("storages s").
		Select(
			"s.location AS location, "+
				"SUM(CASE WHEN i.item_id IS NOT NULL AND i.quantity < ? THEN 1 ELSE 0 END) AS low_count, "+
				"SUM(CASE WHEN i.item_id IS NOT NULL AND i.quantity >= ? THEN 1 ELSE 0 END) AS normal_count",
			lowStockCutoff, lowStockCutoff,
		).
		Joins("LEFT JOIN items i ON s.storage_id = i.storage_id").
		Where("s.location <> ''").
		Group("s.location").
		Order("s.location ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) RoomItems(ctx context.Context, location string) ([]RoomItem, error) {
	var items []RoomItem
	query := r.db.WithContext(ctx).
		Table("items i").
		Select("i.item_id, i.item_name, i.quantity, i.unit, s.storage_name, s.location").
		Joins("JOIN storages s ON i.storage_id = s.storage_id")
	if location != "" {
		query = query.Where("s.location = ?", location).Order("i.item_name ASC")
	} else {
		query = query.Order("s.location ASC, i.item_name ASC")
	}
	if err := query.Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) WithdrawHistory(ctx context.Context, filter HistoryFilter) ([]WithdrawEntry, error) {
	query := r.db.WithContext(ctx).
		Table("transactions t").
		Select("t.transaction_date, u.fullname, u.department, i.item_name, td.amount, i.unit, s.storage_name, s.location, t.status").
		Joins("JOIN transaction_details td ON t.transaction_id = td.transaction_id").
		Joins("JOIN items i ON td.item_id = i.item_id").
		Joins("JOIN users u ON t.user_id = u.user_id").
		Joins("JOIN storages s ON i.storage_id = s.storage_id")

	if filter.Location != "" {
		query = query.Where("s.location = ?", filter.Location)
	}
	if filter.Start != nil {
		query = query.Where("t.transaction_date >= ?", startOfDay(*filter.Start))
	}
	if filter.End != nil {
		query = query.Where("t.transaction_date < ?", startOfDay(*filter.End).AddDate(0, 0, 1))
	}

	var entries []WithdrawEntry
	if err := query.Order("t.transaction_date DESC").Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) BorrowHistory(ctx context.Context, location string) ([]BorrowEntry, error) {
	query := r.borrowJoin(ctx)
	if location != "" {
		query = query.Where("s.location = ?", location)
	}

	var entries []BorrowEntry
	if err := query.Order("b.borrow_date DESC").Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ActiveBorrows(ctx context.Context) ([]BorrowEntry, error) {
	var entries []BorrowEntry
	err := r.borrowJoin(ctx).
		Where("b.status <> ?", enums.BorrowStatusReturned).
		Order("b.borrow_date DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) borrowJoin(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("borrow_transactions b").
		Select("b.id, i.item_name, i.unit, b.amount, b.note, b.borrow_date, b.return_date, b.status, u.fullname, u.department, s.storage_name, s.location").
		Joins("JOIN items i ON b.item_id = i.item_id").
		Joins("JOIN users u ON b.user_id = u.user_id").
		Joins("JOIN storages s ON i.storage_id = s.storage_id")
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
