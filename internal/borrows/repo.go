package borrows

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tanakritw/officestock-backend/pkg/db"
	"github.com/tanakritw/officestock-backend/pkg/db/models"
)

// Repository manages persistence for borrow records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, record *models.BorrowTransaction) error
	Find(ctx context.Context, borrowID int64) (*models.BorrowTransaction, error)
	// FindForUpdate locks the borrow row so concurrent returns against the
	// same record serialize.
	FindForUpdate(ctx context.Context, borrowID int64) (*models.BorrowTransaction, error)
	UpdateOutstanding(ctx context.Context, borrowID int64, amount int) error
	MarkReturned(ctx context.Context, record *models.BorrowTransaction) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a borrow repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.BorrowTransaction) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) Find(ctx context.Context, borrowID int64) (*models.BorrowTransaction, error) {
	var record models.BorrowTransaction
	err := r.db.WithContext(ctx).First(&record, "id = ?", borrowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindForUpdate(ctx context.Context, borrowID int64) (*models.BorrowTransaction, error) {
	var record models.BorrowTransaction
	err := db.LockForUpdate(r.db.WithContext(ctx)).First(&record, "id = ?", borrowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) UpdateOutstanding(ctx context.Context, borrowID int64, amount int) error {
	return r.db.WithContext(ctx).
		Model(&models.BorrowTransaction{}).
		Where("id = ?", borrowID).
		Update("amount", amount).Error
}

func (r *repository) MarkReturned(ctx context.Context, record *models.BorrowTransaction) error {
	return r.db.WithContext(ctx).
		Model(&models.BorrowTransaction{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"status":      record.Status,
			"return_date": record.ReturnDate,
			"note":        record.Note,
		}).Error
}
