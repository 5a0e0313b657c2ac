package rooms

import (
	"context"

	"gorm.io/gorm"

	"github.com/tanakritw/officestock-backend/pkg/db/models"
)

// Repository exposes the room-scoped bulk operations. The cascade steps are
// separate methods so the delete transaction can be exercised (and failed)
// one step at a time.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CountStorages(ctx context.Context, location string) (int64, error)
	RenameLocation(ctx context.Context, oldName, newName string) (int64, error)

	DeleteBorrowRecords(ctx context.Context, location string) error
	DeleteWithdrawalDetails(ctx context.Context, location string) error
	DeleteItems(ctx context.Context, location string) error
	DeleteStorages(ctx context.Context, location string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a rooms repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CountStorages(ctx context.Context, location string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Storage{}).
		Where("location = ?", location).
		Count(&count).Error
	return count, err
}

func (r *repository) RenameLocation(ctx context.Context, oldName, newName string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Storage{}).
		Where("location = ?", oldName).
		Update("location", newName)
	return result.RowsAffected, result.Error
}

const itemsInLocation = "SELECT item_id FROM items WHERE storage_id IN (SELECT storage_id FROM storages WHERE location = ?)"

func (r *repository) DeleteBorrowRecords(ctx context.Context, location string) error {
	return r.db.WithContext(ctx).
		Where("item_id IN ("+itemsInLocation+")", location).
		Delete(&models.BorrowTransaction{}).Error
}

func (r *repository) DeleteWithdrawalDetails(ctx context.Context, location string) error {
	return r.db.WithContext(ctx).
		Where("item_id IN ("+itemsInLocation+")", location).
		Delete(&models.TransactionDetail{}).Error
}

func (r *repository) DeleteItems(ctx context.Context, location string) error {
	return r.db.WithContext(ctx).
		Where("storage_id IN (SELECT storage_id FROM storages WHERE location = ?)", location).
		Delete(&models.Item{}).Error
}

func (r *repository) DeleteStorages(ctx context.Context, location string) error {
	return r.db.WithContext(ctx).
		Where("location = ?", location).
		Delete(&models.Storage{}).Error
}
