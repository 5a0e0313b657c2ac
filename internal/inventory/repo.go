package inventory

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tanakritw/officestock-backend/pkg/db"
	"github.com/tanakritw/officestock-backend/pkg/db/models"
)

// Repository exposes persistence for items and the withdrawal log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateItem(ctx context.Context, item *models.Item) error
	FindItem(ctx context.Context, itemID int64) (*models.Item, error)
	// FindItemForUpdate locks the item row before reading it. Callers must
	// hold an open transaction; quantity read outside the lock is stale.
	FindItemForUpdate(ctx context.Context, itemID int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	UpdateQuantity(ctx context.Context, itemID int64, quantity int) error
	DeleteItem(ctx context.Context, itemID int64) error
	CountItemReferences(ctx context.Context, itemID int64) (int64, error)

	StorageExists(ctx context.Context, storageID int64) (bool, error)

	// CreateWithdrawal inserts the transaction header and its detail lines.
	// The header supports many details even though the engine writes one.
	CreateWithdrawal(ctx context.Context, txn *models.Transaction, details []models.TransactionDetail) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateItem(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindItem(ctx context.Context, itemID int64) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).First(&item, "item_id = ?", itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindItemForUpdate(ctx context.Context, itemID int64) (*models.Item, error) {
	var item models.Item
	err := db.LockForUpdate(r.db.WithContext(ctx)).First(&item, "item_id = ?", itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpdateItem(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("item_id = ?", item.ItemID).
		Updates(map[string]any{
			"item_name":  item.ItemName,
			"quantity":   item.Quantity,
			"unit":       item.Unit,
			"storage_id": item.StorageID,
		}).Error
}

func (r *repository) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("item_id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *repository) DeleteItem(ctx context.Context, itemID int64) error {
	return r.db.WithContext(ctx).Delete(&models.Item{}, "item_id = ?", itemID).Error
}

// CountItemReferences counts history rows pointing at the item across the
// borrow log and the withdrawal detail log.
func (r *repository) CountItemReferences(ctx context.Context, itemID int64) (int64, error) {
	var borrows int64
	if err := r.db.WithContext(ctx).
		Model(&models.BorrowTransaction{}).
		Where("item_id = ?", itemID).
		Count(&borrows).Error; err != nil {
		return 0, err
	}

	var details int64
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionDetail{}).
		Where("item_id = ?", itemID).
		Count(&details).Error; err != nil {
		return 0, err
	}
	return borrows + details, nil
}

func (r *repository) StorageExists(ctx context.Context, storageID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Storage{}).
		Where("storage_id = ?", storageID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateWithdrawal(ctx context.Context, txn *models.Transaction, details []models.TransactionDetail) error {
	conn := r.db.WithContext(ctx)

	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = time.Now().UTC()
	}
	if err := conn.Create(txn).Error; err != nil {
		return err
	}

	for i := range details {
		details[i].TransactionID = txn.TransactionID
	}
	return conn.Create(&details).Error
}
