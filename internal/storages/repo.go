package storages

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tanakritw/officestock-backend/pkg/db/models"
)

// Repository exposes persistence for storage slots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, storage *models.Storage) error
	Find(ctx context.Context, storageID int64) (*models.Storage, error)
	List(ctx context.Context) ([]models.Storage, error)
	ListByLocation(ctx context.Context, location string) ([]models.Storage, error)
	Update(ctx context.Context, storage *models.Storage) error
	Delete(ctx context.Context, storageID int64) error
	CountItems(ctx context.Context, storageID int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a storages repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, storage *models.Storage) error {
	return r.db.WithContext(ctx).Create(storage).Error
}

func (r *repository) Find(ctx context.Context, storageID int64) (*models.Storage, error) {
	var storage models.Storage
	err := r.db.WithContext(ctx).First(&storage, "storage_id = ?", storageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &storage, nil
}

func (r *repository) List(ctx context.Context) ([]models.Storage, error) {
	var storages []models.Storage
	if err := r.db.WithContext(ctx).
		Order("location ASC, storage_name ASC").
		Find(&storages).Error; err != nil {
		return nil, err
	}
	return storages, nil
}

func (r *repository) ListByLocation(ctx context.Context, location string) ([]models.Storage, error) {
	var storages []models.Storage
	if err := r.db.WithContext(ctx).
		Where("location = ?", location).
		Order("storage_name ASC").
		Find(&storages).Error; err != nil {
		return nil, err
	}
	return storages, nil
}

func (r *repository) Update(ctx context.Context, storage *models.Storage) error {
	return r.db.WithContext(ctx).
		Model(&models.Storage{}).
		Where("storage_id = ?", storage.StorageID).
		Updates(map[string]any{
			"storage_name": storage.StorageName,
			"location":     storage.Location,
		}).Error
}

func (r *repository) Delete(ctx context.Context, storageID int64) error {
	return r.db.WithContext(ctx).Delete(&models.Storage{}, "storage_id = ?", storageID).Error
}

func (r *repository) CountItems(ctx context.Context, storageID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("storage_id = ?", storageID).
		Count(&count).Error
	return count, err
}
