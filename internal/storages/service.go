package storages

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tanakritw/officestock-backend/pkg/db"
	"github.com/tanakritw/officestock-backend/pkg/db/models"
	"github.com/tanakritw/officestock-backend/pkg/errors"
	"github.com/tanakritw/officestock-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateStorageInput carries the fields for a new storage slot.
type CreateStorageInput struct {
	StorageName string `json:"storage_name" validate:"required"`
	Location    string `json:"location" validate:"required"`
}

// UpdateStorageInput carries the editable fields of a storage slot.
type UpdateStorageInput struct {
	StorageName string `json:"storage_name" validate:"required"`
	Location    string `json:"location" validate:"required"`
}

// Service manages storage slots and the rooms they belong to.
type Service struct {
	tx      txRunner
	repo    Repository
	metrics *metrics.LedgerMetrics
}

func NewService(tx txRunner, repo Repository, m *metrics.LedgerMetrics) *Service {
	return &Service{tx: tx, repo: repo, metrics: m}
}

func (s *Service) Create(ctx context.Context, input CreateStorageInput) (*models.Storage, error) {
	name := strings.TrimSpace(input.StorageName)
	location := strings.TrimSpace(input.Location)
	if name == "" || location == "" {
		return nil, errors.New(errors.CodeValidation, "storage_name and location are required")
	}

	storage := &models.Storage{StorageName: name, Location: location}
	if err := s.repo.Create(ctx, storage); err != nil {
		return nil, db.WrapError(err, "failed to create storage")
	}
	s.metrics.IncOperation("create_storage")
	return storage, nil
}

func (s *Service) Get(ctx context.Context, storageID int64) (*models.Storage, error) {
	storage, err := s.repo.Find(ctx, storageID)
	if err != nil {
		return nil, db.WrapError(err, "failed to load storage")
	}
	if storage == nil {
		return nil, errors.New(errors.CodeNotFound, "storage not found")
	}
	return storage, nil
}

func (s *Service) List(ctx context.Context, location string) ([]models.Storage, error) {
	var (
		storages []models.Storage
		err      error
	)
	if location != "" {
		storages, err = s.repo.ListByLocation(ctx, location)
	} else {
		storages, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, db.WrapError(err, "failed to list storages")
	}
	return storages, nil
}

func (s *Service) Update(ctx context.Context, storageID int64, input UpdateStorageInput) (*models.Storage, error) {
	name := strings.TrimSpace(input.StorageName)
	location := strings.TrimSpace(input.Location)
	if name == "" || location == "" {
		return nil, errors.New(errors.CodeValidation, "storage_name and location are required")
	}

	storage, err := s.repo.Find(ctx, storageID)
	if err != nil {
		return nil, db.WrapError(err, "failed to load storage")
	}
	if storage == nil {
		return nil, errors.New(errors.CodeNotFound, "storage not found")
	}

	storage.StorageName = name
	storage.Location = location
	if err := s.repo.Update(ctx, storage); err != nil {
		return nil, db.WrapError(err, "failed to update storage")
	}
	s.metrics.IncOperation("update_storage")
	return storage, nil
}

// Delete removes a storage slot unless items still live in it.
func (s *Service) Delete(ctx context.Context, storageID int64) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		storage, err := repo.Find(ctx, storageID)
		if err != nil {
			return db.WrapError(err, "failed to load storage")
		}
		if storage == nil {
			return errors.New(errors.CodeNotFound, "storage not found")
		}

		items, err := repo.CountItems(ctx, storageID)
		if err != nil {
			return db.WrapError(err, "failed to count stored items")
		}
		if items > 0 {
			return errors.New(errors.CodeReferentialConflict, "storage still holds items").
				WithDetails(map[string]any{"items": items})
		}

		if err := repo.Delete(ctx, storageID); err != nil {
			return db.WrapError(err, "failed to delete storage")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncFailure("delete_storage")
		return err
	}
	s.metrics.IncOperation("delete_storage")
	return nil
}
