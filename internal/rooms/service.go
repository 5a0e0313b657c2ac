package rooms

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tanakritw/officestock-backend/pkg/db"
	pkgerrors "github.com/tanakritw/officestock-backend/pkg/errors"
	"github.com/tanakritw/officestock-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RenameResult reports how many storages moved to the new room name.
type RenameResult struct {
	StoragesMoved int64 `json:"storages_moved"`
}

// Service manages room lifecycle. A room is just the set of storages sharing
// a location label, so rename is a bulk update and delete is a cascade.
type Service interface {
	Rename(ctx context.Context, oldName, newName string) (*RenameResult, error)
	Delete(ctx context.Context, location string) error
}

type service struct {
	tx      txRunner
	repo    Repository
	metrics *metrics.LedgerMetrics
}

// NewService builds the rooms service.
func NewService(tx txRunner, repo Repository, m *metrics.LedgerMetrics) (Service, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "rooms repository required")
	}
	return &service{tx: tx, repo: repo, metrics: m}, nil
}

func (s *service) Rename(ctx context.Context, oldName, newName string) (*RenameResult, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "old and new room names required")
	}
	if oldName == newName {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room names must differ")
	}

	var moved int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := s.repo.WithTx(tx).RenameLocation(ctx, oldName, newName)
		if err != nil {
			return db.WrapError(err, "rename room")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
		}
		moved = rows
		return nil
	})
	if err != nil {
		s.metrics.IncFailure("rename_room")
		return nil, err
	}
	s.metrics.IncOperation("rename_room")
	return &RenameResult{StoragesMoved: moved}, nil
}

// Delete removes every borrow record, withdrawal detail, item and storage
// under the location as one transaction. Any step failing leaves the room
// fully intact.
func (s *service) Delete(ctx context.Context, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "room name required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		count, err := repo.CountStorages(ctx, location)
		if err != nil {
			return db.WrapError(err, "count storages")
		}
		if count == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
		}

		// History first, then items, then storages: children before
		// parents so the foreign keys never block the cascade.
		if err := repo.DeleteBorrowRecords(ctx, location); err != nil {
			return db.WrapError(err, "delete borrow records")
		}
		if err := repo.DeleteWithdrawalDetails(ctx, location); err != nil {
			return db.WrapError(err, "delete withdrawal details")
		}
		if err := repo.DeleteItems(ctx, location); err != nil {
			return db.WrapError(err, "delete items")
		}
		if err := repo.DeleteStorages(ctx, location); err != nil {
			return db.WrapError(err, "delete storages")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncFailure("delete_room")
		return err
	}
	s.metrics.IncOperation("delete_room")
	return nil
}
