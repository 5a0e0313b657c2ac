package inventory

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tanakritw/officestock-backend/pkg/db"
	"github.com/tanakritw/officestock-backend/pkg/db/models"
	"github.com/tanakritw/officestock-backend/pkg/enums"
	pkgerrors "github.com/tanakritw/officestock-backend/pkg/errors"
	"github.com/tanakritw/officestock-backend/pkg/metrics"
)

// DefaultLowStockThreshold triggers an alert when a withdrawal leaves an
// item at or below this quantity, unless configured otherwise.
const DefaultLowStockThreshold = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// lowStockNotifier receives the post-commit alert. Implementations must be
// best-effort: the withdrawal is already committed when this fires.
type lowStockNotifier interface {
	LowStock(ctx context.Context, item models.Item, remaining int, userID int64)
}

// Service is the ledger engine surface for items and withdrawals.
type Service interface {
	AddItem(ctx context.Context, input AddItemInput) (*models.Item, error)
	Withdraw(ctx context.Context, input WithdrawInput) (*WithdrawResult, error)
	UpdateItem(ctx context.Context, itemID int64, input UpdateItemInput) (*models.Item, error)
	DeleteItem(ctx context.Context, itemID int64) error
	GetItem(ctx context.Context, itemID int64) (*models.Item, error)
}

type service struct {
	tx        txRunner
	repo      Repository
	alerts    lowStockNotifier
	threshold int
	metrics   *metrics.LedgerMetrics
}

// ServiceParams bundles the ledger engine dependencies.
type ServiceParams struct {
	Tx                txRunner
	Repo              Repository
	Alerts            lowStockNotifier
	LowStockThreshold int
	Metrics           *metrics.LedgerMetrics
}

// NewService builds the inventory ledger service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inventory repository required")
	}
	threshold := params.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &service{
		tx:        params.Tx,
		repo:      params.Repo,
		alerts:    params.Alerts,
		threshold: threshold,
		metrics:   params.Metrics,
	}, nil
}

func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.Item, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if input.StorageID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage id required")
	}

	item := &models.Item{
		ItemName:  strings.TrimSpace(input.Name),
		Quantity:  input.Quantity,
		Unit:      strings.TrimSpace(input.Unit),
		StorageID: input.StorageID,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.StorageExists(ctx, input.StorageID)
		if err != nil {
			return db.WrapError(err, "check storage")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeValidation, "storage does not exist").
				WithDetails(map[string]any{"storage_id": input.StorageID})
		}

		if err := repo.CreateItem(ctx, item); err != nil {
			return db.WrapError(err, "create item")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncFailure("add_item")
		return nil, err
	}
	s.metrics.IncOperation("add_item")
	return item, nil
}

func (s *service) Withdraw(ctx context.Context, input WithdrawInput) (*WithdrawResult, error) {
	if input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "withdraw amount must be positive")
	}
	if input.ItemID <= 0 || input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id and user id required")
	}

	var result WithdrawResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Lock first, read second. Reading before the lock would let two
		// withdrawals observe the same quantity.
		item, err := repo.FindItemForUpdate(ctx, input.ItemID)
		if err != nil {
			return db.WrapError(err, "lock item")
		}
		if item == nil || item.Quantity < input.Amount {
			remaining := 0
			if item != nil {
				remaining = item.Quantity
			}
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock to withdraw").
				WithDetails(map[string]any{"remaining": remaining, "requested": input.Amount})
		}

		newQty := item.Quantity - input.Amount

		txn := &models.Transaction{
			UserID: input.UserID,
			Status: enums.TransactionStatusApproved,
		}
		details := []models.TransactionDetail{{ItemID: item.ItemID, Amount: input.Amount}}
		if err := repo.CreateWithdrawal(ctx, txn, details); err != nil {
			return db.WrapError(err, "record withdrawal")
		}

		if err := repo.UpdateQuantity(ctx, item.ItemID, newQty); err != nil {
			return db.WrapError(err, "decrement stock")
		}

		item.Quantity = newQty
		result = WithdrawResult{
			Item:          *item,
			TransactionID: txn.TransactionID,
			NewQuantity:   newQty,
		}
		return nil
	})
	if err != nil {
		s.metrics.IncFailure("withdraw")
		return nil, err
	}
	s.metrics.IncOperation("withdraw")

	// Post-commit and best-effort: the alert can never undo the withdrawal.
	if result.NewQuantity <= s.threshold && s.alerts != nil {
		s.metrics.IncAlert()
		s.alerts.LowStock(ctx, result.Item, result.NewQuantity, input.UserID)
	}
	return &result, nil
}

func (s *service) UpdateItem(ctx context.Context, itemID int64, input UpdateItemInput) (*models.Item, error) {
	if itemID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if input.StorageID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage id required")
	}

	updated := &models.Item{
		ItemID:    itemID,
		ItemName:  strings.TrimSpace(input.Name),
		Quantity:  input.Quantity,
		Unit:      strings.TrimSpace(input.Unit),
		StorageID: input.StorageID,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItemForUpdate(ctx, itemID)
		if err != nil {
			return db.WrapError(err, "lock item")
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}

		exists, err := repo.StorageExists(ctx, input.StorageID)
		if err != nil {
			return db.WrapError(err, "check storage")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeValidation, "storage does not exist").
				WithDetails(map[string]any{"storage_id": input.StorageID})
		}

		if err := repo.UpdateItem(ctx, updated); err != nil {
			return db.WrapError(err, "update item")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncFailure("update_item")
		return nil, err
	}
	s.metrics.IncOperation("update_item")
	return updated, nil
}

func (s *service) DeleteItem(ctx context.Context, itemID int64) error {
	if itemID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItemForUpdate(ctx, itemID)
		if err != nil {
			return db.WrapError(err, "lock item")
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}

		// Item deletion never cascades: history rows block it so withdraw
		// and borrow records cannot be silently erased.
		refs, err := repo.CountItemReferences(ctx, itemID)
		if err != nil {
			return db.WrapError(err, "count history references")
		}
		if refs > 0 {
			return pkgerrors.New(pkgerrors.CodeReferentialConflict, "item has withdraw or borrow history").
				WithDetails(map[string]any{"references": refs})
		}

		if err := repo.DeleteItem(ctx, itemID); err != nil {
			return db.WrapError(err, "delete item")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncFailure("delete_item")
		return err
	}
	s.metrics.IncOperation("delete_item")
	return nil
}

func (s *service) GetItem(ctx context.Context, itemID int64) (*models.Item, error) {
	if itemID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, db.WrapError(err, "load item")
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return item, nil
}
