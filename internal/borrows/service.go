package borrows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tanakritw/officestock-backend/internal/inventory"
	"github.com/tanakritw/officestock-backend/pkg/db"
	"github.com/tanakritw/officestock-backend/pkg/db/models"
	"github.com/tanakritw/officestock-backend/pkg/enums"
	pkgerrors "github.com/tanakritw/officestock-backend/pkg/errors"
	"github.com/tanakritw/officestock-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// BorrowInput identifies the item, the borrower and the amount going out.
type BorrowInput struct {
	ItemID int64  `json:"item_id"`
	UserID int64  `json:"user_id"`
	Amount int    `json:"amount"`
	Note   string `json:"note"`
}

// ReturnInput describes a full or partial return of a borrow record.
type ReturnInput struct {
	BorrowID     int64  `json:"borrow_id"`
	ReturnAmount int    `json:"return_amount"`
	Condition    string `json:"condition"`
	Note         string `json:"note"`
}

// ReturnResult reports the borrow record and item state after a return.
type ReturnResult struct {
	Record      models.BorrowTransaction `json:"record"`
	Outstanding int                      `json:"outstanding"`
	NewQuantity int                      `json:"new_quantity"`
}

// Service is the borrow/return half of the ledger engine. Borrows decrement
// stock like withdrawals but are expected to come back; they never touch the
// withdrawal transaction log.
type Service interface {
	Borrow(ctx context.Context, input BorrowInput) (*models.BorrowTransaction, error)
	Return(ctx context.Context, input ReturnInput) (*ReturnResult, error)
}

type service struct {
	tx      txRunner
	repo    Repository
	items   inventory.Repository
	metrics *metrics.LedgerMetrics
}

// NewService builds the borrow service.
func NewService(tx txRunner, repo Repository, items inventory.Repository, m *metrics.LedgerMetrics) (Service, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "borrow repository required")
	}
	if items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inventory repository required")
	}
	return &service{tx: tx, repo: repo, items: items, metrics: m}, nil
}

func (s *service) Borrow(ctx context.Context, input BorrowInput) (*models.BorrowTransaction, error) {
	if input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "borrow amount must be positive")
	}
	if input.ItemID <= 0 || input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id and user id required")
	}

	record := &models.BorrowTransaction{
		ItemID:     input.ItemID,
		UserID:     input.UserID,
		Amount:     input.Amount,
		Note:       strings.TrimSpace(input.Note),
		BorrowDate: time.Now().UTC(),
		Status:     enums.BorrowStatusBorrowed,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		items := s.items.WithTx(tx)
		repo := s.repo.WithTx(tx)

		item, err := items.FindItemForUpdate(ctx, input.ItemID)
		if err != nil {
			return db.WrapError(err, "lock item")
		}
		if item == nil || item.Quantity < input.Amount {
			remaining := 0
			if item != nil {
				remaining = item.Quantity
			}
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock to borrow").
				WithDetails(map[string]any{"remaining": remaining, "requested": input.Amount})
		}

		if err := items.UpdateQuantity(ctx, item.ItemID, item.Quantity-input.Amount); err != nil {
			return db.WrapError(err, "decrement stock")
		}
		if err := repo.Create(ctx, record); err != nil {
			return db.WrapError(err, "record borrow")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncFailure("borrow")
		return nil, err
	}
	s.metrics.IncOperation("borrow")
	return record, nil
}

func (s *service) Return(ctx context.Context, input ReturnInput) (*ReturnResult, error) {
	if input.ReturnAmount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "return amount must be positive")
	}
	if input.BorrowID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "borrow id required")
	}

	var result ReturnResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		items := s.items.WithTx(tx)
		repo := s.repo.WithTx(tx)

		record, err := repo.FindForUpdate(ctx, input.BorrowID)
		if err != nil {
			return db.WrapError(err, "lock borrow record")
		}
		if record == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "borrow record not found")
		}
		if record.Status == enums.BorrowStatusReturned {
			return pkgerrors.New(pkgerrors.CodeOverReturn, "borrow record already fully returned").
				WithDetails(map[string]any{"outstanding": 0})
		}
		if input.ReturnAmount > record.Amount {
			return pkgerrors.New(pkgerrors.CodeOverReturn, "return exceeds outstanding amount").
				WithDetails(map[string]any{"outstanding": record.Amount, "requested": input.ReturnAmount})
		}

		item, err := items.FindItemForUpdate(ctx, record.ItemID)
		if err != nil {
			return db.WrapError(err, "lock item")
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "borrowed item no longer exists")
		}

		newQty := item.Quantity + input.ReturnAmount
		if err := items.UpdateQuantity(ctx, item.ItemID, newQty); err != nil {
			return db.WrapError(err, "restock item")
		}

		outstanding := record.Amount - input.ReturnAmount
		if outstanding == 0 {
			now := time.Now().UTC()
			record.Status = enums.BorrowStatusReturned
			record.ReturnDate = &now
			record.Note = appendReturnNote(record.Note, input.Condition, input.Note)
			if err := repo.MarkReturned(ctx, record); err != nil {
				return db.WrapError(err, "close borrow record")
			}
		} else {
			record.Amount = outstanding
			if err := repo.UpdateOutstanding(ctx, record.ID, outstanding); err != nil {
				return db.WrapError(err, "update outstanding amount")
			}
		}

		result = ReturnResult{
			Record:      *record,
			Outstanding: outstanding,
			NewQuantity: newQty,
		}
		return nil
	})
	if err != nil {
		s.metrics.IncFailure("return")
		return nil, err
	}
	s.metrics.IncOperation("return")
	return &result, nil
}

// appendReturnNote preserves the original borrow note and appends the
// condition the item came back in.
func appendReturnNote(existing, condition, note string) string {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		condition = "ok"
	}
	suffix := fmt.Sprintf("returned (%s)", condition)
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		suffix = fmt.Sprintf("%s: %s", suffix, trimmed)
	}
	if strings.TrimSpace(existing) == "" {
		return suffix
	}
	return existing + " | " + suffix
}
