package users

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

// CreateUserInput carries the fields for a new user.
type CreateUserInput struct {
	Fullname   string `json:"fullname" validate:"required"`
	Department string `json:"department" validate:"required"`
}

// UpdateUserInput carries the editable fields of an existing user.
type UpdateUserInput struct {
	Fullname   string `json:"fullname" validate:"required"`
	Department string `json:"department" validate:"required"`
}

// Service manages the people stock is handed to.
type Service struct {
	tx      txRunner
	repo    Repository
	metrics *metrics.LedgerMetrics
}

func NewService(tx txRunner, repo Repository, m *metrics.LedgerMetrics) *Service {
	return &Service{tx: tx, repo: repo, metrics: m}
}

func (s *Service) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	fullname := strings.TrimSpace(input.Fullname)
	if fullname == "" {
		return nil, errors.New(errors.CodeValidation, "fullname is required")
	}

	user := &models.User{
		Fullname:   fullname,
		Department: strings.TrimSpace(input.Department),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, db.WrapError(err, "failed to create user")
	}
	s.metrics.IncOperation("create_user")
	return user, nil
}

func (s *Service) Get(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.Find(ctx, userID)
	if err != nil {
		return nil, db.WrapError(err, "failed to load user")
	}
	if user == nil {
		return nil, errors.New(errors.CodeNotFound, "user not found")
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.WrapError(err, "failed to list users")
	}
	return users, nil
}

func (s *Service) Update(ctx context.Context, userID int64, input UpdateUserInput) (*models.User, error) {
	fullname := strings.TrimSpace(input.Fullname)
	if fullname == "" {
		return nil, errors.New(errors.CodeValidation, "fullname is required")
	}

	user, err := s.repo.Find(ctx, userID)
	if err != nil {
		return nil, db.WrapError(err, "failed to load user")
	}
	if user == nil {
		return nil, errors.New(errors.CodeNotFound, "user not found")
	}

	user.Fullname = fullname
	user.Department = strings.TrimSpace(input.Department)
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, db.WrapError(err, "failed to update user")
	}
	s.metrics.IncOperation("update_user")
	return user, nil
}

// Delete removes a user unless ledger history still names them.
func (s *Service) Delete(ctx context.Context, userID int64) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.Find(ctx, userID)
		if err != nil {
			return db.WrapError(err, "failed to load user")
		}
		if user == nil {
			return errors.New(errors.CodeNotFound, "user not found")
		}

		refs, err := repo.CountReferences(ctx, userID)
		if err != nil {
			return db.WrapError(err, "failed to count user references")
		}
		if refs > 0 {
			return errors.New(errors.CodeReferentialConflict, "user has ledger history").
				WithDetails(map[string]any{"references": refs})
		}

		if err := repo.Delete(ctx, userID); err != nil {
			return db.WrapError(err, "failed to delete user")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncFailure("delete_user")
		return err
	}
	s.metrics.IncOperation("delete_user")
	return nil
}
