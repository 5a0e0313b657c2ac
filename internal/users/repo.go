package users

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tanakritw/officestock-backend/pkg/db/models"
)

// Repository exposes persistence for users.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user *models.User) error
	Find(ctx context.Context, userID int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID int64) error
	CountReferences(ctx context.Context, userID int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a users repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) Find(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("fullname ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]any{
			"fullname":   user.Fullname,
			"department": user.Department,
		}).Error
}

func (r *repository) Delete(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, "user_id = ?", userID).Error
}

// CountReferences counts withdraw headers and borrow records naming the user.
func (r *repository) CountReferences(ctx context.Context, userID int64) (int64, error) {
	var withdrawals int64
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Count(&withdrawals).Error; err != nil {
		return 0, err
	}

	var borrows int64
	if err := r.db.WithContext(ctx).
		Model(&models.BorrowTransaction{}).
		Where("user_id = ?", userID).
		Count(&borrows).Error; err != nil {
		return 0, err
	}
	return withdrawals + borrows, nil
}
