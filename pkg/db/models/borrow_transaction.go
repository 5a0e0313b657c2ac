package models

import (
	"time"

	"github.com/tanakritw/officestock-backend/pkg/enums"
)

// BorrowTransaction records an item on loan. Amount is the outstanding
// quantity still out; partial returns decrement it, a full return flips the
// status to returned and stamps the return date.
type BorrowTransaction struct {
	ID         int64              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ItemID     int64              `gorm:"column:item_id;not null" json:"item_id"`
	UserID     int64              `gorm:"column:user_id;not null" json:"user_id"`
	Amount     int                `gorm:"column:amount;not null" json:"amount"`
	Note       string             `gorm:"column:note" json:"note"`
	BorrowDate time.Time          `gorm:"column:borrow_date;not null" json:"borrow_date"`
	Status     enums.BorrowStatus `gorm:"column:status;not null" json:"status"`
	ReturnDate *time.Time         `gorm:"column:return_date" json:"return_date,omitempty"`
}

func (BorrowTransaction) TableName() string { return "borrow_transactions" }
