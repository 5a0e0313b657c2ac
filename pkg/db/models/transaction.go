package models

import (
	"time"

	"github.com/tanakritw/officestock-backend/pkg/enums"
)

// Transaction is a withdrawal header. The model supports many detail lines
// per header even though the ledger engine currently writes exactly one.
type Transaction struct {
	TransactionID   int64                   `gorm:"column:transaction_id;primaryKey;autoIncrement" json:"transaction_id"`
	UserID          int64                   `gorm:"column:user_id;not null" json:"user_id"`
	Status          enums.TransactionStatus `gorm:"column:status;not null" json:"status"`
	TransactionDate time.Time               `gorm:"column:transaction_date;autoCreateTime" json:"transaction_date"`

	Details []TransactionDetail `gorm:"foreignKey:TransactionID;references:TransactionID" json:"details,omitempty"`
}

func (Transaction) TableName() string { return "transactions" }
