package models

// TransactionDetail is one withdrawn line under a Transaction header.
type TransactionDetail struct {
	DetailID      int64 `gorm:"column:detail_id;primaryKey;autoIncrement" json:"detail_id"`
	TransactionID int64 `gorm:"column:transaction_id;not null" json:"transaction_id"`
	ItemID        int64 `gorm:"column:item_id;not null" json:"item_id"`
	Amount        int   `gorm:"column:amount;not null" json:"amount"`
}

func (TransactionDetail) TableName() string { return "transaction_details" }
