package inventory

import "github.com/tanakritw/officestock-backend/pkg/db/models"

// AddItemInput captures the fields required to stock a new item.
type AddItemInput struct {
	Name      string `json:"item_name"`
	Quantity  int    `json:"quantity"`
	Unit      string `json:"unit"`
	StorageID int64  `json:"storage_id"`
}

// UpdateItemInput replaces every mutable field of an item.
type UpdateItemInput struct {
	Name      string `json:"item_name"`
	Quantity  int    `json:"quantity"`
	Unit      string `json:"unit"`
	StorageID int64  `json:"storage_id"`
}

// WithdrawInput identifies the item, the acting user and the amount to consume.
type WithdrawInput struct {
	ItemID int64 `json:"item_id"`
	UserID int64 `json:"user_id"`
	Amount int   `json:"amount"`
}

// WithdrawResult reports the committed state after a withdrawal.
type WithdrawResult struct {
	Item          models.Item `json:"item"`
	TransactionID int64       `json:"transaction_id"`
	NewQuantity   int         `json:"new_quantity"`
}
