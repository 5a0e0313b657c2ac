package reports

import "time"

// Summary is the dashboard headline: aggregate stock, how many items run
// low, and how many borrows are still out.
type Summary struct {
	TotalQuantity int64 `json:"total_quantity"`
	LowStockItems int64 `json:"low_stock_items"`
	ActiveBorrows int64 `json:"active_borrows"`
}

// RoomStat aggregates a room's storages and items.
type RoomStat struct {
	Location     string `json:"location"`
	StorageCount int64  `json:"storage_count"`
	ItemCount    int64  `json:"item_count"`
}

// ChartRow splits a room's items into low and normal stock buckets.
type ChartRow struct {
	Location    string `json:"location"`
	LowCount    int64  `json:"low_count"`
	NormalCount int64  `json:"normal_count"`
}

// RoomItem is an item joined with its storage slot.
type RoomItem struct {
	ItemID      int64  `json:"item_id"`
	ItemName    string `json:"item_name"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
	StorageName string `json:"storage_name"`
	Location    string `json:"location"`
}

// WithdrawEntry is one withdraw history line across the header, detail,
// item, user and storage tables.
type WithdrawEntry struct {
	TransactionDate time.Time `json:"transaction_date"`
	Fullname        string    `json:"fullname"`
	Department      string    `json:"department"`
	ItemName        string    `json:"item_name"`
	Amount          int       `json:"amount"`
	Unit            string    `json:"unit"`
	StorageName     string    `json:"storage_name"`
	Location        string    `json:"location"`
	Status          string    `json:"status"`
}

// BorrowEntry is one borrow record joined with its item, user and storage.
type BorrowEntry struct {
	ID          int64      `json:"id"`
	ItemName    string     `json:"item_name"`
	Unit        string     `json:"unit"`
	Amount      int        `json:"amount"`
	Note        string     `json:"note"`
	BorrowDate  time.Time  `json:"borrow_date"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	Status      string     `json:"status"`
	Fullname    string     `json:"fullname"`
	Department  string     `json:"department"`
	StorageName string     `json:"storage_name"`
	Location    string     `json:"location"`
}

// HistoryFilter narrows withdraw history by room and date range. Start and
// End are inclusive calendar days.
type HistoryFilter struct {
	Location string
	Start    *time.Time
	End      *time.Time
}
