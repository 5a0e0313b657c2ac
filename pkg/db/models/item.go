package models

// Item is a stocked supply kept inside a storage unit. Quantity never goes
// negative; every mutation happens under a row lock.
type Item struct {
	ItemID    int64  `gorm:"column:item_id;primaryKey;autoIncrement" json:"item_id"`
	ItemName  string `gorm:"column:item_name;not null" json:"item_name"`
	Quantity  int    `gorm:"column:quantity;not null;default:0" json:"quantity"`
	Unit      string `gorm:"column:unit;not null" json:"unit"`
	StorageID int64  `gorm:"column:storage_id;not null" json:"storage_id"`

	Storage *Storage `gorm:"foreignKey:StorageID;references:StorageID" json:"-"`
}

func (Item) TableName() string { return "items" }
