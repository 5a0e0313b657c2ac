package models

// Storage is a cabinet or shelf. A room is not a first-class entity: it is
// the set of storages sharing the same location label.
type Storage struct {
	StorageID   int64  `gorm:"column:storage_id;primaryKey;autoIncrement" json:"storage_id"`
	StorageName string `gorm:"column:storage_name;not null" json:"storage_name"`
	Location    string `gorm:"column:location;not null" json:"location"`
}

func (Storage) TableName() string { return "storages" }
