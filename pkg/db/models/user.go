package models

// User is a person who withdraws or borrows supplies. No credentials: the
// system trusts all callers.
type User struct {
	UserID     int64  `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	Fullname   string `gorm:"column:fullname;not null" json:"fullname"`
	Department string `gorm:"column:department;not null" json:"department"`
}

func (User) TableName() string { return "users" }
