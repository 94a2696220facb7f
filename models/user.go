package models

import "time"

// UserRecord lives in the shared users.db registry and maps a Google subject
// identifier to profile data. It is upserted at login and never touched by
// the per-principal stores.
type UserRecord struct {
	Sub       string    `gorm:"primaryKey;type:varchar(64)" json:"sub"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Name      *string   `gorm:"type:varchar(255)" json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (UserRecord) TableName() string {
	return "users"
}
