package models

import "time"

// Settings is the single-row preferences table (id always 1). It carries its
// own last_updated clock so settings changes participate in delta sync.
type Settings struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	ShowTitles    bool      `gorm:"not null" json:"show_titles"`
	TilesPerRow   int       `gorm:"not null" json:"tiles_per_row"`
	TileGap       int       `gorm:"not null" json:"tile_gap"`
	ShowAddButton bool      `gorm:"not null" json:"show_add_button"`
	LastUpdated   time.Time `gorm:"column:last_updated;not null" json:"last_updated"`
}

func (Settings) TableName() string {
	return "settings"
}

const SettingsRowID uint = 1

// DefaultSettings returns the lazily-materialized defaults for a fresh store.
func DefaultSettings(now time.Time) Settings {
	return Settings{
		ID:            SettingsRowID,
		ShowTitles:    true,
		TilesPerRow:   8,
		TileGap:       1,
		ShowAddButton: true,
		LastUpdated:   now,
	}
}
