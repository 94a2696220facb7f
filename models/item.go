package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	KindBookmark = "bookmark"
	KindFolder   = "folder"
)

// Item is the shared base row for every positionable entry (bookmarks and
// folders). Siblings are ordered by a sparse float position; live siblings
// sharing a parent must have distinct positions. The check runs inside each
// write transaction rather than as a unique index: SQLite treats NULL
// parent_id values as distinct inside a unique index, which would leave the
// root scope unguarded, and a position swap inside a reorder batch would trip
// a plain index mid-statement.
type Item struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind        string          `gorm:"type:varchar(16);not null;index" json:"type"`
	Title       string          `gorm:"type:varchar(512);not null" json:"title"`
	ParentID    *uint           `gorm:"index" json:"parent_id"`
	Position    float64         `gorm:"not null" json:"position"`
	DateAdded   time.Time       `gorm:"column:date_added;not null" json:"date_added"`
	LastUpdated time.Time       `gorm:"column:last_updated;not null;index" json:"last_updated"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	Detail      *BookmarkDetail `gorm:"foreignKey:ItemID" json:"-"`
}

func (Item) TableName() string {
	return "items"
}

// BookmarkDetail carries the bookmark-specific columns, joined to the base
// row by item id. Folders have no extension row.
type BookmarkDetail struct {
	ItemID      uint   `gorm:"primaryKey" json:"item_id"`
	URL         string `gorm:"type:varchar(2048);not null" json:"url"`
	Favicon     []byte `gorm:"type:blob" json:"-"`
	FaviconMime string `gorm:"type:varchar(64)" json:"-"`
}

func (BookmarkDetail) TableName() string {
	return "bookmark_details"
}
