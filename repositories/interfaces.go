package repositories

import (
	"context"
	"time"

	"marksync/models"

	"gorm.io/gorm"
)

// StoreManager hands out the isolated per-principal store and runs
// transactions against it. Every mutating operation goes through
// WithTransaction so a failure rolls the whole write back.
type StoreManager interface {
	Handle(ctx context.Context, sub string) (*gorm.DB, error)
	WithTransaction(ctx context.Context, sub string, fn func(tx *gorm.DB) error) error
}

// ParentFilter narrows a listing to one sibling scope. Root selects items
// with no parent; a nil filter means no scoping at all.
type ParentFilter struct {
	Root     bool
	ParentID uint
}

type ItemRepository interface {
	GetByID(ctx context.Context, db *gorm.DB, itemID uint, kind string) (models.Item, error)
	ListByKind(ctx context.Context, db *gorm.DB, kind string, parent *ParentFilter) ([]models.Item, error)
	ListChildren(ctx context.Context, db *gorm.DB, parentID uint) ([]models.Item, error)
	MaxPosition(ctx context.Context, db *gorm.DB, parentID *uint) (*float64, error)
	CountAtPosition(ctx context.Context, db *gorm.DB, parentID *uint, position float64, excludeID uint) (int64, error)
	HasDuplicateSiblings(ctx context.Context, db *gorm.DB) (bool, error)
	Create(ctx context.Context, db *gorm.DB, item *models.Item) error
	Save(ctx context.Context, db *gorm.DB, item *models.Item) error
	UpdateFields(ctx context.Context, db *gorm.DB, itemID uint, updates map[string]interface{}) error
	ListChangedSince(ctx context.Context, db *gorm.DB, kind string, since time.Time) ([]models.Item, error)
	ListDeletedIDsSince(ctx context.Context, db *gorm.DB, since time.Time) ([]uint, error)
	MaxLastUpdated(ctx context.Context, db *gorm.DB) (*time.Time, error)
	PurgeAll(ctx context.Context, db *gorm.DB) error
}

type SettingsRepository interface {
	Get(ctx context.Context, db *gorm.DB) (models.Settings, error)
	Create(ctx context.Context, db *gorm.DB, settings *models.Settings) error
	Save(ctx context.Context, db *gorm.DB, settings *models.Settings) error
	Purge(ctx context.Context, db *gorm.DB) error
}

type UserRepository interface {
	GetBySub(ctx context.Context, sub string) (models.UserRecord, error)
	Upsert(ctx context.Context, user *models.UserRecord) error
}

// OAuthStateRepository stores single-use login state nonces with a TTL.
type OAuthStateRepository interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	Consume(ctx context.Context, state string) (bool, error)
}

type Container struct {
	Stores      StoreManager
	Items       ItemRepository
	Settings    SettingsRepository
	Users       UserRepository
	OAuthStates OAuthStateRepository
}
