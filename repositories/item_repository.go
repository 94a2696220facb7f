package repositories

import (
	"context"
	"errors"
	"time"

	"marksync/models"

	"gorm.io/gorm"
)

// GormItemRepository is stateless: every method operates on the per-principal
// store handle the caller obtained from the StoreManager, so one repository
// instance serves all principals.
type GormItemRepository struct{}

func NewGormItemRepository() *GormItemRepository {
	return &GormItemRepository{}
}

func (r *GormItemRepository) GetByID(_ context.Context, db *gorm.DB, itemID uint, kind string) (models.Item, error) {
	q := db.Preload("Detail").Where("id = ?", itemID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}

	var item models.Item
	err := q.First(&item).Error
	return item, err
}

func (r *GormItemRepository) ListByKind(_ context.Context, db *gorm.DB, kind string, parent *ParentFilter) ([]models.Item, error) {
	q := db.Preload("Detail").Where("kind = ?", kind)
	if parent != nil {
		if parent.Root {
			q = q.Where("parent_id IS NULL")
		} else {
			q = q.Where("parent_id = ?", parent.ParentID)
		}
	}

	var items []models.Item
	err := q.Order("position ASC").Find(&items).Error
	return items, err
}

func (r *GormItemRepository) ListChildren(_ context.Context, db *gorm.DB, parentID uint) ([]models.Item, error) {
	var items []models.Item
	err := db.Preload("Detail").Where("parent_id = ?", parentID).Order("position ASC").Find(&items).Error
	return items, err
}

func (r *GormItemRepository) MaxPosition(_ context.Context, db *gorm.DB, parentID *uint) (*float64, error) {
	q := db.Model(&models.Item{})
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}

	var item models.Item
	err := q.Order("position DESC").Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item.Position, nil
}

func (r *GormItemRepository) CountAtPosition(_ context.Context, db *gorm.DB, parentID *uint, position float64, excludeID uint) (int64, error) {
	q := db.Model(&models.Item{}).Where("position = ?", position)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}

// HasDuplicateSiblings reports whether any live sibling pair shares a
// position. SQLite GROUP BY treats NULL parent_id values as one scope, which
// is exactly the root-scope semantics the unique index cannot express.
func (r *GormItemRepository) HasDuplicateSiblings(_ context.Context, db *gorm.DB) (bool, error) {
	var count int64
	err := db.Raw(
		`SELECT COUNT(*) FROM (
			SELECT parent_id, position, COUNT(*) AS n
			FROM items
			WHERE deleted_at IS NULL
			GROUP BY parent_id, position
			HAVING n > 1
		)`,
	).Scan(&count).Error
	return count > 0, err
}

func (r *GormItemRepository) Create(_ context.Context, db *gorm.DB, item *models.Item) error {
	return db.Create(item).Error
}

func (r *GormItemRepository) Save(_ context.Context, db *gorm.DB, item *models.Item) error {
	if err := db.Omit("Detail").Save(item).Error; err != nil {
		return err
	}
	if item.Detail != nil {
		item.Detail.ItemID = item.ID
		if err := db.Save(item.Detail).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormItemRepository) UpdateFields(_ context.Context, db *gorm.DB, itemID uint, updates map[string]interface{}) error {
	return db.Unscoped().Model(&models.Item{}).Where("id = ?", itemID).Updates(updates).Error
}

func (r *GormItemRepository) ListChangedSince(_ context.Context, db *gorm.DB, kind string, since time.Time) ([]models.Item, error) {
	var items []models.Item
	err := db.Preload("Detail").
		Where("kind = ? AND last_updated > ?", kind, since).
		Order("position ASC").
		Find(&items).Error
	return items, err
}

func (r *GormItemRepository) ListDeletedIDsSince(_ context.Context, db *gorm.DB, since time.Time) ([]uint, error) {
	var ids []uint
	err := db.Unscoped().Model(&models.Item{}).
		Where("deleted_at IS NOT NULL AND last_updated > ?", since).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *GormItemRepository) MaxLastUpdated(_ context.Context, db *gorm.DB) (*time.Time, error) {
	var item models.Item
	err := db.Unscoped().Order("last_updated DESC").Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item.LastUpdated, nil
}

func (r *GormItemRepository) PurgeAll(_ context.Context, db *gorm.DB) error {
	if err := db.Unscoped().Where("1 = 1").Delete(&models.BookmarkDetail{}).Error; err != nil {
		return err
	}
	return db.Unscoped().Where("1 = 1").Delete(&models.Item{}).Error
}
