package services

import (
	"context"

	"marksync/repositories"

	"gorm.io/gorm"
)

// nextPosition allocates the append slot for a sibling scope: one past the
// highest live position, or 1.0 for an empty scope. The root scope
// (parentID nil) is shared by bookmarks and folders. Callers that supply an
// explicit position bypass the allocator entirely.
func nextPosition(ctx context.Context, db *gorm.DB, items repositories.ItemRepository, parentID *uint) (float64, error) {
	max, err := items.MaxPosition(ctx, db, parentID)
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1.0, nil
	}
	return *max + 1.0, nil
}
