package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"marksync/repositories"

	"gorm.io/gorm"
)

type ReorderEntry struct {
	ID       uint    `json:"id"`
	Position float64 `json:"position"`
}

// ReorderService applies a batch of position reassignments in one
// transaction. One unknown id or one resulting sibling collision aborts the
// whole batch; no partial application is ever observable. Collisions are not
// resolved here: the caller chooses positions that keep siblings distinct.
type ReorderService interface {
	ApplyReorder(ctx context.Context, sub string, entries []ReorderEntry) error
}

type reorderService struct {
	stores StoreManager
	items  repositories.ItemRepository
}

func NewReorderService(stores StoreManager, items repositories.ItemRepository) ReorderService {
	return &reorderService{stores: stores, items: items}
}

func (s *reorderService) ApplyReorder(ctx context.Context, sub string, entries []ReorderEntry) error {
	err := s.stores.WithTransaction(ctx, sub, func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, entry := range entries {
			item, err := s.items.GetByID(ctx, tx, entry.ID, "")
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return newNotFoundError(fmt.Sprintf("item %d not found", entry.ID))
				}
				return newAppError(http.StatusInternalServerError, "failed to load item", err)
			}

			err = s.items.UpdateFields(ctx, tx, item.ID, map[string]interface{}{
				"position":     entry.Position,
				"last_updated": now,
			})
			if err != nil {
				return newAppError(http.StatusInternalServerError, "failed to update position", err)
			}
		}

		dup, err := s.items.HasDuplicateSiblings(ctx, tx)
		if err != nil {
			return newAppError(http.StatusInternalServerError, "failed to verify sibling positions", err)
		}
		if dup {
			return newConflictError("position conflict during reorder")
		}
		return nil
	})
	return asAppError(err)
}
