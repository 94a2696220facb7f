package services

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"marksync/models"
	"marksync/repositories"
	"marksync/utils"

	"gorm.io/gorm"
)

// BookmarkOutput is the wire shape of a bookmark; the stored favicon blob is
// re-encoded as a data URL.
type BookmarkOutput struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Favicon     *string   `json:"favicon"`
	DateAdded   time.Time `json:"date_added"`
	ParentID    *uint     `json:"parent_id"`
	Position    float64   `json:"position"`
	LastUpdated time.Time `json:"last_updated"`
}

type FolderOutput struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	DateAdded   time.Time `json:"date_added"`
	ParentID    *uint     `json:"parent_id"`
	Position    float64   `json:"position"`
	LastUpdated time.Time `json:"last_updated"`
}

func bookmarkOutput(item models.Item) BookmarkOutput {
	out := BookmarkOutput{
		ID:          item.ID,
		Type:        item.Kind,
		Title:       item.Title,
		DateAdded:   item.DateAdded,
		ParentID:    item.ParentID,
		Position:    item.Position,
		LastUpdated: item.LastUpdated,
	}
	if item.Detail != nil {
		out.URL = item.Detail.URL
		out.Favicon = utils.FaviconDataURL(item.Detail.Favicon, item.Detail.FaviconMime)
	}
	return out
}

func folderOutput(item models.Item) FolderOutput {
	return FolderOutput{
		ID:          item.ID,
		Type:        item.Kind,
		Title:       item.Title,
		DateAdded:   item.DateAdded,
		ParentID:    item.ParentID,
		Position:    item.Position,
		LastUpdated: item.LastUpdated,
	}
}

func bookmarkOutputs(items []models.Item) []BookmarkOutput {
	out := make([]BookmarkOutput, 0, len(items))
	for _, item := range items {
		out = append(out, bookmarkOutput(item))
	}
	return out
}

func folderOutputs(items []models.Item) []FolderOutput {
	out := make([]FolderOutput, 0, len(items))
	for _, item := range items {
		out = append(out, folderOutput(item))
	}
	return out
}

// parseParentFilter turns a ?folder_id= query value into a sibling scope.
// "root" selects items without a parent; anything else must be an id.
func parseParentFilter(raw *string) (*repositories.ParentFilter, error) {
	if raw == nil {
		return nil, nil
	}
	if *raw == "root" {
		return &repositories.ParentFilter{Root: true}, nil
	}
	id, err := strconv.ParseUint(*raw, 10, 32)
	if err != nil {
		return nil, newValidationError("folder_id must be an integer or 'root'")
	}
	return &repositories.ParentFilter{ParentID: uint(id)}, nil
}

// tombstoneItem soft-deletes one item inside the caller's transaction:
// direct live children are reparented to root with their own clock bump,
// then the item itself gets its tombstone. A sibling collision caused by the
// orphaning aborts the whole transaction.
func tombstoneItem(ctx context.Context, tx *gorm.DB, items repositories.ItemRepository, item models.Item, now time.Time) error {
	children, err := items.ListChildren(ctx, tx, item.ID)
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to load children", err)
	}

	for _, child := range children {
		err := items.UpdateFields(ctx, tx, child.ID, map[string]interface{}{
			"parent_id":    nil,
			"last_updated": now,
		})
		if err != nil {
			return newAppError(http.StatusInternalServerError, "failed to reparent child", err)
		}
	}

	err = items.UpdateFields(ctx, tx, item.ID, map[string]interface{}{
		"deleted_at":   now,
		"last_updated": now,
	})
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to delete item", err)
	}

	dup, err := items.HasDuplicateSiblings(ctx, tx)
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to verify sibling positions", err)
	}
	if dup {
		return newConflictError("position conflict when moving orphaned items to root")
	}
	return nil
}
