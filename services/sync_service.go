package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"marksync/models"
	"marksync/repositories"

	"gorm.io/gorm"
)

// ChangesOutput is the delta-sync answer. NotModified short-circuits the
// body; otherwise Bookmarks/Folders hold the changed live items (everything
// on a full pull), DeletedIDs the tombstones the caller has not seen yet, and
// Watermark the resource clock to echo back next time. A completely empty
// store answers as an empty full result with no watermark, never as
// NotModified.
type ChangesOutput struct {
	NotModified bool             `json:"-"`
	Bookmarks   []BookmarkOutput `json:"bookmarks"`
	Folders     []FolderOutput   `json:"folders"`
	Settings    *SettingsOutput  `json:"settings"`
	DeletedIDs  []uint           `json:"deleted_ids"`
	Watermark   *time.Time       `json:"-"`
}

type SyncService interface {
	ComputeChanges(ctx context.Context, sub string, since *time.Time) (ChangesOutput, error)
}

type syncService struct {
	stores   StoreManager
	items    repositories.ItemRepository
	settings repositories.SettingsRepository
}

func NewSyncService(stores StoreManager, items repositories.ItemRepository, settings repositories.SettingsRepository) SyncService {
	return &syncService{stores: stores, items: items, settings: settings}
}

func (s *syncService) ComputeChanges(ctx context.Context, sub string, since *time.Time) (ChangesOutput, error) {
	db, err := s.stores.Handle(ctx, sub)
	if err != nil {
		return ChangesOutput{}, newAppError(http.StatusInternalServerError, "failed to open store", err)
	}

	maxItemTS, err := s.items.MaxLastUpdated(ctx, db)
	if err != nil {
		return ChangesOutput{}, newAppError(http.StatusInternalServerError, "failed to compute watermark", err)
	}

	var settings *models.Settings
	current, err := s.settings.Get(ctx, db)
	if err == nil {
		settings = &current
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ChangesOutput{}, newAppError(http.StatusInternalServerError, "failed to load settings", err)
	}

	watermark := maxItemTS
	if settings != nil && (watermark == nil || settings.LastUpdated.After(*watermark)) {
		ts := settings.LastUpdated
		watermark = &ts
	}

	out := ChangesOutput{
		Bookmarks:  []BookmarkOutput{},
		Folders:    []FolderOutput{},
		DeletedIDs: []uint{},
		Watermark:  watermark,
	}

	// No data at all: there is no watermark to compare against, so the
	// store always looks fully synced and empty.
	if watermark == nil {
		return out, nil
	}

	if since != nil && !watermark.After(*since) {
		out.NotModified = true
		return out, nil
	}

	if since == nil {
		bookmarks, err := s.items.ListByKind(ctx, db, models.KindBookmark, nil)
		if err != nil {
			return ChangesOutput{}, newAppError(http.StatusInternalServerError, "failed to list bookmarks", err)
		}
		folders, err := s.items.ListByKind(ctx, db, models.KindFolder, nil)
		if err != nil {
			return ChangesOutput{}, newAppError(http.StatusInternalServerError, "failed to list folders", err)
		}
		out.Bookmarks = bookmarkOutputs(bookmarks)
		out.Folders = folderOutputs(folders)
		if settings != nil {
			v := settingsOutput(*settings)
			out.Settings = &v
		}
		return out, nil
	}

	bookmarks, err := s.items.ListChangedSince(ctx, db, models.KindBookmark, *since)
	if err != nil {
		return ChangesOutput{}, newAppError(http.StatusInternalServerError, "failed to list changed bookmarks", err)
	}
	folders, err := s.items.ListChangedSince(ctx, db, models.KindFolder, *since)
	if err != nil {
		return ChangesOutput{}, newAppError(http.StatusInternalServerError, "failed to list changed folders", err)
	}
	deletedIDs, err := s.items.ListDeletedIDsSince(ctx, db, *since)
	if err != nil {
		return ChangesOutput{}, newAppError(http.StatusInternalServerError, "failed to list deleted items", err)
	}

	out.Bookmarks = bookmarkOutputs(bookmarks)
	out.Folders = folderOutputs(folders)
	out.DeletedIDs = deletedIDs
	if settings != nil && settings.LastUpdated.After(*since) {
		v := settingsOutput(*settings)
		out.Settings = &v
	}
	return out, nil
}
