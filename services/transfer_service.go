package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"marksync/models"
	"marksync/repositories"
	"marksync/utils"

	"gorm.io/gorm"
)

type SnapshotBookmark struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Favicon   *string   `json:"favicon"`
	DateAdded time.Time `json:"date_added"`
	ParentID  *uint     `json:"parent_id"`
	Position  float64   `json:"position"`
}

type SnapshotFolder struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	DateAdded time.Time `json:"date_added"`
	ParentID  *uint     `json:"parent_id"`
	Position  float64   `json:"position"`
}

type SnapshotSettings struct {
	ShowTitles    bool `json:"show_titles"`
	TilesPerRow   int  `json:"tiles_per_row"`
	TileGap       int  `json:"tile_gap"`
	ShowAddButton bool `json:"show_add_button"`
}

// Snapshot is the full-state dump: every live item kept by kind plus the
// settings row, independent of any sync watermark.
type Snapshot struct {
	Bookmarks  []SnapshotBookmark `json:"bookmarks"`
	Folders    []SnapshotFolder   `json:"folders"`
	Settings   *SnapshotSettings  `json:"settings"`
	ExportDate time.Time          `json:"export_date"`
	Version    int                `json:"version"`
}

type TransferService interface {
	ExportAll(ctx context.Context, sub string) (Snapshot, error)
	ImportAll(ctx context.Context, sub string, snapshot Snapshot) error
}

type transferService struct {
	stores   StoreManager
	items    repositories.ItemRepository
	settings repositories.SettingsRepository
}

func NewTransferService(stores StoreManager, items repositories.ItemRepository, settings repositories.SettingsRepository) TransferService {
	return &transferService{stores: stores, items: items, settings: settings}
}

func (s *transferService) ExportAll(ctx context.Context, sub string) (Snapshot, error) {
	db, err := s.stores.Handle(ctx, sub)
	if err != nil {
		return Snapshot{}, newAppError(http.StatusInternalServerError, "failed to open store", err)
	}

	bookmarks, err := s.items.ListByKind(ctx, db, models.KindBookmark, nil)
	if err != nil {
		return Snapshot{}, newAppError(http.StatusInternalServerError, "failed to export bookmarks", err)
	}
	folders, err := s.items.ListByKind(ctx, db, models.KindFolder, nil)
	if err != nil {
		return Snapshot{}, newAppError(http.StatusInternalServerError, "failed to export folders", err)
	}

	snapshot := Snapshot{
		Bookmarks:  make([]SnapshotBookmark, 0, len(bookmarks)),
		Folders:    make([]SnapshotFolder, 0, len(folders)),
		ExportDate: time.Now().UTC(),
		Version:    1,
	}
	for _, item := range bookmarks {
		b := SnapshotBookmark{
			ID:        item.ID,
			Title:     item.Title,
			DateAdded: item.DateAdded,
			ParentID:  item.ParentID,
			Position:  item.Position,
		}
		if item.Detail != nil {
			b.URL = item.Detail.URL
			b.Favicon = utils.FaviconDataURL(item.Detail.Favicon, item.Detail.FaviconMime)
		}
		snapshot.Bookmarks = append(snapshot.Bookmarks, b)
	}
	for _, item := range folders {
		snapshot.Folders = append(snapshot.Folders, SnapshotFolder{
			ID:        item.ID,
			Title:     item.Title,
			DateAdded: item.DateAdded,
			ParentID:  item.ParentID,
			Position:  item.Position,
		})
	}

	settings, err := s.settings.Get(ctx, db)
	if err == nil {
		snapshot.Settings = &SnapshotSettings{
			ShowTitles:    settings.ShowTitles,
			TilesPerRow:   settings.TilesPerRow,
			TileGap:       settings.TileGap,
			ShowAddButton: settings.ShowAddButton,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Snapshot{}, newAppError(http.StatusInternalServerError, "failed to export settings", err)
	}

	return snapshot, nil
}

// ImportAll replaces the principal's whole store with the snapshot: purge,
// then re-insert every item preserving id, kind, hierarchy and position. Any
// failure, including a snapshot that violates sibling uniqueness, rolls the
// whole import back.
func (s *transferService) ImportAll(ctx context.Context, sub string, snapshot Snapshot) error {
	// Decode favicons up front so a malformed one rejects the import
	// before any write happens.
	favicons := make(map[uint]*models.BookmarkDetail, len(snapshot.Bookmarks))
	for _, b := range snapshot.Bookmarks {
		detail := &models.BookmarkDetail{ItemID: b.ID, URL: b.URL}
		if b.Favicon != nil {
			raw, mime, err := utils.ParseFaviconDataURL(*b.Favicon)
			if err != nil {
				return newValidationError(fmt.Sprintf("bookmark %d: %v", b.ID, err))
			}
			detail.Favicon = raw
			detail.FaviconMime = mime
		}
		favicons[b.ID] = detail
	}

	err := s.stores.WithTransaction(ctx, sub, func(tx *gorm.DB) error {
		if err := s.items.PurgeAll(ctx, tx); err != nil {
			return newAppError(http.StatusInternalServerError, "failed to clear items", err)
		}
		if err := s.settings.Purge(ctx, tx); err != nil {
			return newAppError(http.StatusInternalServerError, "failed to clear settings", err)
		}

		now := time.Now().UTC()

		for _, f := range snapshot.Folders {
			item := models.Item{
				ID:          f.ID,
				Kind:        models.KindFolder,
				Title:       f.Title,
				ParentID:    f.ParentID,
				Position:    f.Position,
				DateAdded:   f.DateAdded,
				LastUpdated: now,
			}
			if err := s.items.Create(ctx, tx, &item); err != nil {
				return newAppError(http.StatusInternalServerError, "failed to import folder", err)
			}
		}

		for _, b := range snapshot.Bookmarks {
			item := models.Item{
				ID:          b.ID,
				Kind:        models.KindBookmark,
				Title:       b.Title,
				ParentID:    b.ParentID,
				Position:    b.Position,
				DateAdded:   b.DateAdded,
				LastUpdated: now,
				Detail:      favicons[b.ID],
			}
			if err := s.items.Create(ctx, tx, &item); err != nil {
				return newAppError(http.StatusInternalServerError, "failed to import bookmark", err)
			}
		}

		if snapshot.Settings != nil {
			settings := models.Settings{
				ID:            models.SettingsRowID,
				ShowTitles:    snapshot.Settings.ShowTitles,
				TilesPerRow:   snapshot.Settings.TilesPerRow,
				TileGap:       snapshot.Settings.TileGap,
				ShowAddButton: snapshot.Settings.ShowAddButton,
				LastUpdated:   now,
			}
			if err := s.settings.Create(ctx, tx, &settings); err != nil {
				return newAppError(http.StatusInternalServerError, "failed to import settings", err)
			}
		}

		dup, err := s.items.HasDuplicateSiblings(ctx, tx)
		if err != nil {
			return newAppError(http.StatusInternalServerError, "failed to verify sibling positions", err)
		}
		if dup {
			return newConflictError("snapshot contains conflicting sibling positions")
		}
		return nil
	})
	return asAppError(err)
}
