package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"marksync/models"
	"marksync/repositories"
	"marksync/utils"

	"gorm.io/gorm"
)

type FolderCreateInput struct {
	Title    string
	ParentID *uint
	Position *float64
}

type FolderPatchInput struct {
	Title    utils.Optional[string]
	ParentID utils.Optional[uint]
	Position utils.Optional[float64]
}

// FolderDetailOutput is a folder together with its live child bookmarks,
// ordered by position.
type FolderDetailOutput struct {
	FolderOutput
	Bookmarks []BookmarkOutput `json:"bookmarks"`
}

type FolderService interface {
	ListFolders(ctx context.Context, sub string) ([]FolderOutput, error)
	CreateFolder(ctx context.Context, sub string, in FolderCreateInput) (FolderOutput, error)
	GetFolder(ctx context.Context, sub string, folderID uint) (FolderDetailOutput, error)
	ReplaceFolder(ctx context.Context, sub string, folderID uint, in FolderCreateInput) (FolderOutput, error)
	PatchFolder(ctx context.Context, sub string, folderID uint, in FolderPatchInput) (FolderOutput, error)
	DeleteFolder(ctx context.Context, sub string, folderID uint) error
}

type folderService struct {
	stores StoreManager
	items  repositories.ItemRepository
}

func NewFolderService(stores StoreManager, items repositories.ItemRepository) FolderService {
	return &folderService{stores: stores, items: items}
}

func (s *folderService) ListFolders(ctx context.Context, sub string) ([]FolderOutput, error) {
	db, err := s.stores.Handle(ctx, sub)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to open store", err)
	}

	items, err := s.items.ListByKind(ctx, db, models.KindFolder, nil)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to list folders", err)
	}
	return folderOutputs(items), nil
}

func (s *folderService) CreateFolder(ctx context.Context, sub string, in FolderCreateInput) (FolderOutput, error) {
	now := time.Now().UTC()
	item := models.Item{
		Kind:        models.KindFolder,
		Title:       in.Title,
		ParentID:    in.ParentID,
		DateAdded:   now,
		LastUpdated: now,
	}

	err := s.stores.WithTransaction(ctx, sub, func(tx *gorm.DB) error {
		if in.Position != nil {
			item.Position = *in.Position
		} else {
			position, err := nextPosition(ctx, tx, s.items, in.ParentID)
			if err != nil {
				return newAppError(http.StatusInternalServerError, "failed to allocate position", err)
			}
			item.Position = position
		}

		taken, err := s.items.CountAtPosition(ctx, tx, item.ParentID, item.Position, 0)
		if err != nil {
			return newAppError(http.StatusInternalServerError, "failed to check position", err)
		}
		if taken > 0 {
			return newConflictError("position conflict")
		}

		if err := s.items.Create(ctx, tx, &item); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return newConflictError("position conflict")
			}
			return newAppError(http.StatusInternalServerError, "failed to create folder", err)
		}
		return nil
	})
	if err != nil {
		return FolderOutput{}, asAppError(err)
	}
	return folderOutput(item), nil
}

func (s *folderService) GetFolder(ctx context.Context, sub string, folderID uint) (FolderDetailOutput, error) {
	db, err := s.stores.Handle(ctx, sub)
	if err != nil {
		return FolderDetailOutput{}, newAppError(http.StatusInternalServerError, "failed to open store", err)
	}

	item, err := s.items.GetByID(ctx, db, folderID, models.KindFolder)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FolderDetailOutput{}, newNotFoundError("folder not found")
		}
		return FolderDetailOutput{}, newAppError(http.StatusInternalServerError, "failed to load folder", err)
	}

	children, err := s.items.ListByKind(ctx, db, models.KindBookmark, &repositories.ParentFilter{ParentID: folderID})
	if err != nil {
		return FolderDetailOutput{}, newAppError(http.StatusInternalServerError, "failed to load folder bookmarks", err)
	}

	return FolderDetailOutput{
		FolderOutput: folderOutput(item),
		Bookmarks:    bookmarkOutputs(children),
	}, nil
}

func (s *folderService) ReplaceFolder(ctx context.Context, sub string, folderID uint, in FolderCreateInput) (FolderOutput, error) {
	var item models.Item
	err := s.stores.WithTransaction(ctx, sub, func(tx *gorm.DB) error {
		var err error
		item, err = s.items.GetByID(ctx, tx, folderID, models.KindFolder)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newNotFoundError("folder not found")
			}
			return newAppError(http.StatusInternalServerError, "failed to load folder", err)
		}

		item.Title = in.Title
		item.ParentID = in.ParentID
		if in.Position != nil {
			item.Position = *in.Position
		}
		item.LastUpdated = time.Now().UTC()

		return s.saveWithSiblingCheck(ctx, tx, &item)
	})
	if err != nil {
		return FolderOutput{}, asAppError(err)
	}
	return folderOutput(item), nil
}

func (s *folderService) PatchFolder(ctx context.Context, sub string, folderID uint, in FolderPatchInput) (FolderOutput, error) {
	if in.Title.Present && in.Title.Value == nil {
		return FolderOutput{}, newValidationError("title cannot be null")
	}
	if in.Position.Present && in.Position.Value == nil {
		return FolderOutput{}, newValidationError("position cannot be null")
	}

	var item models.Item
	err := s.stores.WithTransaction(ctx, sub, func(tx *gorm.DB) error {
		var err error
		item, err = s.items.GetByID(ctx, tx, folderID, models.KindFolder)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newNotFoundError("folder not found")
			}
			return newAppError(http.StatusInternalServerError, "failed to load folder", err)
		}

		if in.Title.Present {
			item.Title = *in.Title.Value
		}
		if in.ParentID.Present {
			item.ParentID = in.ParentID.Value
		}
		if in.Position.Present {
			item.Position = *in.Position.Value
		}
		item.LastUpdated = time.Now().UTC()

		return s.saveWithSiblingCheck(ctx, tx, &item)
	})
	if err != nil {
		return FolderOutput{}, asAppError(err)
	}
	return folderOutput(item), nil
}

// DeleteFolder tombstones the folder and moves its direct live children to
// root; the children stay live with a bumped clock so sync picks them up.
func (s *folderService) DeleteFolder(ctx context.Context, sub string, folderID uint) error {
	err := s.stores.WithTransaction(ctx, sub, func(tx *gorm.DB) error {
		item, err := s.items.GetByID(ctx, tx, folderID, models.KindFolder)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newNotFoundError("folder not found")
			}
			return newAppError(http.StatusInternalServerError, "failed to load folder", err)
		}
		return tombstoneItem(ctx, tx, s.items, item, time.Now().UTC())
	})
	return asAppError(err)
}

func (s *folderService) saveWithSiblingCheck(ctx context.Context, tx *gorm.DB, item *models.Item) error {
	taken, err := s.items.CountAtPosition(ctx, tx, item.ParentID, item.Position, item.ID)
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to check position", err)
	}
	if taken > 0 {
		return newConflictError("position conflict")
	}
	if err := s.items.Save(ctx, tx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return newConflictError("position conflict")
		}
		return newAppError(http.StatusInternalServerError, "failed to save folder", err)
	}
	return nil
}
