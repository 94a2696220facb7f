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

type BookmarkCreateInput struct {
	Title    string
	URL      string
	Favicon  *string
	ParentID *uint
	Position *float64
}

// BookmarkPatchInput applies only fields present in the request payload.
// A present-but-null favicon clears it; a present-but-null parent moves the
// bookmark to root.
type BookmarkPatchInput struct {
	Title    utils.Optional[string]
	URL      utils.Optional[string]
	Favicon  utils.Optional[string]
	ParentID utils.Optional[uint]
	Position utils.Optional[float64]
}

type BookmarkService interface {
	ListBookmarks(ctx context.Context, sub string, folderFilter *string) ([]BookmarkOutput, error)
	CreateBookmark(ctx context.Context, sub string, in BookmarkCreateInput) (BookmarkOutput, error)
	GetBookmark(ctx context.Context, sub string, bookmarkID uint) (BookmarkOutput, error)
	ReplaceBookmark(ctx context.Context, sub string, bookmarkID uint, in BookmarkCreateInput) (BookmarkOutput, error)
	PatchBookmark(ctx context.Context, sub string, bookmarkID uint, in BookmarkPatchInput) (BookmarkOutput, error)
	DeleteBookmark(ctx context.Context, sub string, bookmarkID uint) error
}

type bookmarkService struct {
	stores StoreManager
	items  repositories.ItemRepository
}

func NewBookmarkService(stores StoreManager, items repositories.ItemRepository) BookmarkService {
	return &bookmarkService{stores: stores, items: items}
}

func (s *bookmarkService) ListBookmarks(ctx context.Context, sub string, folderFilter *string) ([]BookmarkOutput, error) {
	parent, err := parseParentFilter(folderFilter)
	if err != nil {
		return nil, err
	}

	db, err := s.stores.Handle(ctx, sub)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to open store", err)
	}

	items, err := s.items.ListByKind(ctx, db, models.KindBookmark, parent)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to list bookmarks", err)
	}
	return bookmarkOutputs(items), nil
}

func (s *bookmarkService) CreateBookmark(ctx context.Context, sub string, in BookmarkCreateInput) (BookmarkOutput, error) {
	detail := models.BookmarkDetail{URL: in.URL}
	if in.Favicon != nil {
		raw, mime, err := utils.ParseFaviconDataURL(*in.Favicon)
		if err != nil {
			return BookmarkOutput{}, newValidationError(err.Error())
		}
		detail.Favicon = raw
		detail.FaviconMime = mime
	}

	now := time.Now().UTC()
	item := models.Item{
		Kind:        models.KindBookmark,
		Title:       in.Title,
		ParentID:    in.ParentID,
		DateAdded:   now,
		LastUpdated: now,
		Detail:      &detail,
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
			return newAppError(http.StatusInternalServerError, "failed to create bookmark", err)
		}
		return nil
	})
	if err != nil {
		return BookmarkOutput{}, asAppError(err)
	}
	return bookmarkOutput(item), nil
}

func (s *bookmarkService) GetBookmark(ctx context.Context, sub string, bookmarkID uint) (BookmarkOutput, error) {
	db, err := s.stores.Handle(ctx, sub)
	if err != nil {
		return BookmarkOutput{}, newAppError(http.StatusInternalServerError, "failed to open store", err)
	}

	item, err := s.items.GetByID(ctx, db, bookmarkID, models.KindBookmark)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookmarkOutput{}, newNotFoundError("bookmark not found")
		}
		return BookmarkOutput{}, newAppError(http.StatusInternalServerError, "failed to load bookmark", err)
	}
	return bookmarkOutput(item), nil
}

func (s *bookmarkService) ReplaceBookmark(ctx context.Context, sub string, bookmarkID uint, in BookmarkCreateInput) (BookmarkOutput, error) {
	var favicon []byte
	var faviconMime string
	if in.Favicon != nil {
		raw, mime, err := utils.ParseFaviconDataURL(*in.Favicon)
		if err != nil {
			return BookmarkOutput{}, newValidationError(err.Error())
		}
		favicon = raw
		faviconMime = mime
	}

	var item models.Item
	err := s.stores.WithTransaction(ctx, sub, func(tx *gorm.DB) error {
		var err error
		item, err = s.items.GetByID(ctx, tx, bookmarkID, models.KindBookmark)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newNotFoundError("bookmark not found")
			}
			return newAppError(http.StatusInternalServerError, "failed to load bookmark", err)
		}

		item.Title = in.Title
		item.ParentID = in.ParentID
		if in.Position != nil {
			item.Position = *in.Position
		}
		if item.Detail == nil {
			item.Detail = &models.BookmarkDetail{ItemID: item.ID}
		}
		item.Detail.URL = in.URL
		item.Detail.Favicon = favicon
		item.Detail.FaviconMime = faviconMime
		item.LastUpdated = time.Now().UTC()

		return s.saveWithSiblingCheck(ctx, tx, &item)
	})
	if err != nil {
		return BookmarkOutput{}, asAppError(err)
	}
	return bookmarkOutput(item), nil
}

func (s *bookmarkService) PatchBookmark(ctx context.Context, sub string, bookmarkID uint, in BookmarkPatchInput) (BookmarkOutput, error) {
	if in.Title.Present && in.Title.Value == nil {
		return BookmarkOutput{}, newValidationError("title cannot be null")
	}
	if in.URL.Present && in.URL.Value == nil {
		return BookmarkOutput{}, newValidationError("url cannot be null")
	}
	if in.Position.Present && in.Position.Value == nil {
		return BookmarkOutput{}, newValidationError("position cannot be null")
	}

	var favicon []byte
	var faviconMime string
	if in.Favicon.Present && in.Favicon.Value != nil {
		raw, mime, err := utils.ParseFaviconDataURL(*in.Favicon.Value)
		if err != nil {
			return BookmarkOutput{}, newValidationError(err.Error())
		}
		favicon = raw
		faviconMime = mime
	}

	var item models.Item
	err := s.stores.WithTransaction(ctx, sub, func(tx *gorm.DB) error {
		var err error
		item, err = s.items.GetByID(ctx, tx, bookmarkID, models.KindBookmark)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newNotFoundError("bookmark not found")
			}
			return newAppError(http.StatusInternalServerError, "failed to load bookmark", err)
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
		if item.Detail == nil {
			item.Detail = &models.BookmarkDetail{ItemID: item.ID}
		}
		if in.URL.Present {
			item.Detail.URL = *in.URL.Value
		}
		if in.Favicon.Present {
			item.Detail.Favicon = favicon
			item.Detail.FaviconMime = faviconMime
		}
		item.LastUpdated = time.Now().UTC()

		return s.saveWithSiblingCheck(ctx, tx, &item)
	})
	if err != nil {
		return BookmarkOutput{}, asAppError(err)
	}
	return bookmarkOutput(item), nil
}

func (s *bookmarkService) DeleteBookmark(ctx context.Context, sub string, bookmarkID uint) error {
	err := s.stores.WithTransaction(ctx, sub, func(tx *gorm.DB) error {
		item, err := s.items.GetByID(ctx, tx, bookmarkID, models.KindBookmark)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newNotFoundError("bookmark not found")
			}
			return newAppError(http.StatusInternalServerError, "failed to load bookmark", err)
		}
		return tombstoneItem(ctx, tx, s.items, item, time.Now().UTC())
	})
	return asAppError(err)
}

// saveWithSiblingCheck persists the item after verifying no live sibling
// occupies its (parent, position) slot.
func (s *bookmarkService) saveWithSiblingCheck(ctx context.Context, tx *gorm.DB, item *models.Item) error {
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
		return newAppError(http.StatusInternalServerError, "failed to save bookmark", err)
	}
	return nil
}
