package services

import (
	"context"
	"net/http"
	"testing"
)

func newReorderFixture() (*fakeStore, ReorderService, BookmarkService, FolderService) {
	store := newFakeStore()
	manager := &fakeStoreManager{store: store}
	items := &fakeItemRepo{store: store}
	return store, NewReorderService(manager, items), NewBookmarkService(manager, items), NewFolderService(manager, items)
}

func TestReorderSwapsSiblingPositions(t *testing.T) {
	store, reorder, bookmarks, _ := newReorderFixture()
	ctx := context.Background()

	first, err := bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "a", URL: "https://a.test"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "b", URL: "https://b.test"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = reorder.ApplyReorder(ctx, "user1", []ReorderEntry{
		{ID: first.ID, Position: 2.0},
		{ID: second.ID, Position: 1.0},
	})
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	if store.items[first.ID].Position != 2.0 || store.items[second.ID].Position != 1.0 {
		t.Fatalf("expected swapped positions, got %v and %v",
			store.items[first.ID].Position, store.items[second.ID].Position)
	}
}

func TestReorderMixesKinds(t *testing.T) {
	store, reorder, bookmarks, folders := newReorderFixture()
	ctx := context.Background()

	bookmark, err := bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "a", URL: "https://a.test"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	folder, err := folders.CreateFolder(ctx, "user1", FolderCreateInput{Title: "work"})
	if err != nil {
		t.Fatalf("create folder failed: %v", err)
	}

	err = reorder.ApplyReorder(ctx, "user1", []ReorderEntry{
		{ID: bookmark.ID, Position: 2.0},
		{ID: folder.ID, Position: 1.0},
	})
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	if store.items[folder.ID].Position != 1.0 {
		t.Fatalf("expected folder position 1.0, got %v", store.items[folder.ID].Position)
	}
}

func TestReorderUnknownIDRollsBack(t *testing.T) {
	store, reorder, bookmarks, _ := newReorderFixture()
	ctx := context.Background()

	bookmark, err := bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "a", URL: "https://a.test"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = reorder.ApplyReorder(ctx, "user1", []ReorderEntry{
		{ID: bookmark.ID, Position: 9.0},
		{ID: 999, Position: 1.0},
	})
	expectAppError(t, err, http.StatusNotFound)

	if store.items[bookmark.ID].Position != 1.0 {
		t.Fatalf("failed batch must not apply partially, got position %v", store.items[bookmark.ID].Position)
	}
}

func TestReorderSiblingCollisionRollsBack(t *testing.T) {
	store, reorder, bookmarks, _ := newReorderFixture()
	ctx := context.Background()

	first, err := bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "a", URL: "https://a.test"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "b", URL: "https://b.test"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = reorder.ApplyReorder(ctx, "user1", []ReorderEntry{
		{ID: second.ID, Position: 1.0},
	})
	expectAppError(t, err, http.StatusConflict)

	if store.items[first.ID].Position != 1.0 || store.items[second.ID].Position != 2.0 {
		t.Fatalf("failed batch must restore prior positions, got %v and %v",
			store.items[first.ID].Position, store.items[second.ID].Position)
	}
}

func TestReorderTombstonedItemNotFound(t *testing.T) {
	_, reorder, bookmarks, _ := newReorderFixture()
	ctx := context.Background()

	bookmark, err := bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "a", URL: "https://a.test"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := bookmarks.DeleteBookmark(ctx, "user1", bookmark.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	err = reorder.ApplyReorder(ctx, "user1", []ReorderEntry{{ID: bookmark.ID, Position: 3.0}})
	expectAppError(t, err, http.StatusNotFound)
}
