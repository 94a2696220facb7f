package services

import (
	"context"
	"testing"
	"time"
)

type syncFixture struct {
	store     *fakeStore
	sync      SyncService
	bookmarks BookmarkService
	folders   FolderService
	settings  SettingsService
}

func newSyncFixture() syncFixture {
	store := newFakeStore()
	manager := &fakeStoreManager{store: store}
	items := &fakeItemRepo{store: store}
	settingsRepo := &fakeSettingsRepo{store: store}
	return syncFixture{
		store:     store,
		sync:      NewSyncService(manager, items, settingsRepo),
		bookmarks: NewBookmarkService(manager, items),
		folders:   NewFolderService(manager, items),
		settings:  NewSettingsService(manager, settingsRepo),
	}
}

func TestChangesEmptyStoreAnswersEmptyFull(t *testing.T) {
	f := newSyncFixture()
	since := time.Now().UTC()

	changes, err := f.sync.ComputeChanges(context.Background(), "user1", &since)
	if err != nil {
		t.Fatalf("compute changes failed: %v", err)
	}
	if changes.NotModified {
		t.Fatal("an empty store must answer a full empty result, never 304")
	}
	if changes.Watermark != nil {
		t.Fatal("an empty store has no watermark")
	}
	if len(changes.Bookmarks) != 0 || len(changes.Folders) != 0 || len(changes.DeletedIDs) != 0 {
		t.Fatalf("expected empty result, got %+v", changes)
	}
}

func TestChangesFullPullWithoutSince(t *testing.T) {
	f := newSyncFixture()
	ctx := context.Background()

	if _, err := f.bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "a", URL: "https://a.test"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.folders.CreateFolder(ctx, "user1", FolderCreateInput{Title: "work"}); err != nil {
		t.Fatalf("create folder failed: %v", err)
	}
	if _, err := f.settings.GetSettings(ctx, "user1"); err != nil {
		t.Fatalf("get settings failed: %v", err)
	}

	changes, err := f.sync.ComputeChanges(ctx, "user1", nil)
	if err != nil {
		t.Fatalf("compute changes failed: %v", err)
	}
	if changes.NotModified {
		t.Fatal("a pull without If-Modified-Since is always a full answer")
	}
	if len(changes.Bookmarks) != 1 || len(changes.Folders) != 1 {
		t.Fatalf("full pull must carry everything, got %d bookmarks and %d folders", len(changes.Bookmarks), len(changes.Folders))
	}
	if changes.Settings == nil {
		t.Fatal("full pull must include settings when the row exists")
	}
	if changes.Watermark == nil {
		t.Fatal("expected a watermark")
	}
}

func TestChangesNotModifiedAtWatermark(t *testing.T) {
	f := newSyncFixture()
	ctx := context.Background()

	if _, err := f.bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "a", URL: "https://a.test"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	full, err := f.sync.ComputeChanges(ctx, "user1", nil)
	if err != nil {
		t.Fatalf("compute changes failed: %v", err)
	}

	again, err := f.sync.ComputeChanges(ctx, "user1", full.Watermark)
	if err != nil {
		t.Fatalf("compute changes failed: %v", err)
	}
	if !again.NotModified {
		t.Fatal("echoing the watermark back must answer not-modified")
	}
}

func TestChangesDeltaCarriesOnlyNewerItems(t *testing.T) {
	f := newSyncFixture()
	ctx := context.Background()

	if _, err := f.bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "old", URL: "https://old.test"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	full, err := f.sync.ComputeChanges(ctx, "user1", nil)
	if err != nil {
		t.Fatalf("compute changes failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	fresh, err := f.bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "new", URL: "https://new.test"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	delta, err := f.sync.ComputeChanges(ctx, "user1", full.Watermark)
	if err != nil {
		t.Fatalf("compute changes failed: %v", err)
	}
	if delta.NotModified {
		t.Fatal("a newer write must not answer not-modified")
	}
	if len(delta.Bookmarks) != 1 || delta.Bookmarks[0].ID != fresh.ID {
		t.Fatalf("delta must carry only the newer bookmark, got %+v", delta.Bookmarks)
	}
	if delta.Settings != nil {
		t.Fatal("unchanged settings must stay out of the delta")
	}
}

func TestChangesDeltaCarriesTombstonesAndOrphans(t *testing.T) {
	f := newSyncFixture()
	ctx := context.Background()

	folder, err := f.folders.CreateFolder(ctx, "user1", FolderCreateInput{Title: "work"})
	if err != nil {
		t.Fatalf("create folder failed: %v", err)
	}
	child, err := f.bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "a", URL: "https://a.test", ParentID: uintPtr(folder.ID)})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	full, err := f.sync.ComputeChanges(ctx, "user1", nil)
	if err != nil {
		t.Fatalf("compute changes failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if err := f.folders.DeleteFolder(ctx, "user1", folder.ID); err != nil {
		t.Fatalf("delete folder failed: %v", err)
	}

	delta, err := f.sync.ComputeChanges(ctx, "user1", full.Watermark)
	if err != nil {
		t.Fatalf("compute changes failed: %v", err)
	}
	if len(delta.DeletedIDs) != 1 || delta.DeletedIDs[0] != folder.ID {
		t.Fatalf("delta must carry the folder tombstone id, got %v", delta.DeletedIDs)
	}
	if len(delta.Bookmarks) != 1 || delta.Bookmarks[0].ID != child.ID {
		t.Fatalf("delta must carry the reparented child, got %+v", delta.Bookmarks)
	}
	if delta.Bookmarks[0].ParentID != nil {
		t.Fatal("reparented child must report a root parent")
	}
}

func TestChangesDeltaOrderedByPosition(t *testing.T) {
	f := newSyncFixture()
	ctx := context.Background()

	if _, err := f.bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "old", URL: "https://o.test", Position: floatPtr(1.0)}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	full, err := f.sync.ComputeChanges(ctx, "user1", nil)
	if err != nil {
		t.Fatalf("compute changes failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := f.bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "late", URL: "https://l.test", Position: floatPtr(4.0)}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "early", URL: "https://e.test", Position: floatPtr(2.0)}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	delta, err := f.sync.ComputeChanges(ctx, "user1", full.Watermark)
	if err != nil {
		t.Fatalf("compute changes failed: %v", err)
	}
	if len(delta.Bookmarks) != 2 {
		t.Fatalf("expected both new bookmarks in the delta, got %d", len(delta.Bookmarks))
	}
	if delta.Bookmarks[0].Title != "early" || delta.Bookmarks[1].Title != "late" {
		t.Fatalf("delta must be ordered by position, got %q then %q", delta.Bookmarks[0].Title, delta.Bookmarks[1].Title)
	}
}

func TestChangesSettingsPatchMovesWatermark(t *testing.T) {
	f := newSyncFixture()
	ctx := context.Background()

	if _, err := f.bookmarks.CreateBookmark(ctx, "user1", BookmarkCreateInput{Title: "a", URL: "https://a.test"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	full, err := f.sync.ComputeChanges(ctx, "user1", nil)
	if err != nil {
		t.Fatalf("compute changes failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	show := false
	if _, err := f.settings.PatchSettings(ctx, "user1", SettingsPatchInput{ShowTitles: &show}); err != nil {
		t.Fatalf("patch settings failed: %v", err)
	}

	delta, err := f.sync.ComputeChanges(ctx, "user1", full.Watermark)
	if err != nil {
		t.Fatalf("compute changes failed: %v", err)
	}
	if delta.NotModified {
		t.Fatal("a settings change must invalidate the watermark")
	}
	if delta.Settings == nil || delta.Settings.ShowTitles {
		t.Fatalf("delta must carry the patched settings, got %+v", delta.Settings)
	}
	if len(delta.Bookmarks) != 0 {
		t.Fatalf("unchanged bookmarks must stay out of the delta, got %+v", delta.Bookmarks)
	}
	if !delta.Watermark.After(*full.Watermark) {
		t.Fatal("watermark must advance with the settings clock")
	}
}
