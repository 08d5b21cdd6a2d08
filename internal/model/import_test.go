package model_test

import (
	"testing"

	"github.com/nikbrunner/popmark/internal/model"
)

func TestStore_HasBookmarkURL(t *testing.T) {
	store := model.Store{
		Bookmarks: []model.Bookmark{
			{ID: "b1", Title: "Example", URL: "https://example.com", FolderID: "f1"},
		},
	}

	if !store.HasBookmarkURL("https://example.com") {
		t.Error("expected to find existing URL")
	}
	if store.HasBookmarkURL("https://notfound.com") {
		t.Error("should not find non-existing URL")
	}
}

func TestStore_ImportMerge_SkipsDuplicateURLs(t *testing.T) {
	store := model.Store{
		Folders: []model.Folder{{ID: "f1", Name: "Work"}},
		Bookmarks: []model.Bookmark{
			{ID: "existing", Title: "Existing", URL: "https://example.com", FolderID: "f1"},
		},
	}

	newBookmarks := []model.Bookmark{
		{ID: "new1", Title: "Duplicate", URL: "https://example.com", FolderID: "f1"}, // should skip
		{ID: "new2", Title: "New Site", URL: "https://newsite.com", FolderID: "f1"},  // should add
	}

	added, skipped := store.ImportMerge(nil, newBookmarks)

	if added != 1 {
		t.Errorf("expected 1 added, got %d", added)
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", skipped)
	}
	if len(store.Bookmarks) != 2 {
		t.Errorf("expected 2 bookmarks, got %d", len(store.Bookmarks))
	}
}

func TestStore_ImportMerge_ReusesFolderByName(t *testing.T) {
	existingFolderID := "existing-folder"
	store := model.Store{
		Folders: []model.Folder{
			{ID: existingFolderID, Name: "Development", ParentID: nil},
		},
	}

	newFolders := []model.Folder{
		{ID: "imported-folder", Name: "Development", ParentID: nil},
	}
	newBookmarks := []model.Bookmark{
		{ID: "b1", Title: "New Bookmark", URL: "https://new.com", FolderID: "imported-folder"},
	}

	store.ImportMerge(newFolders, newBookmarks)

	if len(store.Folders) != 1 {
		t.Errorf("expected 1 folder (reused), got %d", len(store.Folders))
	}
	if len(store.Bookmarks) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(store.Bookmarks))
	}
	if store.Bookmarks[0].FolderID != existingFolderID {
		t.Errorf("bookmark should be in existing folder %s, got %s", existingFolderID, store.Bookmarks[0].FolderID)
	}
}

func TestStore_ImportMerge_RootBookmarksLandInImportFolder(t *testing.T) {
	store := model.NewStore()

	newFolders := []model.Folder{
		{ID: "f1", Name: "Folder1"},
		{ID: "f2", Name: "Folder2"},
	}
	newBookmarks := []model.Bookmark{
		{ID: "b1", Title: "Bookmark1", URL: "https://one.com", FolderID: "f1"},
		{ID: "b2", Title: "Bookmark2", URL: "https://two.com"},
		{ID: "b3", Title: "Bookmark3", URL: "https://three.com"},
	}

	added, skipped := store.ImportMerge(newFolders, newBookmarks)

	if added != 3 || skipped != 0 {
		t.Errorf("expected 3 added / 0 skipped, got %d / %d", added, skipped)
	}
	if len(store.Folders) != 3 {
		t.Fatalf("expected 2 imported folders + %q, got %d", model.ImportFolderName, len(store.Folders))
	}

	imported := store.Folders[2]
	if imported.Name != model.ImportFolderName {
		t.Errorf("expected fallback folder %q, got %q", model.ImportFolderName, imported.Name)
	}
	if len(store.GetBookmarksInFolder(imported.ID)) != 2 {
		t.Errorf("expected 2 bookmarks in fallback folder")
	}

	for _, b := range store.Bookmarks {
		if b.Color != model.DefaultColor {
			t.Errorf("imported bookmark %s missing default color", b.ID)
		}
		if b.CreatedAt.IsZero() {
			t.Errorf("imported bookmark %s missing createdAt", b.ID)
		}
	}
}

func TestStore_ImportMerge_NestedFoldersKeepHierarchy(t *testing.T) {
	store := model.NewStore()
	parent := "p"

	store.ImportMerge(
		[]model.Folder{
			{ID: parent, Name: "Parent"},
			{ID: "c", Name: "Child", ParentID: &parent},
		},
		nil,
	)

	child := store.FolderByID("c")
	if child == nil {
		t.Fatal("expected child folder")
	}
	if child.ParentID == nil || *child.ParentID != parent {
		t.Errorf("expected child under %s, got %v", parent, child.ParentID)
	}
}

func TestStore_ImportMerge_NormalizesURLs(t *testing.T) {
	store := model.Store{
		Folders: []model.Folder{{ID: "f1", Name: "Work"}},
		Bookmarks: []model.Bookmark{
			{ID: "b1", Title: "Go", URL: "https://go.dev", FolderID: "f1"},
		},
	}

	added, skipped := store.ImportMerge(nil, []model.Bookmark{
		{Title: "Most Visited", URL: "place:sort=8&maxResults=10", FolderID: "f1"},
		{Title: "Bookmarklet", URL: "javascript:alert(1)", FolderID: "f1"},
		{Title: "Go", URL: "go.dev", FolderID: "f1"},
		{Title: "  ", URL: "example.com", FolderID: "f1"},
		{Title: "Example", URL: "https://example.com", FolderID: "f1"},
	})

	if added != 1 || skipped != 4 {
		t.Fatalf("expected 1 added, 4 skipped, got %d, %d", added, skipped)
	}
	b := store.Bookmarks[1]
	if b.URL != "https://example.com" {
		t.Errorf("expected normalised URL, got %q", b.URL)
	}
	if b.Title != "https://example.com" {
		t.Errorf("expected blank title to fall back to the URL, got %q", b.Title)
	}
	if b.Favicon != "https://example.com/favicon.ico" {
		t.Errorf("expected favicon from normalised URL, got %q", b.Favicon)
	}
}
