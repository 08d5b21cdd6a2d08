package model_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nikbrunner/popmark/internal/model"
)

// Helper functions for pointers
func stringPtr(s string) *string { return &s }

func TestBookmark_CreatedAtSerializesAsISO8601(t *testing.T) {
	b := model.Bookmark{
		ID:        "b1",
		Title:     "GitHub",
		URL:       "https://github.com",
		FolderID:  "f1",
		CreatedAt: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	if !strings.Contains(string(data), `"createdAt":"2025-01-15T10:30:00Z"`) {
		t.Errorf("expected RFC 3339 createdAt, got %s", data)
	}
	if !strings.Contains(string(data), `"folderId":"f1"`) {
		t.Errorf("expected folderId key, got %s", data)
	}
}

func TestFolder_RootSerializesNullParent(t *testing.T) {
	data, err := json.Marshal(model.Folder{ID: "f1", Name: "Work"})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if !strings.Contains(string(data), `"parentId":null`) {
		t.Errorf("expected null parentId for root folder, got %s", data)
	}
}

func TestStore_ChildrenOf(t *testing.T) {
	store := model.Store{
		Folders: []model.Folder{
			{ID: "f1", Name: "Development", ParentID: nil},
			{ID: "f2", Name: "React", ParentID: stringPtr("f1")},
			{ID: "f3", Name: "Design", ParentID: nil},
			{ID: "f4", Name: "Node", ParentID: stringPtr("f1")},
		},
	}

	rootFolders := store.ChildrenOf(nil)
	if len(rootFolders) != 2 {
		t.Fatalf("expected 2 root folders, got %d", len(rootFolders))
	}
	if rootFolders[0].ID != "f1" || rootFolders[1].ID != "f3" {
		t.Errorf("root folders not in insertion order: %s, %s", rootFolders[0].ID, rootFolders[1].ID)
	}

	nested := store.ChildrenOf(stringPtr("f1"))
	if len(nested) != 2 {
		t.Fatalf("expected 2 nested folders in f1, got %d", len(nested))
	}
	if nested[0].Name != "React" || nested[1].Name != "Node" {
		t.Errorf("nested folders not in insertion order: %s, %s", nested[0].Name, nested[1].Name)
	}

	if empty := store.ChildrenOf(stringPtr("f3")); len(empty) != 0 {
		t.Errorf("expected 0 folders in f3, got %d", len(empty))
	}
}

func TestStore_GetBookmarksInFolder(t *testing.T) {
	store := model.Store{
		Bookmarks: []model.Bookmark{
			{ID: "b1", Title: "One", URL: "https://example.com", FolderID: "f1"},
			{ID: "b2", Title: "Two", URL: "https://example.org", FolderID: "f2"},
			{ID: "b3", Title: "Three", URL: "https://example.net", FolderID: "f1"},
		},
	}

	if got := store.GetBookmarksInFolder("f1"); len(got) != 2 {
		t.Errorf("expected 2 bookmarks in f1, got %d", len(got))
	}
	if got := store.GetBookmarksInFolder("missing"); len(got) != 0 {
		t.Errorf("expected 0 bookmarks in missing folder, got %d", len(got))
	}
}

func TestStore_FolderByID(t *testing.T) {
	store := model.Store{
		Folders: []model.Folder{
			{ID: "f1", Name: "Development", ParentID: nil},
		},
	}

	folder := store.FolderByID("f1")
	if folder == nil {
		t.Fatal("expected to find folder f1")
	}
	if folder.Name != "Development" {
		t.Errorf("expected name 'Development', got %q", folder.Name)
	}

	if store.FolderByID("nonexistent") != nil {
		t.Error("expected nil for nonexistent folder")
	}
}

func TestStore_RefreshCounts(t *testing.T) {
	store := model.Store{
		Folders: []model.Folder{
			{ID: "f1", Name: "Work", Count: 99},
			{ID: "f2", Name: "Personal"},
		},
		Bookmarks: []model.Bookmark{
			{ID: "b1", FolderID: "f1"},
			{ID: "b2", FolderID: "f1"},
			{ID: "b3", FolderID: "gone"},
		},
	}

	store.RefreshCounts()

	if store.Folders[0].Count != 2 {
		t.Errorf("expected count 2 for f1, got %d", store.Folders[0].Count)
	}
	if store.Folders[1].Count != 0 {
		t.Errorf("expected count 0 for f2, got %d", store.Folders[1].Count)
	}
}

func TestStore_CloneIsIndependent(t *testing.T) {
	store := &model.Store{
		Folders: []model.Folder{
			{ID: "f1", Name: "Work"},
			{ID: "f2", Name: "Dev", ParentID: stringPtr("f1")},
		},
		Bookmarks: []model.Bookmark{
			{ID: "b1", Title: "Go", FolderID: "f2", Tags: []string{"go"}},
		},
	}

	clone := store.Clone()
	clone.Bookmarks[0].Tags[0] = "changed"
	*clone.Folders[1].ParentID = "other"
	clone.Bookmarks[0].IsFavorite = true

	if store.Bookmarks[0].Tags[0] != "go" {
		t.Error("clone shares tag slice with original")
	}
	if *store.Folders[1].ParentID != "f1" {
		t.Error("clone shares parent pointer with original")
	}
	if store.Bookmarks[0].IsFavorite {
		t.Error("clone shares bookmark records with original")
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare host gets https", "google.com", "https://google.com", false},
		{"keeps https", "https://github.com/x", "https://github.com/x", false},
		{"keeps http", "http://example.com", "http://example.com", false},
		{"host starting with http", "httpbin.org/get", "https://httpbin.org/get", false},
		{"bare host starting with http", "httpbin.org", "https://httpbin.org", false},
		{"javascript link", "javascript:alert(1)", "", true},
		{"firefox place query", "place:sort=8&maxResults=10", "", true},
		{"trims whitespace", "  example.com  ", "https://example.com", false},
		{"empty", "", "", true},
		{"other scheme", "ftp://example.com", "", true},
		{"no host", "https://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.NormalizeURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeURL(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeURL(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFaviconFor(t *testing.T) {
	if got := model.FaviconFor("https://github.com/nikbrunner"); got != "https://github.com/favicon.ico" {
		t.Errorf("unexpected favicon %q", got)
	}
	if got := model.FaviconFor("not a url"); got != "" {
		t.Errorf("expected empty favicon for invalid URL, got %q", got)
	}
}
