package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/nikbrunner/popmark/internal/model"
)

func workStore() *model.Store {
	return &model.Store{
		Folders: []model.Folder{
			{ID: "1", Name: "Work", ParentID: nil},
		},
		Bookmarks: []model.Bookmark{},
	}
}

func TestStore_AddBookmark_NormalizesURL(t *testing.T) {
	store := workStore()

	b, err := store.AddBookmark(model.NewBookmarkParams{
		Title:    "Google",
		URL:      "google.com",
		FolderID: "1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.URL != "https://google.com" {
		t.Errorf("expected https://google.com, got %q", b.URL)
	}
	if store.Bookmarks[0].URL != "https://google.com" {
		t.Errorf("stored URL not normalized: %q", store.Bookmarks[0].URL)
	}
}

func TestStore_AddBookmark_Defaults(t *testing.T) {
	store := workStore()
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return fixed }

	b, err := store.AddBookmark(model.NewBookmarkParams{
		Title:    "  GitHub  ",
		URL:      "https://github.com/nikbrunner",
		FolderID: "1",
		Tags:     []string{"dev", " dev ", "", "code"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.Title != "GitHub" {
		t.Errorf("expected trimmed title, got %q", b.Title)
	}
	if b.Color != model.DefaultColor {
		t.Errorf("expected default color, got %q", b.Color)
	}
	if b.Favicon != "https://github.com/favicon.ico" {
		t.Errorf("expected derived favicon, got %q", b.Favicon)
	}
	if !b.CreatedAt.Equal(fixed) {
		t.Errorf("expected createdAt %v, got %v", fixed, b.CreatedAt)
	}
	if b.IsFavorite {
		t.Error("new bookmarks should not be favorites")
	}
	if len(b.Tags) != 2 || b.Tags[0] != "dev" || b.Tags[1] != "code" {
		t.Errorf("expected cleaned tags [dev code], got %v", b.Tags)
	}
}

func TestStore_AddBookmark_KeepsGivenColorAndFavicon(t *testing.T) {
	store := workStore()

	b, err := store.AddBookmark(model.NewBookmarkParams{
		Title:    "Figma",
		URL:      "figma.com",
		FolderID: "1",
		Favicon:  "https://static.figma.com/app/icon/1/favicon.png",
		Color:    "#a259ff",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Color != "#a259ff" {
		t.Errorf("expected given color, got %q", b.Color)
	}
	if b.Favicon != "https://static.figma.com/app/icon/1/favicon.png" {
		t.Errorf("expected given favicon, got %q", b.Favicon)
	}
}

func TestStore_AddBookmark_Validation(t *testing.T) {
	tests := []struct {
		name       string
		params     model.NewBookmarkParams
		wantFields []string
	}{
		{
			name:       "everything missing",
			params:     model.NewBookmarkParams{},
			wantFields: []string{model.FieldTitle, model.FieldURL, model.FieldFolder},
		},
		{
			name:       "blank title",
			params:     model.NewBookmarkParams{Title: "  ", URL: "example.com", FolderID: "1"},
			wantFields: []string{model.FieldTitle},
		},
		{
			name:       "malformed URL",
			params:     model.NewBookmarkParams{Title: "Bad", URL: "ftp://example.com", FolderID: "1"},
			wantFields: []string{model.FieldURL},
		},
		{
			name:       "unknown folder",
			params:     model.NewBookmarkParams{Title: "Orphan", URL: "example.com", FolderID: "99"},
			wantFields: []string{model.FieldFolder},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := workStore()

			_, err := store.AddBookmark(tt.params)

			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Errorf("expected %d field errors, got %v", len(tt.wantFields), verr.Fields)
			}
			for _, f := range tt.wantFields {
				if verr.Fields[f] == "" {
					t.Errorf("expected message for field %q", f)
				}
			}
			if len(store.Bookmarks) != 0 {
				t.Error("store mutated on validation failure")
			}
		})
	}
}

func TestStore_AddBookmark_UniqueIDsAndTimestamps(t *testing.T) {
	store := workStore()
	seen := make(map[string]bool)

	add := func(title string) model.Bookmark {
		t.Helper()
		b, err := store.AddBookmark(model.NewBookmarkParams{Title: title, URL: "example.com", FolderID: "1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return b
	}

	// Interleave adds and deletes: length-based ids would collide here.
	for i := 0; i < 20; i++ {
		a := add("first")
		b := add("second")
		if err := store.DeleteBookmark(a.ID); err != nil {
			t.Fatalf("unexpected delete error: %v", err)
		}
		for _, id := range []string{a.ID, b.ID} {
			if seen[id] {
				t.Fatalf("id %s reused", id)
			}
			seen[id] = true
		}
	}

	ids := make(map[string]bool)
	for _, b := range store.Bookmarks {
		if ids[b.ID] {
			t.Errorf("duplicate id %s in store", b.ID)
		}
		ids[b.ID] = true

		stamp := b.CreatedAt.Format(time.RFC3339Nano)
		if _, err := time.Parse(time.RFC3339Nano, stamp); err != nil || b.CreatedAt.IsZero() {
			t.Errorf("bookmark %s has invalid createdAt %q", b.ID, stamp)
		}
	}
}

func TestStore_DeleteBookmark_RemovesExactlyOne(t *testing.T) {
	store := &model.Store{
		Bookmarks: []model.Bookmark{
			{ID: "a", Title: "A"},
			{ID: "b", Title: "B"},
			{ID: "c", Title: "C"},
			{ID: "d", Title: "D"},
		},
	}

	if err := store.DeleteBookmark("b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a", "c", "d"}
	if len(store.Bookmarks) != len(want) {
		t.Fatalf("expected %d bookmarks, got %d", len(want), len(store.Bookmarks))
	}
	for i, id := range want {
		if store.Bookmarks[i].ID != id {
			t.Errorf("order not preserved: expected %q at %d, got %q", id, i, store.Bookmarks[i].ID)
		}
	}

	if err := store.DeleteBookmark("b"); !errors.Is(err, model.ErrBookmarkNotFound) {
		t.Errorf("expected ErrBookmarkNotFound on second delete, got %v", err)
	}
	if len(store.Bookmarks) != 3 {
		t.Error("unknown delete mutated the store")
	}
}

func TestStore_ToggleFavorite(t *testing.T) {
	store := &model.Store{
		Bookmarks: []model.Bookmark{
			{ID: "b1", Title: "Test", IsFavorite: false},
		},
	}

	if err := store.ToggleFavorite("b1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.Bookmarks[0].IsFavorite {
		t.Error("expected favorite after first toggle")
	}

	if err := store.ToggleFavorite("b1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Bookmarks[0].IsFavorite {
		t.Error("expected original value after second toggle")
	}

	err := store.ToggleFavorite("nonexistent")
	if !errors.Is(err, model.ErrBookmarkNotFound) {
		t.Errorf("expected ErrBookmarkNotFound, got %v", err)
	}
	if store.Bookmarks[0].IsFavorite {
		t.Error("unknown toggle changed another bookmark")
	}
}

func TestStore_UpdateBookmark_PreservesIdentity(t *testing.T) {
	created := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	store := &model.Store{
		Folders: []model.Folder{{ID: "1", Name: "Work"}},
		Bookmarks: []model.Bookmark{
			{ID: "b1", Title: "Old", URL: "https://old.example.com", FolderID: "1", CreatedAt: created, Color: "#000000"},
		},
	}

	title := "New"
	url := "new.example.com"
	desc := "  fresh  "
	updated, err := store.UpdateBookmark("b1", model.BookmarkPatch{
		Title:       &title,
		URL:         &url,
		Description: &desc,
		Tags:        []string{"x"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.ID != "b1" || !updated.CreatedAt.Equal(created) || updated.FolderID != "1" {
		t.Errorf("identity fields changed: %+v", updated)
	}
	if updated.URL != "https://new.example.com" {
		t.Errorf("expected normalized URL, got %q", updated.URL)
	}
	if updated.Description != "fresh" {
		t.Errorf("expected trimmed description, got %q", updated.Description)
	}
	if updated.Color != "#000000" {
		t.Errorf("untouched field changed: %q", updated.Color)
	}
	if store.Bookmarks[0].Title != "New" {
		t.Error("update not applied in place")
	}
}

func TestStore_UpdateBookmark_InvalidLeavesRecord(t *testing.T) {
	store := &model.Store{
		Bookmarks: []model.Bookmark{
			{ID: "b1", Title: "Keep", URL: "https://keep.example.com"},
		},
	}

	empty := ""
	_, err := store.UpdateBookmark("b1", model.BookmarkPatch{Title: &empty})
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.Bookmarks[0].Title != "Keep" {
		t.Error("invalid patch was partially applied")
	}

	if _, err := store.UpdateBookmark("nope", model.BookmarkPatch{}); !errors.Is(err, model.ErrBookmarkNotFound) {
		t.Errorf("expected ErrBookmarkNotFound, got %v", err)
	}
}

func TestBookmark_HasTag(t *testing.T) {
	b := model.Bookmark{Tags: []string{"Dev", "go"}}

	if !b.HasTag("Dev") {
		t.Error("expected exact tag match")
	}
	if b.HasTag("dev") {
		t.Error("tag match must be case-sensitive")
	}
}
