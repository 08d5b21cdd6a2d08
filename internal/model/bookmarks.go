package model

import (
	"fmt"
	"strings"
)

// AddBookmark validates params, normalizes the URL, assigns ID and
// CreatedAt, and appends the bookmark. On error the store is unchanged.
func (s *Store) AddBookmark(params NewBookmarkParams) (Bookmark, error) {
	verr := &ValidationError{}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		verr.add(FieldTitle, "Title is required")
	}

	var normalized string
	if strings.TrimSpace(params.URL) == "" {
		verr.add(FieldURL, "URL is required")
	} else {
		u, err := NormalizeURL(params.URL)
		if err != nil {
			verr.add(FieldURL, "Please enter a valid URL")
		}
		normalized = u
	}

	if params.FolderID == "" {
		verr.add(FieldFolder, "Please select a folder")
	} else if s.FolderByID(params.FolderID) == nil {
		verr.add(FieldFolder, "Folder does not exist")
	}

	if !verr.empty() {
		return Bookmark{}, verr
	}

	favicon := strings.TrimSpace(params.Favicon)
	if favicon == "" {
		favicon = FaviconFor(normalized)
	}

	color := strings.TrimSpace(params.Color)
	if color == "" {
		color = DefaultColor
	}

	bookmark := Bookmark{
		ID:          GenerateUUID(),
		Title:       title,
		URL:         normalized,
		FolderID:    params.FolderID,
		Favicon:     favicon,
		Color:       color,
		CreatedAt:   s.now(),
		Description: strings.TrimSpace(params.Description),
		Tags:        cleanTags(params.Tags),
	}
	s.Bookmarks = append(s.Bookmarks, bookmark)
	return bookmark, nil
}

// DeleteBookmark removes the bookmark with the given ID, keeping the order
// of the rest.
func (s *Store) DeleteBookmark(id string) error {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].ID == id {
			s.Bookmarks = append(s.Bookmarks[:i:i], s.Bookmarks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrBookmarkNotFound, id)
}

// ToggleFavorite flips IsFavorite. An unknown ID leaves the store untouched
// and returns ErrBookmarkNotFound.
func (s *Store) ToggleFavorite(id string) error {
	b := s.BookmarkByID(id)
	if b == nil {
		return fmt.Errorf("%w: %s", ErrBookmarkNotFound, id)
	}
	b.IsFavorite = !b.IsFavorite
	return nil
}

// UpdateBookmark applies patch in place. ID, CreatedAt and FolderID never
// change.
func (s *Store) UpdateBookmark(id string, patch BookmarkPatch) (Bookmark, error) {
	b := s.BookmarkByID(id)
	if b == nil {
		return Bookmark{}, fmt.Errorf("%w: %s", ErrBookmarkNotFound, id)
	}

	verr := &ValidationError{}
	updated := b.clone()

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			verr.add(FieldTitle, "Title is required")
		}
		updated.Title = title
	}
	if patch.URL != nil {
		u, err := NormalizeURL(*patch.URL)
		switch {
		case strings.TrimSpace(*patch.URL) == "":
			verr.add(FieldURL, "URL is required")
		case err != nil:
			verr.add(FieldURL, "Please enter a valid URL")
		}
		updated.URL = u
	}
	if !verr.empty() {
		return Bookmark{}, verr
	}

	if patch.Description != nil {
		updated.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Favicon != nil {
		updated.Favicon = strings.TrimSpace(*patch.Favicon)
	}
	if patch.Color != nil {
		updated.Color = strings.TrimSpace(*patch.Color)
		if updated.Color == "" {
			updated.Color = DefaultColor
		}
	}
	if patch.Tags != nil {
		updated.Tags = cleanTags(patch.Tags)
	}

	*b = updated
	return updated, nil
}

// cleanTags trims tags and drops empties and duplicates, keeping order.
func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
