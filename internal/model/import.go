package model

import "strings"

// ImportFolderName is the folder that receives imported bookmarks which had
// no folder in the source file.
const ImportFolderName = "Imported"

// ImportMerge merges imported folders and bookmarks into the store.
// Folders are reused when one with the same name already exists under the
// same parent. Bookmark URLs are normalised like AddBookmark does; bookmarks
// whose URL is rejected (javascript:, place: and the like) or already
// present are skipped. Returns the number of bookmarks added and skipped.
func (s *Store) ImportMerge(folders []Folder, bookmarks []Bookmark) (added, skipped int) {
	idMap := make(map[string]string, len(folders))

	for _, f := range folders {
		var parentID *string
		if f.ParentID != nil {
			if mapped, ok := idMap[*f.ParentID]; ok {
				parentID = &mapped
			} else if s.FolderByID(*f.ParentID) != nil {
				p := *f.ParentID
				parentID = &p
			}
		}

		if existing := s.findFolder(f.Name, parentID); existing != nil {
			idMap[f.ID] = existing.ID
			continue
		}

		id := f.ID
		if id == "" || s.FolderByID(id) != nil {
			id = GenerateUUID()
		}
		s.Folders = append(s.Folders, Folder{ID: id, Name: f.Name, ParentID: parentID})
		idMap[f.ID] = id
	}

	var fallbackID string
	fallback := func() string {
		if fallbackID != "" {
			return fallbackID
		}
		if existing := s.findFolder(ImportFolderName, nil); existing != nil {
			fallbackID = existing.ID
		} else {
			fallbackID = GenerateUUID()
			s.Folders = append(s.Folders, Folder{ID: fallbackID, Name: ImportFolderName})
		}
		return fallbackID
	}

	for _, b := range bookmarks {
		u, err := NormalizeURL(b.URL)
		if err != nil || s.HasBookmarkURL(u) {
			skipped++
			continue
		}
		b.URL = u
		if b.Title = strings.TrimSpace(b.Title); b.Title == "" {
			b.Title = u
		}

		switch mapped, ok := idMap[b.FolderID]; {
		case ok:
			b.FolderID = mapped
		case b.FolderID != "" && s.FolderByID(b.FolderID) != nil:
		default:
			b.FolderID = fallback()
		}

		if b.ID == "" || s.BookmarkByID(b.ID) != nil {
			b.ID = GenerateUUID()
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = s.now()
		}
		if b.Color == "" {
			b.Color = DefaultColor
		}
		if b.Favicon == "" {
			b.Favicon = FaviconFor(b.URL)
		}
		b.Tags = cleanTags(b.Tags)

		s.Bookmarks = append(s.Bookmarks, b)
		added++
	}

	return added, skipped
}

// findFolder returns the first folder with name under parentID.
func (s *Store) findFolder(name string, parentID *string) *Folder {
	for i := range s.Folders {
		if s.Folders[i].Name == name && ptrEqual(s.Folders[i].ParentID, parentID) {
			return &s.Folders[i]
		}
	}
	return nil
}
