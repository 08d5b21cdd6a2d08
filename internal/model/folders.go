package model

import (
	"fmt"
	"strings"
)

// DeleteMode controls what happens to a folder's contents on deletion.
type DeleteMode int

const (
	// DeleteKeep removes only the folder. Child folders and bookmarks keep
	// their now-dangling reference.
	DeleteKeep DeleteMode = iota
	// DeleteCascade removes the folder, every descendant folder and every
	// bookmark contained in any of them.
	DeleteCascade
)

func (m DeleteMode) String() string {
	switch m {
	case DeleteKeep:
		return "keep"
	case DeleteCascade:
		return "cascade"
	default:
		return "unknown"
	}
}

// ParseDeleteMode parses "keep" or "cascade". Empty means keep.
func ParseDeleteMode(s string) (DeleteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return DeleteKeep, nil
	case "cascade":
		return DeleteCascade, nil
	default:
		return DeleteKeep, fmt.Errorf("unknown delete mode %q", s)
	}
}

// DeleteResult reports how many records a folder deletion removed.
type DeleteResult struct {
	Folders   int
	Bookmarks int
}

// AddFolder validates params and appends a new folder.
func (s *Store) AddFolder(params NewFolderParams) (Folder, error) {
	verr := &ValidationError{}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		verr.add(FieldName, "Folder name is required")
	}

	if params.ParentID != nil && s.FolderByID(*params.ParentID) == nil {
		verr.add(FieldParent, "Parent folder does not exist")
	}

	if !verr.empty() {
		return Folder{}, verr
	}

	if params.ParentID != nil {
		if err := s.checkAncestry(*params.ParentID); err != nil {
			return Folder{}, err
		}
	}

	var parentID *string
	if params.ParentID != nil {
		id := *params.ParentID
		parentID = &id
	}

	folder := Folder{
		ID:       GenerateUUID(),
		Name:     name,
		ParentID: parentID,
	}
	s.Folders = append(s.Folders, folder)
	return folder, nil
}

// DeleteFolder removes a folder. With DeleteKeep nothing else is touched.
func (s *Store) DeleteFolder(id string, mode DeleteMode) (DeleteResult, error) {
	if s.FolderByID(id) == nil {
		return DeleteResult{}, fmt.Errorf("%w: %s", ErrFolderNotFound, id)
	}

	remove := map[string]bool{id: true}
	if mode == DeleteCascade {
		for _, d := range s.descendants(id) {
			remove[d] = true
		}
	}

	var result DeleteResult

	folders := s.Folders[:0:0]
	for _, f := range s.Folders {
		if remove[f.ID] {
			result.Folders++
			continue
		}
		folders = append(folders, f)
	}
	s.Folders = folders

	if mode == DeleteCascade {
		bookmarks := s.Bookmarks[:0:0]
		for _, b := range s.Bookmarks {
			if remove[b.FolderID] {
				result.Bookmarks++
				continue
			}
			bookmarks = append(bookmarks, b)
		}
		s.Bookmarks = bookmarks
	}

	return result, nil
}

// MoveFolder reparents a folder. Moving a folder under itself or one of
// its descendants returns ErrFolderCycle.
func (s *Store) MoveFolder(id string, newParentID *string) error {
	folder := s.FolderByID(id)
	if folder == nil {
		return fmt.Errorf("%w: %s", ErrFolderNotFound, id)
	}

	if newParentID != nil {
		if s.FolderByID(*newParentID) == nil {
			return fmt.Errorf("%w: %s", ErrFolderNotFound, *newParentID)
		}
		if *newParentID == id {
			return fmt.Errorf("%w: folder cannot contain itself", ErrFolderCycle)
		}
		for _, d := range s.descendants(id) {
			if d == *newParentID {
				return fmt.Errorf("%w: target is a descendant", ErrFolderCycle)
			}
		}
		if err := s.checkAncestry(*newParentID); err != nil {
			return err
		}
		parent := *newParentID
		folder.ParentID = &parent
		return nil
	}

	folder.ParentID = nil
	return nil
}

// FolderPath returns the folders from the root down to id.
// Returns nil if id does not exist. A cycle stops the walk.
func (s *Store) FolderPath(id string) []Folder {
	var path []Folder
	seen := make(map[string]bool)

	current := s.FolderByID(id)
	for current != nil && !seen[current.ID] {
		seen[current.ID] = true
		path = append(path, *current)
		if current.ParentID == nil {
			break
		}
		current = s.FolderByID(*current.ParentID)
	}

	// Reverse to root-first order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FolderPathString joins FolderPath names with " / ".
func (s *Store) FolderPathString(id string) string {
	path := s.FolderPath(id)
	names := make([]string, len(path))
	for i, f := range path {
		names[i] = f.Name
	}
	return strings.Join(names, " / ")
}

// checkAncestry walks up from id and fails if the parent chain loops.
func (s *Store) checkAncestry(id string) error {
	seen := make(map[string]bool)
	current := s.FolderByID(id)
	for current != nil {
		if seen[current.ID] {
			return fmt.Errorf("%w: parent chain of %s loops at %s", ErrFolderCycle, id, current.ID)
		}
		seen[current.ID] = true
		if current.ParentID == nil {
			return nil
		}
		current = s.FolderByID(*current.ParentID)
	}
	return nil
}

// descendants returns the IDs of all folders below id, breadth-first.
func (s *Store) descendants(id string) []string {
	var result []string
	seen := map[string]bool{id: true}
	queue := []string{id}

	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, f := range s.ChildrenOf(&parent) {
			if seen[f.ID] {
				continue
			}
			seen[f.ID] = true
			result = append(result, f.ID)
			queue = append(queue, f.ID)
		}
	}
	return result
}
