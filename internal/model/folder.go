package model

// Folder represents a named node in the folder tree.
type Folder struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"` // nil = root level
	Count    int     `json:"count"`    // informational, see RefreshCounts
}

// NewFolderParams holds parameters for creating a new Folder.
type NewFolderParams struct {
	Name     string
	ParentID *string
}

// IsRoot returns true if the folder has no parent.
func (f Folder) IsRoot() bool {
	return f.ParentID == nil
}

func (f Folder) clone() Folder {
	if f.ParentID != nil {
		id := *f.ParentID
		f.ParentID = &id
	}
	return f
}
