package model

import "time"

// Folder is a container for bookmarks and other folders in the local library.
type Folder struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ParentID  *string   `json:"parentId"` // nil = root level
	CreatedAt time.Time `json:"createdAt"`
}

// NewFolderParams holds parameters for creating a new Folder.
type NewFolderParams struct {
	Title    string
	ParentID *string
}

// NewFolder creates a Folder with generated UUID.
func NewFolder(params NewFolderParams) Folder {
	return Folder{
		ID:        GenerateUUID(),
		Title:     params.Title,
		ParentID:  params.ParentID,
		CreatedAt: time.Now(),
	}
}
