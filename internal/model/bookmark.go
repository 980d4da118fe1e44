package model

import "time"

// Bookmark is a saved URL in the local bookmark library.
type Bookmark struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	FolderID  *string   `json:"folderId"` // nil = root level
	IconURL   string    `json:"iconUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	Title    string
	URL      string
	FolderID *string
	IconURL  string
}

// NewBookmark creates a Bookmark with generated UUID and timestamp.
func NewBookmark(params NewBookmarkParams) Bookmark {
	return Bookmark{
		ID:        GenerateUUID(),
		Title:     params.Title,
		URL:       params.URL,
		FolderID:  params.FolderID,
		IconURL:   params.IconURL,
		CreatedAt: time.Now(),
	}
}
