package model

import "time"

// AllFolderID is the id of the synthetic folder that stands for every bookmark.
const AllFolderID = "all"

// FolderNode is a display-ready folder in the sidebar tree.
type FolderNode struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	ParentID      string        `json:"parentId,omitempty"`
	Icon          string        `json:"icon"`
	BookmarkCount int           `json:"bookmarkCount"`
	Depth         int           `json:"depth"`
	IsExpanded    bool          `json:"isExpanded"`
	IsSpecial     bool          `json:"isSpecial,omitempty"`
	Children      []*FolderNode `json:"children"`
}

// Link is a display-ready bookmark.
type Link struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	ParentID    string    `json:"parentId"`
	FolderID    string    `json:"folderId"` // always equals ParentID
	IconURL     string    `json:"iconUrl"`
	Domain      string    `json:"domain"`
	Path        string    `json:"path,omitempty"`
	DateAdded   time.Time `json:"dateAdded"`
	DateGrouped string    `json:"dateGrouped,omitempty"`
}

// Snapshot is one complete projection of a source. It is never modified
// after it has been published; a refresh publishes a new one.
type Snapshot struct {
	Tree           []*FolderNode `json:"tree"`
	Links          []Link        `json:"flatBookmarks"`
	Folders        *FolderMap    `json:"-"`
	TotalBookmarks int           `json:"totalBookmarks"`
	TotalFolders   int           `json:"totalFolders"`
	LastSync       time.Time     `json:"lastSync"`
}

// Folder returns the folder entry for id, or nil.
func (s *Snapshot) Folder(id string) *FolderEntry {
	if s == nil || s.Folders == nil {
		return nil
	}
	return s.Folders.Get(id)
}

// LinksInFolder returns the links directly inside folderID, in order.
// The "all" folder yields every link.
func (s *Snapshot) LinksInFolder(folderID string) []Link {
	if s == nil {
		return []Link{}
	}
	id := CanonicalID(folderID)
	if id == AllFolderID {
		return s.Links
	}

	result := []Link{}
	for _, l := range s.Links {
		if l.ParentID == id {
			result = append(result, l)
		}
	}
	return result
}

// Stats summarises a snapshot.
type Stats struct {
	TotalBookmarks int       `json:"totalBookmarks"`
	TotalFolders   int       `json:"totalFolders"`
	LastSync       time.Time `json:"lastSync"`
}

// Stats returns the summary counters of the snapshot.
func (s *Snapshot) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		TotalBookmarks: s.TotalBookmarks,
		TotalFolders:   s.TotalFolders,
		LastSync:       s.LastSync,
	}
}
