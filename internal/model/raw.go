package model

import "time"

// NodeKind distinguishes folders from links in a raw bookmark tree.
type NodeKind int

const (
	KindFolder NodeKind = iota
	KindLeaf
)

// RawNode is a node of the bookmark tree as delivered by a source.
// The kind is decided once when the source reads its data.
type RawNode struct {
	Kind      NodeKind  `json:"kind"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	IconURL   string    `json:"iconUrl,omitempty"`
	ParentID  string    `json:"parentId"`
	DateAdded time.Time `json:"dateAdded"`
	Children  []RawNode `json:"children,omitempty"` // folders only
}

// IsFolder returns true if the node is a folder (possibly empty).
func (n RawNode) IsFolder() bool {
	return n.Kind == KindFolder
}

// NewRawFolder creates a folder node.
func NewRawFolder(id, title, parentID string, children ...RawNode) RawNode {
	if children == nil {
		children = []RawNode{}
	}
	return RawNode{
		Kind:     KindFolder,
		ID:       id,
		Title:    title,
		ParentID: parentID,
		Children: children,
	}
}

// NewRawLeaf creates a link node.
func NewRawLeaf(id, title, url, parentID string) RawNode {
	return RawNode{
		Kind:     KindLeaf,
		ID:       id,
		Title:    title,
		URL:      url,
		ParentID: parentID,
	}
}

// FolderInfo is per-folder metadata supplied by a source alongside the tree.
// It is the authoritative source of bookmark counts.
type FolderInfo struct {
	Title         string    `json:"title"`
	ParentID      string    `json:"parentId"`
	BookmarkCount int       `json:"bookmarkCount"`
	Path          string    `json:"path"`
	DateAdded     time.Time `json:"dateAdded"`
}

// RawCache is everything a source returns from a single fetch.
type RawCache struct {
	Tree           []RawNode             `json:"tree"`
	Links          []RawNode             `json:"flatBookmarks"`
	Folders        map[string]FolderInfo `json:"folderMap"`
	TotalBookmarks int                   `json:"totalBookmarks"`
	TotalFolders   int                   `json:"totalFolders"`
}
