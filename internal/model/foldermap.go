package model

import (
	"sort"
	"time"
)

// FolderEntry is the merged view of a folder: source metadata plus the
// fields derived while projecting the tree.
type FolderEntry struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ParentID      string    `json:"parentId,omitempty"`
	BookmarkCount int       `json:"bookmarkCount"`
	Path          string    `json:"path,omitempty"`
	DateAdded     time.Time `json:"dateAdded,omitempty"`
	Icon          string    `json:"icon,omitempty"`
	Depth         int       `json:"depth"`
	IsExpanded    bool      `json:"isExpanded"`
	IsSpecial     bool      `json:"isSpecial,omitempty"`
	ChildIDs      []string  `json:"childIds,omitempty"`
}

// FolderMap looks folders up by id. Keys are canonical string ids, so a
// numeric id and its string form reach the same entry.
type FolderMap struct {
	entries map[string]*FolderEntry
}

// NewFolderMap creates an empty FolderMap.
func NewFolderMap() *FolderMap {
	return &FolderMap{entries: make(map[string]*FolderEntry)}
}

// Get returns the entry for id, or nil if there is none.
func (m *FolderMap) Get(id string) *FolderEntry {
	if m == nil {
		return nil
	}
	return m.entries[CanonicalID(id)]
}

// Lookup is Get for ids that arrive in a non-string representation.
func (m *FolderMap) Lookup(id any) *FolderEntry {
	if m == nil {
		return nil
	}
	return m.entries[CanonicalID(id)]
}

// Put stores an entry under its canonical id and returns the stored entry.
func (m *FolderMap) Put(e *FolderEntry) *FolderEntry {
	e.ID = CanonicalID(e.ID)
	m.entries[e.ID] = e
	return e
}

// Len returns the number of entries.
func (m *FolderMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// IDs returns all ids in sorted order.
func (m *FolderMap) IDs() []string {
	if m == nil {
		return nil
	}
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
