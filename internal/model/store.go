package model

// Store holds all folders and bookmarks of the local library.
type Store struct {
	Folders   []Folder   `json:"folders"`
	Bookmarks []Bookmark `json:"bookmarks"`
}

// NewStore creates an empty Store with initialized slices.
func NewStore() *Store {
	return &Store{
		Folders:   []Folder{},
		Bookmarks: []Bookmark{},
	}
}

// GetFoldersInFolder returns folders with the given parent ID.
// Pass nil for root level folders.
func (s *Store) GetFoldersInFolder(parentID *string) []Folder {
	var result []Folder
	for _, f := range s.Folders {
		if ptrEqual(f.ParentID, parentID) {
			result = append(result, f)
		}
	}
	return result
}

// GetBookmarksInFolder returns bookmarks in the given folder.
// Pass nil for root level bookmarks.
func (s *Store) GetBookmarksInFolder(folderID *string) []Bookmark {
	var result []Bookmark
	for _, b := range s.Bookmarks {
		if ptrEqual(b.FolderID, folderID) {
			result = append(result, b)
		}
	}
	return result
}

// GetFolderByID finds a folder by ID, returns nil if not found.
func (s *Store) GetFolderByID(id string) *Folder {
	for i := range s.Folders {
		if s.Folders[i].ID == id {
			return &s.Folders[i]
		}
	}
	return nil
}

// GetBookmarkByID finds a bookmark by ID, returns nil if not found.
func (s *Store) GetBookmarkByID(id string) *Bookmark {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].ID == id {
			return &s.Bookmarks[i]
		}
	}
	return nil
}

// AddFolder appends a folder to the store.
func (s *Store) AddFolder(f Folder) {
	s.Folders = append(s.Folders, f)
}

// AddBookmark appends a bookmark to the store.
func (s *Store) AddBookmark(b Bookmark) {
	s.Bookmarks = append(s.Bookmarks, b)
}

// MoveBookmark sets the folder of a bookmark. Returns false if the bookmark
// doesn't exist.
func (s *Store) MoveBookmark(id string, folderID *string) bool {
	b := s.GetBookmarkByID(id)
	if b == nil {
		return false
	}
	b.FolderID = copyPtr(folderID)
	return true
}

// MoveFolder sets the parent of a folder. Returns false if the folder doesn't
// exist or the target is the folder itself or one of its descendants.
func (s *Store) MoveFolder(id string, parentID *string) bool {
	f := s.GetFolderByID(id)
	if f == nil {
		return false
	}
	if parentID != nil && (*parentID == id || s.IsDescendant(*parentID, id)) {
		return false
	}
	f.ParentID = copyPtr(parentID)
	return true
}

// IsDescendant reports whether folder id sits somewhere below ancestorID.
func (s *Store) IsDescendant(id, ancestorID string) bool {
	seen := make(map[string]bool)
	current := s.GetFolderByID(id)
	for current != nil && current.ParentID != nil {
		parent := *current.ParentID
		if parent == ancestorID {
			return true
		}
		if seen[parent] {
			return false
		}
		seen[parent] = true
		current = s.GetFolderByID(parent)
	}
	return false
}

// RenameBookmark changes a bookmark title. Returns false if not found.
func (s *Store) RenameBookmark(id, title string) bool {
	b := s.GetBookmarkByID(id)
	if b == nil {
		return false
	}
	b.Title = title
	return true
}

// DeleteBookmark removes a bookmark. Returns false if not found.
func (s *Store) DeleteBookmark(id string) bool {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].ID == id {
			s.Bookmarks = append(s.Bookmarks[:i], s.Bookmarks[i+1:]...)
			return true
		}
	}
	return false
}

// DeleteFolder removes a folder with all of its subfolders and bookmarks.
// Returns false if not found.
func (s *Store) DeleteFolder(id string) bool {
	if s.GetFolderByID(id) == nil {
		return false
	}

	doomed := map[string]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, f := range s.Folders {
			if f.ParentID != nil && doomed[*f.ParentID] && !doomed[f.ID] {
				doomed[f.ID] = true
				changed = true
			}
		}
	}

	folders := s.Folders[:0]
	for _, f := range s.Folders {
		if !doomed[f.ID] {
			folders = append(folders, f)
		}
	}
	s.Folders = folders

	bookmarks := s.Bookmarks[:0]
	for _, b := range s.Bookmarks {
		if b.FolderID == nil || !doomed[*b.FolderID] {
			bookmarks = append(bookmarks, b)
		}
	}
	s.Bookmarks = bookmarks
	return true
}

// HasBookmarkURL returns true if any bookmark points at url.
func (s *Store) HasBookmarkURL(url string) bool {
	for _, b := range s.Bookmarks {
		if b.URL == url {
			return true
		}
	}
	return false
}

// ImportMerge adds imported folders and bookmarks to the store.
// An imported folder whose title already exists under the same parent is
// reused, and bookmarks pointing at it are remapped. Bookmarks whose URL
// already exists are skipped.
// Returns the number of bookmarks added and skipped.
func (s *Store) ImportMerge(folders []Folder, bookmarks []Bookmark) (added, skipped int) {
	// imported folder ID -> ID used in the store
	remap := make(map[string]string, len(folders))

	for _, f := range folders {
		parentID := f.ParentID
		if parentID != nil {
			if mapped, ok := remap[*parentID]; ok {
				parentID = &mapped
			}
		}

		if existing := s.findFolder(f.Title, parentID); existing != nil {
			remap[f.ID] = existing.ID
			continue
		}

		f.ParentID = copyPtr(parentID)
		remap[f.ID] = f.ID
		s.Folders = append(s.Folders, f)
	}

	known := make(map[string]bool, len(s.Bookmarks))
	for _, b := range s.Bookmarks {
		known[b.URL] = true
	}

	for _, b := range bookmarks {
		if known[b.URL] {
			skipped++
			continue
		}
		if b.FolderID != nil {
			if mapped, ok := remap[*b.FolderID]; ok {
				b.FolderID = &mapped
			}
		}
		known[b.URL] = true
		s.Bookmarks = append(s.Bookmarks, b)
		added++
	}
	return added, skipped
}

// findFolder returns the folder with the given title under parentID.
func (s *Store) findFolder(title string, parentID *string) *Folder {
	for i := range s.Folders {
		if s.Folders[i].Title == title && ptrEqual(s.Folders[i].ParentID, parentID) {
			return &s.Folders[i]
		}
	}
	return nil
}

// ptrEqual compares two string pointers for equality.
func ptrEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func copyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
