package projection

import "github.com/nikbrunner/favdash/internal/model"

// BuildFolderMap merges source folder metadata with the projected tree.
// Entries are seeded from info first; projected nodes are then merged on top,
// with their non-empty fields taking precedence. Nodes missing from info are
// inserted as new entries.
func BuildFolderMap(tree []*model.FolderNode, info map[string]model.FolderInfo) *model.FolderMap {
	m := model.NewFolderMap()

	for id, fi := range info {
		m.Put(&model.FolderEntry{
			ID:            id,
			Title:         fi.Title,
			ParentID:      model.CanonicalID(fi.ParentID),
			BookmarkCount: fi.BookmarkCount,
			Path:          fi.Path,
			DateAdded:     fi.DateAdded,
		})
	}

	WalkTree(tree, func(node *model.FolderNode) {
		entry := m.Get(node.ID)
		if entry == nil {
			entry = m.Put(&model.FolderEntry{ID: node.ID})
		}
		mergeNode(entry, node)
	})

	return m
}

func mergeNode(entry *model.FolderEntry, node *model.FolderNode) {
	if node.Title != "" {
		entry.Title = node.Title
	}
	if node.ParentID != "" {
		entry.ParentID = model.CanonicalID(node.ParentID)
	}
	if node.Icon != "" {
		entry.Icon = node.Icon
	}
	entry.BookmarkCount = node.BookmarkCount
	entry.Depth = node.Depth
	entry.IsExpanded = node.IsExpanded
	entry.IsSpecial = node.IsSpecial

	entry.ChildIDs = make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		entry.ChildIDs = append(entry.ChildIDs, child.ID)
	}
}
