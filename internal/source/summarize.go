package source

import (
	"strings"

	"github.com/nikbrunner/favdash/internal/model"
)

// Summarize derives the flat link list, per-folder info and totals from a
// raw tree. A root folder's path is its own title; folders below it get the
// slash-joined titles below the root. Counts are direct links only.
// Roots are listed in the folder info but not counted in TotalFolders.
func Summarize(tree []model.RawNode) *model.RawCache {
	cache := &model.RawCache{
		Tree:    tree,
		Links:   []model.RawNode{},
		Folders: make(map[string]model.FolderInfo),
	}
	if cache.Tree == nil {
		cache.Tree = []model.RawNode{}
	}

	for _, root := range tree {
		if !root.IsFolder() {
			cache.Links = append(cache.Links, root)
			continue
		}
		summarizeFolder(cache, root, nil, root.Title)
	}

	cache.TotalBookmarks = len(cache.Links)
	return cache
}

func summarizeFolder(cache *model.RawCache, folder model.RawNode, trail []string, path string) {
	count := 0
	for _, child := range folder.Children {
		if child.IsFolder() {
			childTrail := append(append([]string{}, trail...), child.Title)
			cache.TotalFolders++
			summarizeFolder(cache, child, childTrail, strings.Join(childTrail, "/"))
			continue
		}
		cache.Links = append(cache.Links, child)
		count++
	}

	cache.Folders[folder.ID] = model.FolderInfo{
		Title:         folder.Title,
		ParentID:      folder.ParentID,
		BookmarkCount: count,
		Path:          path,
		DateAdded:     folder.DateAdded,
	}
}
