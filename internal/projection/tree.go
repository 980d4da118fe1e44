package projection

import "github.com/nikbrunner/favdash/internal/model"

// TreeOptions tunes the folder tree projection.
type TreeOptions struct {
	// AllTitle is the title of the synthetic "all" folder.
	AllTitle string

	// ExpandDepth: folders shallower than this start expanded. Zero means
	// the default of 2.
	ExpandDepth int

	// CollapseAll starts every folder collapsed, ignoring ExpandDepth.
	CollapseAll bool
}

// DefaultTreeOptions returns the standard projection options.
func DefaultTreeOptions() TreeOptions {
	return TreeOptions{
		AllTitle:    "All",
		ExpandDepth: 2,
	}
}

// ProjectTree turns the raw bookmark roots into the sidebar folder tree.
// The first folder root causes a synthetic "all" node to be emitted ahead of
// everything else. Folders below the roots start at depth 0; links are
// dropped. Counts come from info and default to 0.
// Never fails: leaf roots are ignored and an empty input gives an empty tree.
func ProjectTree(raw []model.RawNode, info map[string]model.FolderInfo, total int, opts TreeOptions) []*model.FolderNode {
	opts = opts.WithDefaults()
	result := []*model.FolderNode{}
	allEmitted := false

	for _, root := range raw {
		if !root.IsFolder() {
			continue
		}

		if !allEmitted {
			result = append(result, &model.FolderNode{
				ID:            model.AllFolderID,
				Title:         opts.AllTitle,
				Icon:          DefaultIcon,
				BookmarkCount: total,
				IsSpecial:     true,
				IsExpanded:    true,
				Children:      []*model.FolderNode{},
			})
			allEmitted = true
		}

		for _, child := range root.Children {
			if child.IsFolder() {
				result = append(result, projectFolder(child, info, 0, opts))
			}
		}
	}

	return result
}

func projectFolder(node model.RawNode, info map[string]model.FolderInfo, depth int, opts TreeOptions) *model.FolderNode {
	folder := &model.FolderNode{
		ID:            node.ID,
		Title:         node.Title,
		ParentID:      node.ParentID,
		Icon:          IconFor(node.Title),
		BookmarkCount: info[node.ID].BookmarkCount,
		Depth:         depth,
		IsExpanded:    !opts.CollapseAll && depth < opts.ExpandDepth,
		Children:      []*model.FolderNode{},
	}

	for _, child := range node.Children {
		if child.IsFolder() {
			folder.Children = append(folder.Children, projectFolder(child, info, depth+1, opts))
		}
	}

	return folder
}

// WithDefaults fills unset fields from DefaultTreeOptions.
func (o TreeOptions) WithDefaults() TreeOptions {
	defaults := DefaultTreeOptions()
	if o.AllTitle == "" {
		o.AllTitle = defaults.AllTitle
	}
	if o.ExpandDepth <= 0 {
		o.ExpandDepth = defaults.ExpandDepth
	}
	return o
}

// WalkTree visits every node depth-first, parents before children.
func WalkTree(tree []*model.FolderNode, fn func(*model.FolderNode)) {
	for _, node := range tree {
		fn(node)
		WalkTree(node.Children, fn)
	}
}
