package tui

import "github.com/nikbrunner/favdash/internal/model"

// Row is one visible line of the sidebar tree.
type Row struct {
	Node     *model.FolderNode
	Depth    int
	Expanded bool
}

// ID returns the folder id of the row.
func (r Row) ID() string {
	return r.Node.ID
}

// HasChildren reports whether the folder has subfolders to expand.
func (r Row) HasChildren() bool {
	return len(r.Node.Children) > 0
}

// Expansion tracks folders the user opened or closed. Folders without an
// entry keep the expansion the projection gave them.
type Expansion map[string]bool

// IsExpanded reports whether node is currently expanded.
func (e Expansion) IsExpanded(node *model.FolderNode) bool {
	if open, ok := e[node.ID]; ok {
		return open
	}
	return node.IsExpanded
}

// FlattenTree lists the visible rows of tree: every root, plus the children
// of each expanded folder, parents first.
func FlattenTree(tree []*model.FolderNode, expansion Expansion) []Row {
	rows := []Row{}
	var walk func(nodes []*model.FolderNode, depth int)
	walk = func(nodes []*model.FolderNode, depth int) {
		for _, node := range nodes {
			open := expansion.IsExpanded(node)
			rows = append(rows, Row{Node: node, Depth: depth, Expanded: open})
			if open {
				walk(node.Children, depth+1)
			}
		}
	}
	walk(tree, 0)
	return rows
}

// parentRow returns the index of the nearest row above i that is one level
// shallower, or -1.
func parentRow(rows []Row, i int) int {
	if i < 0 || i >= len(rows) {
		return -1
	}
	for j := i - 1; j >= 0; j-- {
		if rows[j].Depth < rows[i].Depth {
			return j
		}
	}
	return -1
}

// indexOfFolder returns the row index of folder id, or -1.
func indexOfFolder(rows []Row, id string) int {
	for i, r := range rows {
		if r.ID() == id {
			return i
		}
	}
	return -1
}
