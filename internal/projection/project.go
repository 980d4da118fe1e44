package projection

import (
	"time"

	"github.com/nikbrunner/favdash/internal/model"
)

// Project derives a complete snapshot from one source fetch.
// A nil raw cache projects to an empty snapshot.
func Project(raw *model.RawCache, opts TreeOptions, now time.Time) *model.Snapshot {
	if raw == nil {
		raw = &model.RawCache{}
	}

	tree := ProjectTree(raw.Tree, raw.Folders, raw.TotalBookmarks, opts)

	return &model.Snapshot{
		Tree:           tree,
		Links:          ProjectLinks(raw.Links, raw.Folders),
		Folders:        BuildFolderMap(tree, raw.Folders),
		TotalBookmarks: raw.TotalBookmarks,
		TotalFolders:   raw.TotalFolders,
		LastSync:       now,
	}
}
