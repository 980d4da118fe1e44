package source

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/storage"
)

// Library root node.
const (
	LibraryRootID    = "root"
	LibraryRootTitle = "Library"
)

// Library is the local favdash bookmark library, persisted through a
// storage backend. Every mutation loads, modifies and saves the whole store.
type Library struct {
	storage storage.Storage
	log     logrus.FieldLogger

	mu       sync.Mutex
	notifier Notifier
}

// NewLibrary creates a Library over st.
func NewLibrary(st storage.Storage, log logrus.FieldLogger) *Library {
	return &Library{
		storage: st,
		log:     log.WithField("source", "library"),
	}
}

// Path returns where the library is stored.
func (l *Library) Path() string {
	return l.storage.Path()
}

// Fetch builds the raw tree: one synthetic root holding the top-level
// folders followed by the root-level bookmarks.
func (l *Library) Fetch(ctx context.Context) (*model.RawCache, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	store, err := l.storage.Load()
	l.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("loading library: %w", err)
	}

	root := model.NewRawFolder(LibraryRootID, LibraryRootTitle, "", libraryChildren(store, nil, LibraryRootID)...)
	cache := Summarize([]model.RawNode{root})

	l.log.WithFields(logrus.Fields{
		"folders": cache.TotalFolders,
		"links":   cache.TotalBookmarks,
	}).Debug("library fetched")
	return cache, nil
}

func libraryChildren(store *model.Store, parentID *string, parentNodeID string) []model.RawNode {
	children := []model.RawNode{}

	for _, f := range store.GetFoldersInFolder(parentID) {
		id := f.ID
		folder := model.NewRawFolder(f.ID, f.Title, parentNodeID, libraryChildren(store, &id, f.ID)...)
		folder.DateAdded = f.CreatedAt
		children = append(children, folder)
	}

	for _, b := range store.GetBookmarksInFolder(parentID) {
		leaf := model.NewRawLeaf(b.ID, b.Title, b.URL, parentNodeID)
		leaf.IconURL = b.IconURL
		leaf.DateAdded = b.CreatedAt
		children = append(children, leaf)
	}

	return children
}

// Subscribe registers fn for change notifications.
func (l *Library) Subscribe(fn func(ChangeEvent)) (unsubscribe func()) {
	return l.notifier.Subscribe(fn)
}

// Store returns a fresh copy of the persisted library.
func (l *Library) Store(ctx context.Context) (*model.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.storage.Load()
}

// update runs fn against the loaded store and saves the result. The event
// returned by fn is published after a successful save.
func (l *Library) update(ctx context.Context, fn func(*model.Store) (ChangeEvent, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	store, err := l.storage.Load()
	if err != nil {
		l.mu.Unlock()
		return fmt.Errorf("loading library: %w", err)
	}

	ev, err := fn(store)
	if err != nil {
		l.mu.Unlock()
		return err
	}

	if err := l.storage.Save(store); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("saving library: %w", err)
	}
	l.mu.Unlock()

	l.log.WithFields(logrus.Fields{
		"change": ev.Kind.String(),
		"id":     ev.ID,
	}).Debug("library changed")
	l.notifier.Notify(ev)
	return nil
}

// folderRef maps a node id to a store folder reference; the root maps to nil.
func folderRef(store *model.Store, id string) (*string, error) {
	id = model.CanonicalID(id)
	if id == "" || id == LibraryRootID {
		return nil, nil
	}
	if store.GetFolderByID(id) == nil {
		return nil, fmt.Errorf("folder %q: %w", id, ErrNotFound)
	}
	return &id, nil
}

func nodeID(ref *string) string {
	if ref == nil {
		return LibraryRootID
	}
	return *ref
}

// Move puts the bookmark or folder id into targetFolderID ("" or "root"
// for the top level).
func (l *Library) Move(ctx context.Context, id, targetFolderID string) error {
	id = model.CanonicalID(id)
	return l.update(ctx, func(store *model.Store) (ChangeEvent, error) {
		target, err := folderRef(store, targetFolderID)
		if err != nil {
			return ChangeEvent{}, err
		}
		ev := ChangeEvent{Kind: ChangeMoved, ID: id, ParentID: nodeID(target)}

		if b := store.GetBookmarkByID(id); b != nil {
			ev.OldParentID = nodeID(b.FolderID)
			store.MoveBookmark(id, target)
			return ev, nil
		}

		if f := store.GetFolderByID(id); f != nil {
			ev.OldParentID = nodeID(f.ParentID)
			if !store.MoveFolder(id, target) {
				return ChangeEvent{}, fmt.Errorf("moving %q into %q: %w", id, nodeID(target), ErrInvalidMove)
			}
			return ev, nil
		}

		return ChangeEvent{}, fmt.Errorf("%q: %w", id, ErrNotFound)
	})
}

// Delete removes a bookmark, or a folder with everything inside it.
func (l *Library) Delete(ctx context.Context, id string) error {
	id = model.CanonicalID(id)
	return l.update(ctx, func(store *model.Store) (ChangeEvent, error) {
		if b := store.GetBookmarkByID(id); b != nil {
			ev := ChangeEvent{Kind: ChangeRemoved, ID: id, ParentID: nodeID(b.FolderID)}
			store.DeleteBookmark(id)
			return ev, nil
		}
		if f := store.GetFolderByID(id); f != nil {
			ev := ChangeEvent{Kind: ChangeRemoved, ID: id, ParentID: nodeID(f.ParentID)}
			store.DeleteFolder(id)
			return ev, nil
		}
		return ChangeEvent{}, fmt.Errorf("%q: %w", id, ErrNotFound)
	})
}

// CreateBookmark adds a bookmark to folderID ("" or "root" for the top level).
func (l *Library) CreateBookmark(ctx context.Context, title, url, folderID string) (model.Bookmark, error) {
	var created model.Bookmark
	err := l.update(ctx, func(store *model.Store) (ChangeEvent, error) {
		parent, err := folderRef(store, folderID)
		if err != nil {
			return ChangeEvent{}, err
		}
		url = strings.TrimSpace(url)
		if url == "" {
			return ChangeEvent{}, fmt.Errorf("bookmark URL must not be empty")
		}
		if title = strings.TrimSpace(title); title == "" {
			title = url
		}

		created = model.NewBookmark(model.NewBookmarkParams{Title: title, URL: url, FolderID: parent})
		store.AddBookmark(created)
		return ChangeEvent{Kind: ChangeCreated, ID: created.ID, ParentID: nodeID(parent)}, nil
	})
	return created, err
}

// CreateFolder adds a folder below parentID ("" or "root" for the top level).
func (l *Library) CreateFolder(ctx context.Context, title, parentID string) (model.Folder, error) {
	var created model.Folder
	err := l.update(ctx, func(store *model.Store) (ChangeEvent, error) {
		parent, err := folderRef(store, parentID)
		if err != nil {
			return ChangeEvent{}, err
		}
		if title = strings.TrimSpace(title); title == "" {
			return ChangeEvent{}, fmt.Errorf("folder title must not be empty")
		}

		created = model.NewFolder(model.NewFolderParams{Title: title, ParentID: parent})
		store.AddFolder(created)
		return ChangeEvent{Kind: ChangeCreated, ID: created.ID, ParentID: nodeID(parent)}, nil
	})
	return created, err
}

// Rename changes the title of a bookmark or folder.
func (l *Library) Rename(ctx context.Context, id, title string) error {
	id = model.CanonicalID(id)
	title = strings.TrimSpace(title)
	return l.update(ctx, func(store *model.Store) (ChangeEvent, error) {
		if title == "" {
			return ChangeEvent{}, fmt.Errorf("title must not be empty")
		}
		if b := store.GetBookmarkByID(id); b != nil {
			store.RenameBookmark(id, title)
			return ChangeEvent{Kind: ChangeChanged, ID: id, ParentID: nodeID(b.FolderID)}, nil
		}
		if f := store.GetFolderByID(id); f != nil {
			f.Title = title
			return ChangeEvent{Kind: ChangeChanged, ID: id, ParentID: nodeID(f.ParentID)}, nil
		}
		return ChangeEvent{}, fmt.Errorf("%q: %w", id, ErrNotFound)
	})
}

// Import merges parsed folders and bookmarks into the library, skipping
// URLs that are already present.
func (l *Library) Import(ctx context.Context, folders []model.Folder, bookmarks []model.Bookmark) (added, skipped int, err error) {
	err = l.update(ctx, func(store *model.Store) (ChangeEvent, error) {
		added, skipped = store.ImportMerge(folders, bookmarks)
		return ChangeEvent{Kind: ChangeChanged, ID: LibraryRootID}, nil
	})
	return added, skipped, err
}
