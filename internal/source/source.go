// Package source provides the bookmark sources a dashboard mirrors: the
// local favdash library and Chromium profiles.
package source

import (
	"context"
	"errors"

	"github.com/nikbrunner/favdash/internal/model"
)

var (
	// ErrNotFound is returned for ids the source doesn't know.
	ErrNotFound = errors.New("bookmark or folder not found")

	// ErrReadOnly is returned by sources that can't be modified.
	ErrReadOnly = errors.New("source is read-only")

	// ErrInvalidMove is returned when a folder would end up inside itself.
	ErrInvalidMove = errors.New("cannot move a folder into itself or one of its subfolders")
)

// Source is a hierarchical bookmark collection.
type Source interface {
	// Fetch returns the complete current state of the source.
	Fetch(ctx context.Context) (*model.RawCache, error)

	// Subscribe registers fn for change notifications.
	Subscribe(fn func(ChangeEvent)) (unsubscribe func())

	// Move puts the bookmark or folder id into targetFolderID.
	Move(ctx context.Context, id, targetFolderID string) error

	// Delete removes the bookmark or folder id. Folders go with their contents.
	Delete(ctx context.Context, id string) error
}

// ChangeKind says what happened to a node.
type ChangeKind int

const (
	ChangeCreated ChangeKind = iota
	ChangeRemoved
	ChangeChanged
	ChangeMoved
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeCreated:
		return "created"
	case ChangeRemoved:
		return "removed"
	case ChangeChanged:
		return "changed"
	case ChangeMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// ChangeEvent describes one modification of a source.
type ChangeEvent struct {
	Kind        ChangeKind
	ID          string
	ParentID    string
	OldParentID string // moves only
}
