// Package cache keeps the projected bookmark snapshot of a source up to date.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/nikbrunner/favdash/internal/logging"
	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/projection"
	"github.com/nikbrunner/favdash/internal/search"
	"github.com/nikbrunner/favdash/internal/source"
)

// DefaultFreshness is how long a snapshot is served without refetching.
const DefaultFreshness = 5 * time.Minute

// ErrFetch wraps every failure to fetch from the source.
var ErrFetch = errors.New("fetching bookmarks failed")

// State is the lifecycle state of a Client.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// EventKind says what a load produced.
type EventKind int

const (
	EventLoaded EventKind = iota
	EventError
)

// Event is published after every fetch. On EventError, Snapshot is the last
// good snapshot (possibly nil).
type Event struct {
	Kind     EventKind
	Snapshot *model.Snapshot
	Err      error
}

// Options configures a Client.
type Options struct {
	Freshness time.Duration
	Tree      projection.TreeOptions
	Now       func() time.Time
	Logger    logrus.FieldLogger
}

// watcher is implemented by sources that only notify while watching.
type watcher interface {
	Watch(ctx context.Context) error
}

// Client serves projected snapshots of a source. Snapshots are immutable
// and replaced wholesale; readers never see a partially built one.
type Client struct {
	src  source.Source
	opts Options
	log  logrus.FieldLogger

	snap  atomic.Pointer[model.Snapshot]
	group singleflight.Group

	mu          sync.Mutex
	state       State
	lastErr     error
	listeners   map[int]func(Event)
	nextID      int
	unsubscribe func()
	cancel      context.CancelFunc
	stopped     bool // guards wg.Add against a concurrent Stop
	wg          sync.WaitGroup
}

// New creates a Client for src. Nothing is fetched until the first Load.
func New(src source.Source, opts Options) *Client {
	if opts.Freshness <= 0 {
		opts.Freshness = DefaultFreshness
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Log
	}
	opts.Tree = opts.Tree.WithDefaults()

	return &Client{
		src:       src,
		opts:      opts,
		log:       opts.Logger,
		listeners: make(map[int]func(Event)),
	}
}

// Load returns the current snapshot, fetching a new one when there is none,
// it is older than the freshness window, or force is set. Concurrent loads
// share one fetch. On failure the previous snapshot stays in place and the
// returned error wraps ErrFetch.
func (c *Client) Load(ctx context.Context, force bool) (*model.Snapshot, error) {
	if !force {
		if s := c.snap.Load(); s != nil && c.fresh(s) {
			return s, nil
		}
	}

	ch := c.group.DoChan("load", func() (interface{}, error) {
		// The fetch outlives a caller that gives up; others may be waiting on it.
		return c.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Snapshot), nil
	}
}

// Refresh fetches a new snapshot regardless of freshness.
func (c *Client) Refresh(ctx context.Context) (*model.Snapshot, error) {
	return c.Load(ctx, true)
}

func (c *Client) fresh(s *model.Snapshot) bool {
	return c.opts.Now().Sub(s.LastSync) < c.opts.Freshness
}

func (c *Client) fetch(ctx context.Context) (*model.Snapshot, error) {
	c.setState(StateLoading, nil)
	start := c.opts.Now()

	raw, err := c.src.Fetch(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFetch, err)
		c.setState(StateError, err)
		c.log.WithError(err).Warn("bookmark fetch failed, keeping previous snapshot")
		c.emit(Event{Kind: EventError, Snapshot: c.snap.Load(), Err: err})
		return nil, err
	}

	snap := projection.Project(raw, c.opts.Tree, c.opts.Now())
	c.snap.Store(snap)
	c.setState(StateReady, nil)

	c.log.WithFields(logrus.Fields{
		"folders": snap.TotalFolders,
		"links":   snap.TotalBookmarks,
		"took":    c.opts.Now().Sub(start),
	}).Debug("snapshot refreshed")
	c.emit(Event{Kind: EventLoaded, Snapshot: snap})
	return snap, nil
}

func (c *Client) setState(state State, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	if state != StateLoading {
		c.lastErr = err
	}
}

func (c *Client) emit(ev Event) {
	c.mu.Lock()
	listeners := make([]func(Event), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Subscribe registers fn for load events.
func (c *Client) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Start refreshes in the background whenever the source reports a change.
// Sources that need watching are watched until Stop. Refresh errors are
// logged, never fatal. Start is a no-op when already started.
func (c *Client) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.stopped = false

	c.unsubscribe = c.src.Subscribe(func(ev source.ChangeEvent) {
		// A notifier may still hold this listener after Stop unsubscribed it.
		c.mu.Lock()
		if c.stopped || ctx.Err() != nil {
			c.mu.Unlock()
			return
		}
		c.wg.Add(1)
		c.mu.Unlock()

		c.log.WithFields(logrus.Fields{
			"change": ev.Kind.String(),
			"id":     ev.ID,
		}).Debug("source changed, refreshing")

		go func() {
			defer c.wg.Done()
			if _, err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
				c.log.WithError(err).Warn("background refresh failed")
			}
		}()
	})

	if w, ok := c.src.(watcher); ok {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			if err := w.Watch(ctx); err != nil {
				c.log.WithError(err).Warn("watching source failed")
			}
		}()
	}
}

// Stop ends change tracking and waits for background work to finish.
func (c *Client) Stop() {
	c.mu.Lock()
	unsubscribe, cancel := c.unsubscribe, c.cancel
	c.unsubscribe, c.cancel = nil, nil
	c.stopped = true
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// Move moves a bookmark or folder in the source and refreshes.
func (c *Client) Move(ctx context.Context, id, targetFolderID string) error {
	if err := c.src.Move(ctx, id, targetFolderID); err != nil {
		return err
	}
	_, err := c.Refresh(ctx)
	return err
}

// Delete removes a bookmark or folder from the source and refreshes.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.src.Delete(ctx, id); err != nil {
		return err
	}
	_, err := c.Refresh(ctx)
	return err
}

// Snapshot returns the current snapshot, or nil before the first load.
func (c *Client) Snapshot() *model.Snapshot {
	return c.snap.Load()
}

// FolderTree returns the sidebar tree of the current snapshot.
func (c *Client) FolderTree() []*model.FolderNode {
	if s := c.snap.Load(); s != nil {
		return s.Tree
	}
	return []*model.FolderNode{}
}

// AllLinks returns every link of the current snapshot.
func (c *Client) AllLinks() []model.Link {
	if s := c.snap.Load(); s != nil {
		return s.Links
	}
	return []model.Link{}
}

// BookmarksInFolder returns the links directly inside folderID, in order.
// The "all" folder yields every link.
func (c *Client) BookmarksInFolder(folderID string) []model.Link {
	return c.snap.Load().LinksInFolder(folderID)
}

// Folder returns the folder entry for id, or nil.
func (c *Client) Folder(id string) *model.FolderEntry {
	return c.snap.Load().Folder(id)
}

// Stats returns the counters of the current snapshot.
func (c *Client) Stats() model.Stats {
	return c.snap.Load().Stats()
}

// Search filters the current links synchronously.
func (c *Client) Search(query string) []model.Link {
	return search.Filter(c.AllLinks(), query)
}

// TopSites returns the n sites with the most links.
func (c *Client) TopSites(n int) []projection.SiteCount {
	return projection.TopSites(c.AllLinks(), n)
}

// State returns the lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the error of the last failed fetch, cleared by the
// next successful one.
func (c *Client) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
