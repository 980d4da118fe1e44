package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/nikbrunner/favdash/internal/debounce"
	"github.com/nikbrunner/favdash/internal/model"
)

// ChromiumRoots are the top-level nodes of a Chromium Bookmarks file, in
// display order.
var ChromiumRoots = []string{"bookmark_bar", "other", "synced"}

// windowsEpochOffset is the number of microseconds between 1601-01-01 and
// the Unix epoch. Chromium stores timestamps relative to 1601.
const windowsEpochOffset = 11644473600000000

// watchSettle coalesces the burst of events a single browser save produces.
const watchSettle = 100 * time.Millisecond

// Chromium reads the Bookmarks file of a Chromium-based browser profile.
// The browser owns the file, so the source is read-only.
type Chromium struct {
	path string
	log  logrus.FieldLogger

	notifier Notifier
}

// NewChromium creates a source reading the Bookmarks file at path.
func NewChromium(path string, log logrus.FieldLogger) *Chromium {
	return &Chromium{
		path: filepath.Clean(path),
		log:  log.WithField("source", "chromium"),
	}
}

// Path returns the Bookmarks file path.
func (c *Chromium) Path() string {
	return c.path
}

// Fetch reads and parses the Bookmarks file.
func (c *Chromium) Fetch(ctx context.Context) (*model.RawCache, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("reading chromium bookmarks: %w", err)
	}

	tree, err := ParseChromium(data)
	if err != nil {
		return nil, err
	}

	cache := Summarize(tree)
	c.log.WithFields(logrus.Fields{
		"folders": cache.TotalFolders,
		"links":   cache.TotalBookmarks,
	}).Debug("chromium bookmarks fetched")
	return cache, nil
}

// ParseChromium parses Chromium Bookmarks JSON into raw roots. Missing roots
// are skipped; nodes of unknown type are dropped.
func ParseChromium(data []byte) ([]model.RawNode, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("chromium bookmarks: invalid JSON")
	}

	roots := gjson.GetBytes(data, "roots")
	if !roots.IsObject() {
		return nil, fmt.Errorf("chromium bookmarks: missing roots")
	}

	tree := []model.RawNode{}
	for _, key := range ChromiumRoots {
		r := roots.Get(key)
		if !r.Exists() {
			continue
		}
		if node, ok := parseChromiumNode(r, ""); ok {
			tree = append(tree, node)
		}
	}
	return tree, nil
}

func parseChromiumNode(r gjson.Result, parentID string) (model.RawNode, bool) {
	id := model.CanonicalID(r.Get("id").String())
	title := r.Get("name").String()

	switch r.Get("type").String() {
	case "folder":
		folder := model.NewRawFolder(id, title, parentID)
		folder.DateAdded = chromiumTime(r.Get("date_added").String())
		r.Get("children").ForEach(func(_, child gjson.Result) bool {
			if node, ok := parseChromiumNode(child, id); ok {
				folder.Children = append(folder.Children, node)
			}
			return true
		})
		return folder, true

	case "url":
		leaf := model.NewRawLeaf(id, title, r.Get("url").String(), parentID)
		leaf.DateAdded = chromiumTime(r.Get("date_added").String())
		return leaf, true

	default:
		return model.RawNode{}, false
	}
}

// chromiumTime converts microseconds since 1601-01-01 to a time.
// Zero or unparsable values give the zero time.
func chromiumTime(v string) time.Time {
	us, err := strconv.ParseInt(v, 10, 64)
	if err != nil || us <= 0 {
		return time.Time{}
	}
	return time.UnixMicro(us - windowsEpochOffset).UTC()
}

// Subscribe registers fn for change notifications. Events only arrive
// while Watch runs.
func (c *Chromium) Subscribe(fn func(ChangeEvent)) (unsubscribe func()) {
	return c.notifier.Subscribe(fn)
}

// Move is not supported.
func (c *Chromium) Move(ctx context.Context, id, targetFolderID string) error {
	return ErrReadOnly
}

// Delete is not supported.
func (c *Chromium) Delete(ctx context.Context, id string) error {
	return ErrReadOnly
}

// Watch emits a ChangeChanged event whenever the browser rewrites the
// Bookmarks file, until ctx is cancelled. The directory is watched because
// browsers replace the file by rename.
func (c *Chromium) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(c.path), err)
	}

	settle := debounce.New(watchSettle)
	defer settle.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != c.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			c.log.WithField("op", ev.Op.String()).Debug("bookmarks file changed")
			settle.Trigger(func() {
				c.notifier.Notify(ChangeEvent{Kind: ChangeChanged})
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.log.WithError(err).Warn("watch error")
		}
	}
}
