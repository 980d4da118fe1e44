package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nikbrunner/favdash/internal/logging"
)

const chromiumFixture = `{
   "checksum": "4b1c5b3f0b1d",
   "roots": {
      "bookmark_bar": {
         "children": [ {
            "children": [ {
               "date_added": "13350000000000000",
               "id": "5",
               "name": "Jira",
               "type": "url",
               "url": "https://jira.example.com/"
            } ],
            "date_added": "13340000000000000",
            "id": "4",
            "name": "Work",
            "type": "folder"
         }, {
            "date_added": "0",
            "id": "6",
            "name": "Go",
            "type": "url",
            "url": "https://go.dev/"
         }, {
            "id": "99",
            "name": "Separator",
            "type": "separator"
         } ],
         "date_added": "13300000000000000",
         "id": "1",
         "name": "Bookmarks bar",
         "type": "folder"
      },
      "other": {
         "children": [ ],
         "id": "2",
         "name": "Other bookmarks",
         "type": "folder"
      }
   },
   "version": 1
}`

func TestParseChromium(t *testing.T) {
	tree, err := ParseChromium([]byte(chromiumFixture))
	require.NoError(t, err)

	require.Len(t, tree, 2, "missing synced root is skipped")
	bar := tree[0]
	require.Equal(t, "1", bar.ID)
	require.Equal(t, "Bookmarks bar", bar.Title)
	require.Equal(t, "", bar.ParentID)
	require.Len(t, bar.Children, 2, "unknown node types are dropped")

	work := bar.Children[0]
	require.True(t, work.IsFolder())
	require.Equal(t, "1", work.ParentID)
	require.Equal(t, "4", work.Children[0].ParentID)
	require.Equal(t, "https://jira.example.com/", work.Children[0].URL)

	other := tree[1]
	require.True(t, other.IsFolder())
	require.Empty(t, other.Children)
}

func TestParseChromium_Timestamps(t *testing.T) {
	tree, err := ParseChromium([]byte(chromiumFixture))
	require.NoError(t, err)

	// 13350000000000000us after 1601-01-01 is 2024-01-17T21:20:00Z
	jira := tree[0].Children[0].Children[0]
	require.Equal(t, time.Date(2024, 1, 17, 21, 20, 0, 0, time.UTC), jira.DateAdded)

	goLink := tree[0].Children[1]
	require.True(t, goLink.DateAdded.IsZero())
}

func TestParseChromium_Invalid(t *testing.T) {
	_, err := ParseChromium([]byte("{not json"))
	require.Error(t, err)

	_, err = ParseChromium([]byte(`{"version": 1}`))
	require.Error(t, err)
}

func writeChromium(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Bookmarks")
	require.NoError(t, os.WriteFile(path, []byte(chromiumFixture), 0644))
	return path
}

func TestChromium_Fetch(t *testing.T) {
	src := NewChromium(writeChromium(t), logging.Discard())

	cache, err := src.Fetch(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, cache.TotalBookmarks)
	require.Equal(t, 1, cache.TotalFolders)
	require.Equal(t, 1, cache.Folders["4"].BookmarkCount)
	require.Equal(t, "Work", cache.Folders["4"].Path)
}

func TestChromium_FetchMissingFile(t *testing.T) {
	src := NewChromium(filepath.Join(t.TempDir(), "Bookmarks"), logging.Discard())

	_, err := src.Fetch(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestChromium_ReadOnly(t *testing.T) {
	src := NewChromium(writeChromium(t), logging.Discard())

	require.ErrorIs(t, src.Move(context.Background(), "6", "4"), ErrReadOnly)
	require.ErrorIs(t, src.Delete(context.Background(), "6"), ErrReadOnly)
}

func TestChromium_Watch(t *testing.T) {
	path := writeChromium(t)
	src := NewChromium(path, logging.Discard())

	events := make(chan ChangeEvent, 10)
	src.Subscribe(func(ev ChangeEvent) { events <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Watch(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "Preferences"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(path, []byte(chromiumFixture), 0644))

	select {
	case ev := <-events:
		require.Equal(t, ChangeChanged, ev.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change event")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Watch did not stop on cancel")
	}
}
