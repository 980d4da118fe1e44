package source

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikbrunner/favdash/internal/model"
)

func TestSummarize(t *testing.T) {
	tree := []model.RawNode{
		model.NewRawFolder("1", "Bookmarks bar", "",
			model.NewRawFolder("2", "Work", "1",
				model.NewRawLeaf("3", "Jira", "https://jira.example.com", "2"),
				model.NewRawFolder("4", "Docs", "2",
					model.NewRawLeaf("5", "Go", "https://go.dev", "4"),
				),
				model.NewRawLeaf("6", "Mail", "https://mail.example.com", "2"),
			),
			model.NewRawLeaf("7", "News", "https://news.example.com", "1"),
		),
		model.NewRawLeaf("8", "Loose", "https://loose.example.com", ""),
	}

	cache := Summarize(tree)

	require.Equal(t, 5, cache.TotalBookmarks)
	require.Len(t, cache.Links, 5)
	require.Equal(t, 2, cache.TotalFolders)

	require.Equal(t, 2, cache.Folders["2"].BookmarkCount)
	require.Equal(t, "Work", cache.Folders["2"].Path)
	require.Equal(t, "1", cache.Folders["2"].ParentID)

	require.Equal(t, 1, cache.Folders["4"].BookmarkCount)
	require.Equal(t, "Work/Docs", cache.Folders["4"].Path)

	require.Equal(t, 1, cache.Folders["1"].BookmarkCount)
	require.Equal(t, "Bookmarks bar", cache.Folders["1"].Path)

	ids := make([]string, 0, len(cache.Links))
	for _, l := range cache.Links {
		ids = append(ids, l.ID)
	}
	require.Equal(t, []string{"3", "5", "6", "7", "8"}, ids)
}

func TestSummarize_Empty(t *testing.T) {
	cache := Summarize(nil)

	require.NotNil(t, cache.Tree)
	require.NotNil(t, cache.Links)
	require.Empty(t, cache.Folders)
	require.Zero(t, cache.TotalBookmarks)
}

func TestNotifier(t *testing.T) {
	var n Notifier
	var mu sync.Mutex
	var got []ChangeEvent

	unsubscribe := n.Subscribe(func(ev ChangeEvent) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	})
	require.Equal(t, 1, n.Len())

	n.Notify(ChangeEvent{Kind: ChangeCreated, ID: "a"})
	unsubscribe()
	unsubscribe()
	n.Notify(ChangeEvent{Kind: ChangeRemoved, ID: "b"})

	require.Equal(t, 0, n.Len())
	require.Len(t, got, 1)
	require.Equal(t, "a", got[0].ID)
}

func TestNotifier_ListenerMayUnsubscribeItself(t *testing.T) {
	var n Notifier
	calls := 0

	var unsubscribe func()
	unsubscribe = n.Subscribe(func(ChangeEvent) {
		calls++
		unsubscribe()
	})

	n.Notify(ChangeEvent{})
	n.Notify(ChangeEvent{})

	require.Equal(t, 1, calls)
}

func TestChangeKind_String(t *testing.T) {
	require.Equal(t, "created", ChangeCreated.String())
	require.Equal(t, "removed", ChangeRemoved.String())
	require.Equal(t, "changed", ChangeChanged.String())
	require.Equal(t, "moved", ChangeMoved.String())
	require.Equal(t, "unknown", ChangeKind(42).String())
}
