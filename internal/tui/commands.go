package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/favdash/internal/cache"
	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/search"
)

// snapshotMsg carries a freshly loaded snapshot.
type snapshotMsg struct {
	snap *model.Snapshot
}

// loadErrMsg reports a failed load; the previous snapshot stays on screen.
type loadErrMsg struct {
	err error
}

// cacheEventMsg forwards a cache event from its subscription.
type cacheEventMsg struct {
	ev cache.Event
}

// searchResultsMsg forwards a published search state.
type searchResultsMsg struct {
	state search.State
}

// deletedMsg reports the outcome of deleting a link.
type deletedMsg struct {
	link model.Link
	err  error
}

// actionMsg reports the outcome of a side effect like opening a link.
type actionMsg struct {
	text string
	err  error
}

func loadCmd(c *cache.Client, force bool) tea.Cmd {
	return func() tea.Msg {
		snap, err := c.Load(context.Background(), force)
		if err != nil {
			return loadErrMsg{err: err}
		}
		return snapshotMsg{snap: snap}
	}
}

func waitForCacheEvent(ch <-chan cache.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return cacheEventMsg{ev: ev}
	}
}

func waitForSearch(ch <-chan search.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return searchResultsMsg{state: st}
	}
}

func deleteCmd(c *cache.Client, link model.Link) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{link: link, err: c.Delete(context.Background(), link.ID)}
	}
}

func openCmd(open func(string) error, link model.Link) tea.Cmd {
	return func() tea.Msg {
		if err := open(link.URL); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: "Opened " + link.Title}
	}
}

// offerLatest sends v on a buffered channel, replacing a value nobody has
// picked up yet. Listeners run on other goroutines and must never block.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
