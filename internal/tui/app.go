// Package tui is the terminal dashboard: a folder sidebar next to the links
// of the selected folder, with debounced search over every link.
package tui

import (
	"errors"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/favdash/internal/browser"
	"github.com/nikbrunner/favdash/internal/cache"
	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/search"
	"github.com/nikbrunner/favdash/internal/source"
	"github.com/nikbrunner/favdash/internal/tui/layout"
)

// App is the main bubbletea model for the dashboard.
type App struct {
	cache    *cache.Client
	searcher *search.Manager
	keys     KeyMap
	styles   Styles

	layoutConfig layout.LayoutConfig

	openURL  func(string) error
	copyText func(string) error

	// Subscriptions, shared by every copy of the model
	events      chan cache.Event
	results     chan search.State
	unsubscribe []func()
	ownsSearch  bool

	// Data
	snap     *model.Snapshot
	tree     []*model.FolderNode
	stats    model.Stats
	loading  bool
	rows     []Row
	expanded Expansion
	links    []model.Link

	// Navigation state
	mode           Mode
	focusedPane    Pane
	folderCursor   int
	linkCursor     int
	selectedFolder string
	pendingDelete  *model.Link
	search         SearchState

	// For gg command
	lastKeyWasG bool

	// Status message
	messageText string
	messageType MessageType

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Cache *cache.Client

	// Search runs the debounced searches. A manager over Cache is created
	// when nil.
	Search *search.Manager

	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil

	// OpenURL and CopyToClipboard default to the system browser and
	// clipboard.
	OpenURL         func(string) error
	CopyToClipboard func(string) error
}

// NewApp creates a new App with the given parameters. A snapshot already
// held by the cache is shown right away.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	openURL := params.OpenURL
	if openURL == nil {
		openURL = browser.Open
	}
	copyText := params.CopyToClipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	searcher := params.Search
	ownsSearch := false
	if searcher == nil {
		searcher = search.NewManager(params.Cache, search.ManagerOptions{})
		ownsSearch = true
	}

	app := App{
		cache:          params.Cache,
		searcher:       searcher,
		keys:           keys,
		styles:         styles,
		layoutConfig:   layoutCfg,
		openURL:        openURL,
		copyText:       copyText,
		events:         make(chan cache.Event, 1),
		results:        make(chan search.State, 1),
		ownsSearch:     ownsSearch,
		tree:           []*model.FolderNode{},
		rows:           []Row{},
		expanded:       Expansion{},
		links:          []model.Link{},
		selectedFolder: model.AllFolderID,
		search:         NewSearchState(layoutCfg),
		width:          80,
		height:         24,
	}

	events, results := app.events, app.results
	app.unsubscribe = []func(){
		params.Cache.Subscribe(func(ev cache.Event) { offerLatest(events, ev) }),
		searcher.OnResultsUpdated(func(st search.State) { offerLatest(results, st) }),
	}

	if snap := params.Cache.Snapshot(); snap != nil {
		app.applySnapshot(snap)
	} else {
		app.loading = true
	}
	return app
}

// Close releases the subscriptions of the app. Call it after the program
// has exited.
func (a App) Close() {
	for _, unsubscribe := range a.unsubscribe {
		unsubscribe()
	}
	if a.ownsSearch {
		a.searcher.Close()
	}
}

// WithDimensions returns a copy of the app with fixed dimensions.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Mode returns the current interaction mode.
func (a App) Mode() Mode {
	return a.mode
}

// FocusedPane returns the pane that has focus.
func (a App) FocusedPane() Pane {
	return a.focusedPane
}

// SelectedFolderID returns the folder whose links are shown.
func (a App) SelectedFolderID() string {
	return a.selectedFolder
}

// Rows returns the visible sidebar rows.
func (a App) Rows() []Row {
	return a.rows
}

// Links returns the links shown in the links pane.
func (a App) Links() []model.Link {
	if a.mode == ModeSearch || a.search.Query != "" {
		return a.search.Results
	}
	return a.links
}

// SelectedLink returns the link under the cursor in the links pane.
func (a App) SelectedLink() (model.Link, bool) {
	links := a.Links()
	cursor := a.linkCursor
	if a.mode == ModeSearch || a.search.Query != "" {
		cursor = a.search.Cursor
	}
	if cursor < 0 || cursor >= len(links) {
		return model.Link{}, false
	}
	return links[cursor], true
}

// Message returns the current status message.
func (a App) Message() string {
	return a.messageText
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadCmd(a.cache, false),
		waitForCacheEvent(a.events),
		waitForSearch(a.results),
	)
}

// applySnapshot shows snap, keeping the selected folder when it still exists.
func (a *App) applySnapshot(snap *model.Snapshot) {
	a.loading = false
	a.snap = snap
	a.tree = snap.Tree
	a.stats = snap.Stats()
	a.rows = FlattenTree(a.tree, a.expanded)

	idx := indexOfFolder(a.rows, a.selectedFolder)
	if idx < 0 {
		idx = 0
	}
	a.folderCursor = idx
	a.selectFolderAtCursor(false)
}

// selectFolderAtCursor loads the links of the folder under the sidebar cursor.
func (a *App) selectFolderAtCursor(resetLinkCursor bool) {
	if len(a.rows) == 0 {
		a.folderCursor = 0
		a.links = []model.Link{}
		a.linkCursor = 0
		return
	}
	if a.folderCursor >= len(a.rows) {
		a.folderCursor = len(a.rows) - 1
	}

	a.selectedFolder = a.rows[a.folderCursor].ID()
	a.links = a.snap.LinksInFolder(a.selectedFolder)
	if resetLinkCursor || a.linkCursor >= len(a.links) {
		a.linkCursor = 0
	}
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

func (a *App) clearMessage() {
	a.messageType = MessageNone
	a.messageText = ""
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case snapshotMsg:
		a.applySnapshot(msg.snap)
		return a, nil

	case loadErrMsg:
		a.loading = false
		a.setMessage(MessageError, msg.err.Error())
		return a, nil

	case cacheEventMsg:
		switch msg.ev.Kind {
		case cache.EventLoaded:
			a.applySnapshot(msg.ev.Snapshot)
		case cache.EventError:
			a.loading = false
			a.setMessage(MessageError, msg.ev.Err.Error())
		}
		return a, waitForCacheEvent(a.events)

	case searchResultsMsg:
		if a.mode == ModeSearch || a.search.Query != "" {
			a.search.apply(msg.state)
		}
		return a, waitForSearch(a.results)

	case deletedMsg:
		switch {
		case errors.Is(msg.err, source.ErrReadOnly):
			a.setMessage(MessageWarning, "This source is read-only")
		case msg.err != nil:
			a.setMessage(MessageError, msg.err.Error())
		default:
			a.setMessage(MessageSuccess, "Deleted "+msg.link.Title)
			if snap := a.cache.Snapshot(); snap != nil {
				a.applySnapshot(snap)
			}
		}
		return a, nil

	case actionMsg:
		if msg.err != nil {
			a.setMessage(MessageError, msg.err.Error())
		} else {
			a.setMessage(MessageSuccess, msg.text)
		}
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeHelp:
			return a.updateHelpMode(msg)
		case ModeConfirmDelete:
			return a.updateConfirmDeleteMode(msg)
		case ModeSearch:
			return a.updateSearchMode(msg)
		default:
			return a.updateNormalMode(msg)
		}
	}

	return a, nil
}

func (a App) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.lastKeyWasG = false
			a.moveCursor(-a.listLen())
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false
	a.clearMessage()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp

	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)

	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)

	case key.Matches(msg, a.keys.Bottom):
		a.moveCursor(a.listLen())

	case key.Matches(msg, a.keys.Switch):
		if a.focusedPane == PaneSidebar {
			a.focusedPane = PaneLinks
		} else {
			a.focusedPane = PaneSidebar
		}

	case key.Matches(msg, a.keys.Collapse):
		a.collapse()

	case key.Matches(msg, a.keys.Expand):
		a.expand()

	case key.Matches(msg, a.keys.Escape):
		if a.search.Query != "" {
			a.search.Reset()
		}

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.focusedPane = PaneLinks
		a.search.Input.SetValue(a.search.Query)
		a.search.Input.CursorEnd()
		return a, a.search.Input.Focus()

	case key.Matches(msg, a.keys.Refresh):
		a.loading = true
		a.setMessage(MessageInfo, "Refreshing...")
		return a, loadCmd(a.cache, true)

	case key.Matches(msg, a.keys.Open):
		if a.focusedPane == PaneSidebar {
			a.focusedPane = PaneLinks
			return a, nil
		}
		if link, ok := a.SelectedLink(); ok {
			return a, openCmd(a.openURL, link)
		}

	case key.Matches(msg, a.keys.YankURL):
		if link, ok := a.SelectedLink(); ok && a.focusedPane == PaneLinks {
			if err := a.copyText(link.URL); err != nil {
				a.setMessage(MessageError, "Copy failed: "+err.Error())
			} else {
				a.setMessage(MessageSuccess, "Yanked "+link.URL)
			}
		}

	case key.Matches(msg, a.keys.Delete):
		if link, ok := a.SelectedLink(); ok && a.focusedPane == PaneLinks {
			a.pendingDelete = &link
			a.mode = ModeConfirmDelete
		}
	}

	return a, nil
}

func (a App) updateSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		a.mode = ModeNormal
		a.search.Reset()
		a.searcher.SetQuery("")
		return a, nil

	case "enter":
		// Keep the results on screen for browsing.
		if a.search.Pending {
			a.searcher.Flush(a.search.Input.Value())
			a.search.apply(a.searcher.Current())
		}
		a.mode = ModeNormal
		a.search.Input.Blur()
		if link, ok := a.SelectedLink(); ok {
			return a, openCmd(a.openURL, link)
		}
		return a, nil

	case "down", "ctrl+n", "ctrl+j":
		if a.search.Cursor < len(a.search.Results)-1 {
			a.search.Cursor++
		}
		return a, nil

	case "up", "ctrl+p", "ctrl+k":
		if a.search.Cursor > 0 {
			a.search.Cursor--
		}
		return a, nil
	}

	before := a.search.Input.Value()
	var cmd tea.Cmd
	a.search.Input, cmd = a.search.Input.Update(msg)
	if value := a.search.Input.Value(); value != before {
		a.search.Pending = true
		a.search.Cursor = 0
		a.searcher.SetQuery(value)
	}
	return a, cmd
}

func (a App) updateConfirmDeleteMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	link := a.pendingDelete
	switch {
	case key.Matches(msg, a.keys.Confirm):
		a.mode = ModeNormal
		a.pendingDelete = nil
		if link != nil {
			return a, deleteCmd(a.cache, *link)
		}
	case key.Matches(msg, a.keys.Escape), msg.String() == "n", key.Matches(msg, a.keys.Quit):
		a.mode = ModeNormal
		a.pendingDelete = nil
	}
	return a, nil
}

func (a App) updateHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.Escape) || key.Matches(msg, a.keys.Quit) {
		a.mode = ModeNormal
	}
	return a, nil
}

// listLen is the length of the list in the focused pane.
func (a App) listLen() int {
	if a.focusedPane == PaneSidebar {
		return len(a.rows)
	}
	return len(a.Links())
}

// moveCursor moves the cursor of the focused pane by delta, clamped.
func (a *App) moveCursor(delta int) {
	n := a.listLen()
	if n == 0 {
		return
	}
	clamp := func(i int) int {
		return min(max(i, 0), n-1)
	}

	switch {
	case a.focusedPane == PaneSidebar:
		next := clamp(a.folderCursor + delta)
		if next != a.folderCursor {
			a.folderCursor = next
			a.selectFolderAtCursor(true)
		}
	case a.search.Query != "":
		a.search.Cursor = clamp(a.search.Cursor + delta)
	default:
		a.linkCursor = clamp(a.linkCursor + delta)
	}
}

// collapse closes the folder under the cursor, or jumps to its parent when
// it is already closed. In the links pane it returns to the sidebar.
func (a *App) collapse() {
	if a.focusedPane == PaneLinks {
		a.focusedPane = PaneSidebar
		return
	}
	if len(a.rows) == 0 {
		return
	}

	row := a.rows[a.folderCursor]
	if row.Expanded && row.HasChildren() {
		a.expanded[row.ID()] = false
		a.rows = FlattenTree(a.tree, a.expanded)
		return
	}
	if parent := parentRow(a.rows, a.folderCursor); parent >= 0 {
		a.folderCursor = parent
		a.selectFolderAtCursor(true)
	}
}

// expand opens the folder under the cursor. A folder that is already open,
// or has nothing to open, hands focus to the links pane.
func (a *App) expand() {
	if a.focusedPane == PaneLinks || len(a.rows) == 0 {
		return
	}

	row := a.rows[a.folderCursor]
	if !row.Expanded && row.HasChildren() {
		a.expanded[row.ID()] = true
		a.rows = FlattenTree(a.tree, a.expanded)
		return
	}
	a.focusedPane = PaneLinks
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}

// syncAge describes how long ago the shown snapshot was taken.
func (a App) syncAge(now time.Time) string {
	if a.stats.LastSync.IsZero() {
		return "never"
	}
	return formatTimeAgo(now.Sub(a.stats.LastSync))
}
