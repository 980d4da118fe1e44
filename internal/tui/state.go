package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/search"
	"github.com/nikbrunner/favdash/internal/tui/layout"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeConfirmDelete
	ModeHelp
)

// Pane identifies which pane has focus.
type Pane int

const (
	PaneSidebar Pane = iota
	PaneLinks
)

// MessageType determines the styling of status messages.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageSuccess
	MessageWarning
	MessageError
)

// SearchState holds the search input and the last published results.
type SearchState struct {
	Input   textinput.Model
	Query   string       // query of the shown results
	Results []model.Link // results of Query, in link order
	Cursor  int          // selected result
	Pending bool         // the input changed since Results were published
}

// NewSearchState creates a SearchState with an initialized input.
func NewSearchState(cfg layout.LayoutConfig) SearchState {
	input := textinput.New()
	input.Placeholder = "Search title, URL, domain or folder..."
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.SearchWidth
	input.Prompt = "/"

	return SearchState{Input: input}
}

// Reset clears the search for a new session.
func (s *SearchState) Reset() {
	s.Input.Reset()
	s.Input.Blur()
	s.Query = ""
	s.Results = nil
	s.Cursor = 0
	s.Pending = false
}

// apply takes over a published search state unless it belongs to a query
// the user has already typed past.
func (s *SearchState) apply(st search.State) bool {
	if st.Query != s.Input.Value() {
		return false
	}
	s.Query = st.Query
	s.Results = st.Results
	s.Pending = false
	if s.Cursor >= len(s.Results) {
		s.Cursor = max(len(s.Results)-1, 0)
	}
	return true
}
