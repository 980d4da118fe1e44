// Package picker is a small list for choosing one of several search matches.
package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Underline(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// linesPerItem is the title line plus the URL line.
const linesPerItem = 2

// Picker is a simple TUI for selecting from search results.
type Picker struct {
	results   []search.Result
	query     string
	cursor    int
	offset    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a new Picker with the given search results.
func New(results []search.Result, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.scroll()
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c", "q":
			p.cancelled = true
			return p, tea.Quit
		case "enter":
			if len(p.results) == 0 {
				p.cancelled = true
			} else {
				p.selected = true
			}
			return p, tea.Quit
		case "down", "j", "ctrl+n":
			p.move(1)
		case "up", "k", "ctrl+p":
			p.move(-1)
		case "g", "home":
			p.move(-len(p.results))
		case "G", "end":
			p.move(len(p.results))
		}
	}

	return p, nil
}

func (p *Picker) move(delta int) {
	p.cursor += delta
	if p.cursor >= len(p.results) {
		p.cursor = len(p.results) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	p.scroll()
}

// visibleItems is how many results fit between header and footer.
func (p Picker) visibleItems() int {
	n := (p.height - 4) / linesPerItem
	if n < 1 {
		return 1
	}
	return n
}

// scroll keeps the cursor inside the visible window.
func (p *Picker) scroll() {
	visible := p.visibleItems()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+visible {
		p.offset = p.cursor - visible + 1
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	end := p.offset + p.visibleItems()
	if end > len(p.results) {
		end = len(p.results)
	}

	for i := p.offset; i < end; i++ {
		result := p.results[i]
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		title := highlight(result.Link.Title, result.MatchedIndexes, style)
		url := urlStyle.Render(result.Link.URL)

		b.WriteString(fmt.Sprintf("%s%s\n", cursor, title))
		b.WriteString(fmt.Sprintf("   %s\n", url))
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("j/k: move  Enter: open  q/Esc: cancel"))

	return b.String()
}

// highlight renders the fuzzy-matched characters of s in matchStyle.
func highlight(s string, matched []int, base lipgloss.Style) string {
	if len(matched) == 0 {
		return base.Render(s)
	}

	hits := make(map[int]bool, len(matched))
	for _, i := range matched {
		hits[i] = true
	}

	var b strings.Builder
	for i, r := range s {
		if hits[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// Selected returns the chosen link. ok is false if the user cancelled.
func (p Picker) Selected() (model.Link, bool) {
	if p.cancelled || !p.selected || p.cursor >= len(p.results) {
		return model.Link{}, false
	}
	return p.results[p.cursor].Link, true
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}

// Run shows the picker on the terminal and returns the chosen link.
func Run(results []search.Result, query string) (model.Link, bool, error) {
	final, err := tea.NewProgram(New(results, query), tea.WithAltScreen()).Run()
	if err != nil {
		return model.Link{}, false, err
	}
	link, ok := final.(Picker).Selected()
	return link, ok, nil
}
