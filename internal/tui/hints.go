package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for bottom bar: "j/k:move h:collapse l:expand"
func (a App) renderHints(hints HintSet) string {
	allHints := hints.All()
	if len(allHints) == 0 {
		return ""
	}

	parts := make([]string, len(allHints))
	for i, h := range allHints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for modals: "y confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (j/k, h/l, etc.)
	Edit   []Hint // Edit hints (d)
	Action []Hint // Action hints (Enter, /, etc.)
	System []Hint // System hints (?, q, Esc)
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeNormal:
		if a.focusedPane == PaneSidebar {
			return a.getSidebarHints()
		}
		return a.getLinksHints()
	case ModeSearch:
		return a.getSearchModeHints()
	case ModeConfirmDelete:
		return a.getConfirmDeleteHints()
	case ModeHelp:
		// Help overlay covers screen, minimal hints
		return HintSet{
			System: []Hint{{Key: "?/q/Esc", Desc: "close"}},
		}
	default:
		return HintSet{}
	}
}

// getSidebarHints returns hints for browsing the folder tree.
func (a App) getSidebarHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "h", Desc: "collapse"},
			{Key: "l", Desc: "expand"},
			{Key: "tab", Desc: "links"},
		},
		Action: []Hint{
			{Key: "/", Desc: "search"},
			{Key: "r", Desc: "refresh"},
		},
		System: []Hint{
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
}

// getLinksHints returns hints for browsing links.
func (a App) getLinksHints() HintSet {
	hints := HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "h/tab", Desc: "folders"},
		},
		Action: []Hint{
			{Key: "o", Desc: "open"},
			{Key: "Y", Desc: "yank"},
			{Key: "/", Desc: "search"},
		},
		Edit: []Hint{
			{Key: "d", Desc: "del"},
		},
		System: []Hint{
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
	if a.search.Query != "" {
		hints.System = append([]Hint{{Key: "Esc", Desc: "clear search"}}, hints.System...)
	}
	return hints
}

// getSearchModeHints returns hints for ModeSearch.
func (a App) getSearchModeHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "↑/↓", Desc: "move"},
		},
		Action: []Hint{
			{Key: "Enter", Desc: "open"},
		},
		System: []Hint{
			{Key: "Esc", Desc: "cancel"},
		},
	}
}

// getConfirmDeleteHints returns hints for ModeConfirmDelete.
func (a App) getConfirmDeleteHints() HintSet {
	return HintSet{
		Action: []Hint{
			{Key: "y", Desc: "confirm"},
		},
		System: []Hint{
			{Key: "n/Esc", Desc: "cancel"},
		},
	}
}
