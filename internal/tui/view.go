package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/search"
	"github.com/nikbrunner/favdash/internal/tui/layout"
)

// renderView creates the complete dashboard view.
func (a App) renderView() string {
	switch a.mode {
	case ModeHelp:
		return a.renderHelpOverlay()
	case ModeConfirmDelete:
		return a.renderConfirmDelete()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	split := layout.CalculateSplit(a.width, a.layoutConfig.Pane)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderSidebar(split.SidebarWidth, paneHeight),
		a.renderLinksPane(split.MainWidth, paneHeight),
	)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderStatusLine(time.Now()), columns, a.renderHelpBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderStatusLine renders the app name and the snapshot counters.
func (a App) renderStatusLine(now time.Time) string {
	parts := []string{
		fmt.Sprintf("%d links", a.stats.TotalBookmarks),
		fmt.Sprintf("%d folders", a.stats.TotalFolders),
		"synced " + a.syncAge(now),
	}
	if a.loading {
		parts = append(parts, a.styles.Syncing.Render("syncing..."))
	}
	return a.styles.Title.Render("favdash") + a.styles.Status.Render(strings.Join(parts, " · "))
}

// renderPane wraps content in the pane style, highlighted when focused.
func (a App) renderPane(content string, width, height int, focused bool) string {
	style := a.styles.Pane
	if focused {
		style = a.styles.PaneActive
	}
	return style.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content, "\n"))
}

// renderSidebar renders the folder tree.
func (a App) renderSidebar(width, height int) string {
	var content strings.Builder
	focused := a.focusedPane == PaneSidebar && a.mode == ModeNormal
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	if len(a.rows) == 0 {
		if a.loading {
			content.WriteString(a.styles.Empty.Render("(loading)"))
		} else {
			content.WriteString(a.styles.Empty.Render("(no folders)"))
		}
		return a.renderPane(content.String(), width, height, focused)
	}

	visibleHeight := layout.CalculateVisibleHeight(height, 0)
	offset := layout.CalculateViewportOffset(a.folderCursor, len(a.rows), visibleHeight)

	for i, row := range a.rows {
		if i < offset {
			continue
		}
		if i >= offset+visibleHeight {
			break
		}
		content.WriteString(a.renderFolderRow(row, i == a.folderCursor, focused, itemWidth) + "\n")
	}

	return a.renderPane(content.String(), width, height, focused)
}

// renderFolderRow renders "  ▾ 💼 Work 2" with indentation by depth.
func (a App) renderFolderRow(row Row, isCursor, focused bool, maxWidth int) string {
	marker := "  "
	if row.HasChildren() {
		marker = "▸ "
		if row.Expanded {
			marker = "▾ "
		}
	}

	prefix := strings.Repeat("  ", row.Depth) + marker + row.Node.Icon + " "
	suffix := fmt.Sprintf(" %d", row.Node.BookmarkCount)
	line, _ := layout.TruncateWithPrefixSuffix(row.Node.Title, maxWidth, prefix, suffix, a.layoutConfig.Text)

	if isCursor {
		line = layout.PadRight(line, maxWidth)
		if focused {
			return a.styles.ItemSelected.Render(line)
		}
		return a.styles.ItemDimmed.Render(line)
	}
	return a.styles.Folder.Render(line)
}

// renderLinksPane renders the links of the selected folder, or the search
// results while a search is shown.
func (a App) renderLinksPane(width, height int) string {
	var content strings.Builder
	focused := a.focusedPane == PaneLinks || a.mode == ModeSearch
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)
	searching := a.mode == ModeSearch || a.search.Query != ""

	// Header: search input, active query or folder path
	switch {
	case a.mode == ModeSearch:
		content.WriteString(a.search.Input.View() + "\n")
	case a.search.Query != "":
		content.WriteString(a.styles.Match.Render("/"+a.search.Query) + "\n")
	default:
		content.WriteString(a.styles.Breadcrumb.Render(
			layout.TruncatePathFromLeft(a.folderPath(), itemWidth, a.layoutConfig.Text),
		) + "\n")
	}
	content.WriteString("\n")

	links := a.Links()
	cursor := a.linkCursor
	if searching {
		cursor = a.search.Cursor
	}

	if len(links) == 0 {
		switch {
		case searching && a.search.Input.Value() == "" && a.search.Query == "":
			content.WriteString(a.styles.Empty.Render("(type to search)"))
		case searching:
			content.WriteString(a.styles.Empty.Render("(no matches)"))
		case a.loading:
			content.WriteString(a.styles.Empty.Render("(loading)"))
		default:
			content.WriteString(a.styles.Empty.Render("(empty)"))
		}
		return a.renderPane(content.String(), width, height, focused)
	}

	// Each link takes two lines: title and domain
	visibleLinks := layout.CalculateVisibleHeight(height, 2) / 2
	if visibleLinks < 1 {
		visibleLinks = 1
	}
	offset := layout.CalculateViewportOffset(cursor, len(links), visibleLinks)

	query := ""
	if searching {
		query = search.Normalize(a.search.Query)
	}

	for i, link := range links {
		if i < offset {
			continue
		}
		if i >= offset+visibleLinks {
			break
		}
		content.WriteString(a.renderLinkRow(link, i == cursor && focused, query, itemWidth) + "\n")
	}

	return a.renderPane(content.String(), width, height, focused)
}

// folderPath is the header of the links pane for the selected folder.
func (a App) folderPath() string {
	if a.selectedFolder == model.AllFolderID {
		return "All links"
	}
	if entry := a.snap.Folder(a.selectedFolder); entry != nil {
		if entry.Path != "" {
			return entry.Path
		}
		return entry.Title
	}
	return ""
}

// renderLinkRow renders a link title with its domain on the next line.
func (a App) renderLinkRow(link model.Link, isCursor bool, query string, maxWidth int) string {
	title := link.Title
	if title == "" {
		title = link.URL
	}

	var line string
	if isCursor {
		line, _ = layout.TruncateText(title, maxWidth, a.layoutConfig.Text)
		line = a.styles.ItemSelected.Render(layout.PadRight(line, maxWidth))
	} else {
		line = layout.TruncateANSIAware(a.highlightMatch(title, query), maxWidth, a.layoutConfig.Text)
	}

	detail := link.Domain
	if link.Path != "" && query != "" {
		detail += " · " + link.Path
	}
	detail, _ = layout.TruncateText(detail, maxWidth, a.layoutConfig.Text)

	return line + "\n" + a.styles.Domain.Render(detail)
}

// highlightMatch styles the first case-insensitive occurrence of query in
// title.
func (a App) highlightMatch(title, query string) string {
	if query == "" {
		return a.styles.Bookmark.Render(title)
	}

	idx := strings.Index(strings.ToLower(title), query)
	// Lowercasing can change byte lengths; only highlight when it did not.
	if idx < 0 || len(strings.ToLower(title)) != len(title) {
		return a.styles.Bookmark.Render(title)
	}

	end := idx + len(query)
	return a.styles.Bookmark.Render(title[:idx]) +
		a.styles.Match.Render(title[idx:end]) +
		a.styles.Bookmark.Render(title[end:])
}

func (a App) renderHelpBar() string {
	var lines []string

	// Line 1: Empty spacer OR message (message replaces the gap)
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	// Line 2: contextual keyboard hints
	if hints := a.renderHints(a.getContextualHints()); hints != "" {
		lines = append(lines, hints)
	}

	return strings.Join(lines, "\n")
}

// renderMessageLine renders the message with a prefix icon for its type.
func (a App) renderMessageLine() string {
	switch a.messageType {
	case MessageError:
		return a.styles.MessageError.Render("✗ " + a.messageText)
	case MessageWarning:
		return a.styles.MessageWarning.Render("⚠ " + a.messageText)
	case MessageSuccess:
		return a.styles.MessageSuccess.Render("✓ " + a.messageText)
	default:
		return a.styles.MessageInfo.Render(a.messageText)
	}
}

// renderConfirmDelete renders the delete confirmation modal.
func (a App) renderConfirmDelete() string {
	width := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)
	innerWidth := width - 4

	var content strings.Builder
	content.WriteString(a.styles.Title.Render("Delete bookmark?") + "\n\n")
	if a.pendingDelete != nil {
		title, _ := layout.TruncateText(a.pendingDelete.Title, innerWidth, a.layoutConfig.Text)
		url, _ := layout.TruncateText(a.pendingDelete.URL, innerWidth, a.layoutConfig.Text)
		content.WriteString(title + "\n")
		content.WriteString(a.styles.URL.Render(url) + "\n\n")
	}
	content.WriteString(a.renderHintsInline(a.getConfirmDeleteHints().All()))

	modal := a.styles.PaneActive.
		Width(width).
		Padding(1, 2).
		Render(content.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

func (a App) renderHelpOverlay() string {
	// Brutalist style: no border, just raw columns
	modalStyle := lipgloss.NewStyle().
		Padding(1, 2)

	var left strings.Builder
	left.WriteString(a.styles.Title.Render("nav") + "\n")
	left.WriteString("j/k    move\n")
	left.WriteString("h/l    collapse/expand\n")
	left.WriteString("gg     top\n")
	left.WriteString("G      bottom\n")
	left.WriteString("tab    switch pane\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("search") + "\n")
	left.WriteString("/      search\n")
	left.WriteString("↑/↓    pick result\n")
	left.WriteString("Esc    clear\n")

	var right strings.Builder
	right.WriteString(a.styles.Title.Render("act") + "\n")
	right.WriteString("o/Enter open url\n")
	right.WriteString("Y      yank url\n")
	right.WriteString("d      delete\n")
	right.WriteString("r      refresh\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Help.Render("[?/esc] close  [q] quit"))

	leftCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpLeftColumnWidth).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpRightColumnWidth).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Left,
		lipgloss.Top,
		modalStyle.Render(cols),
	)
}

func formatTimeAgo(d time.Duration) string {
	if d < time.Minute {
		return "just now"
	} else if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	} else if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}
