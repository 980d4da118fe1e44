package layout

// SplitLayout holds the calculated sidebar and links pane widths.
type SplitLayout struct {
	SidebarWidth int
	MainWidth    int
}

// CalculatePaneHeight computes the content height for panes.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculateSplit shares the terminal width between sidebar and links pane.
// The sidebar takes SidebarPercent within its bounds; the links pane gets
// the rest but never less than MinMainWidth.
func CalculateSplit(terminalWidth int, cfg PaneConfig) SplitLayout {
	available := terminalWidth - cfg.SplitWidthOffset

	sidebar := available * cfg.SidebarPercent / 100
	if sidebar > cfg.MaxSidebarWidth {
		sidebar = cfg.MaxSidebarWidth
	}
	if sidebar < cfg.MinSidebarWidth {
		sidebar = cfg.MinSidebarWidth
	}

	main := available - sidebar
	if main < cfg.MinMainWidth {
		main = cfg.MinMainWidth
	}

	return SplitLayout{
		SidebarWidth: sidebar,
		MainWidth:    main,
	}
}

// CalculateItemWidth computes the width available for row content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	width := paneWidth - cfg.ContentPadding
	if width < 1 {
		return 1
	}
	return width
}

// CalculateVisibleHeight computes the visible row count in a pane.
func CalculateVisibleHeight(paneHeight, headerLines int) int {
	height := paneHeight - headerLines
	if height < 1 {
		return 1
	}
	return height
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected row visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}
