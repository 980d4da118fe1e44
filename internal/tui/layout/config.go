package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds the sidebar and links pane dimensions.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + status line (1) + pane borders (2) + help bar (3) = 7
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// SplitWidthOffset is subtracted from the terminal width before it is
	// shared between sidebar and links pane: app padding (4) + two pane borders (4).
	SplitWidthOffset int

	// SidebarPercent is the sidebar's share of the available width.
	SidebarPercent int

	// MinSidebarWidth and MaxSidebarWidth clamp the sidebar.
	MinSidebarWidth int
	MaxSidebarWidth int

	// MinMainWidth is the narrowest the links pane may get.
	MinMainWidth int

	// ContentPadding is subtracted from pane width for row rendering.
	ContentPadding int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the modal width as percentage of terminal width.
	DefaultWidthPercent int

	MinWidth int
	MaxWidth int

	// HelpLeftColumnWidth: width for help overlay left column.
	HelpLeftColumnWidth int

	// HelpRightColumnWidth: width for help overlay right column.
	HelpRightColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	SearchCharLimit int
	SearchWidth     int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction:  7,
			MinHeight:        5,
			SplitWidthOffset: 8,
			SidebarPercent:   32,
			MinSidebarWidth:  22,
			MaxSidebarWidth:  44,
			MinMainWidth:     30,
			ContentPadding:   2,
		},
		Modal: ModalConfig{
			DefaultWidthPercent:  40,
			MinWidth:             40,
			MaxWidth:             72,
			HelpLeftColumnWidth:  20,
			HelpRightColumnWidth: 22,
		},
		Input: InputConfig{
			SearchCharLimit: 100,
			SearchWidth:     40,
		},
		Text: TextConfig{
			Ellipsis: "…",
		},
	}
}
