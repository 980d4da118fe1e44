package layout

import "testing"

func TestCalculatePaneHeight(t *testing.T) {
	cfg := DefaultConfig().Pane

	tests := []struct {
		name           string
		terminalHeight int
		want           int
	}{
		{"normal terminal", 24, 17},               // 24 - 7 = 17
		{"large terminal", 50, 43},                // 50 - 7 = 43
		{"small terminal enforces min", 8, 5},     // 8 - 7 = 1, min is 5
		{"exactly at reduction", 7, 5},            // 7 - 7 = 0, min is 5
		{"terminal smaller than reduction", 4, 5}, // negative clamps to min
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePaneHeight(tt.terminalHeight, cfg)
			if got != tt.want {
				t.Errorf("CalculatePaneHeight(%d) = %d, want %d",
					tt.terminalHeight, got, tt.want)
			}
		})
	}
}

func TestCalculateSplit(t *testing.T) {
	cfg := DefaultConfig().Pane

	tests := []struct {
		name          string
		terminalWidth int
		wantSidebar   int
		wantMain      int
	}{
		{"normal terminal", 100, 29, 63},             // (100-8)*32/100 = 29, 92-29 = 63
		{"wide terminal caps sidebar", 200, 44, 148}, // 192*32/100 = 61, max 44
		{"narrow terminal min sidebar", 60, 22, 30},  // 52*32/100 = 16, min 22; 52-22 = 30
		{"tiny terminal min main", 40, 22, 30},       // 32-22 = 10, min 30
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateSplit(tt.terminalWidth, cfg)
			if got.SidebarWidth != tt.wantSidebar || got.MainWidth != tt.wantMain {
				t.Errorf("CalculateSplit(%d) = {%d, %d}, want {%d, %d}",
					tt.terminalWidth, got.SidebarWidth, got.MainWidth, tt.wantSidebar, tt.wantMain)
			}
		})
	}
}

func TestCalculateItemWidth(t *testing.T) {
	cfg := DefaultConfig().Pane

	tests := []struct {
		name      string
		paneWidth int
		want      int
	}{
		{"normal pane", 24, 22}, // 24 - 2 = 22
		{"wide pane", 40, 38},
		{"degenerate pane clamps to 1", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateItemWidth(tt.paneWidth, cfg)
			if got != tt.want {
				t.Errorf("CalculateItemWidth(%d) = %d, want %d",
					tt.paneWidth, got, tt.want)
			}
		})
	}
}

func TestCalculateVisibleHeight(t *testing.T) {
	tests := []struct {
		name        string
		paneHeight  int
		headerLines int
		want        int
	}{
		{"normal with header", 18, 2, 16},
		{"no header", 18, 0, 18},
		{"header equals height", 10, 10, 1}, // clamps to 1
		{"header exceeds height", 5, 10, 1}, // clamps to 1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateVisibleHeight(tt.paneHeight, tt.headerLines)
			if got != tt.want {
				t.Errorf("CalculateVisibleHeight(%d, %d) = %d, want %d",
					tt.paneHeight, tt.headerLines, got, tt.want)
			}
		})
	}
}

func TestCalculateViewportOffset(t *testing.T) {
	tests := []struct {
		name           string
		selected       int
		total          int
		viewportHeight int
		want           int
	}{
		{"no scroll needed", 2, 5, 10, 0},
		{"selection near start", 1, 20, 10, 0},
		{"selection in middle", 10, 20, 10, 5}, // 10 - 10/2 = 5
		{"selection near end", 18, 20, 10, 10}, // max offset = 20-10 = 10
		{"selection at end", 19, 20, 10, 10},
		{"all items visible", 5, 8, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateViewportOffset(tt.selected, tt.total, tt.viewportHeight)
			if got != tt.want {
				t.Errorf("CalculateViewportOffset(%d, %d, %d) = %d, want %d",
					tt.selected, tt.total, tt.viewportHeight, got, tt.want)
			}
		})
	}
}
