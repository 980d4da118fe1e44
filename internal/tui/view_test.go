package tui

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/tui/layout"
)

func (h *testHarness) render(width, height int) string {
	return layout.StripANSI(h.app.WithDimensions(width, height).View())
}

func TestView_NormalMode(t *testing.T) {
	h := newHarness(t)
	out := h.render(120, 30)

	for _, want := range []string{
		"favdash",
		"3 links · 3 folders · synced just now",
		"All",
		"Work",
		"Projects",
		"Study",
		"All links",
		"Go",
		"go.dev",
		"jira.example.com",
		"/:search",
	} {
		assert.Check(t, is.Contains(out, want))
	}
}

func TestView_FolderHeader(t *testing.T) {
	h := newHarness(t)
	h.press("j", "j") // Projects

	out := h.render(120, 30)
	assert.Check(t, is.Contains(out, "Work/Projects"))
	assert.Check(t, !contains(out, "jira.example.com"))
}

func TestView_CollapsedMarker(t *testing.T) {
	h := newHarness(t)
	assert.Check(t, is.Contains(h.render(120, 30), "▾ "))

	h.press("j", "h")
	out := h.render(120, 30)
	assert.Check(t, is.Contains(out, "▸ "))
	assert.Check(t, !contains(out, "Projects"))
}

func TestView_SearchMode(t *testing.T) {
	h := newHarness(t)
	h.press("/")

	out := h.render(120, 30)
	assert.Check(t, is.Contains(out, "(type to search)"))
	assert.Check(t, is.Contains(out, "Esc:cancel"))
}

func TestView_SearchNoMatches(t *testing.T) {
	h := newHarness(t)
	h.press("/", "z", "z", "z")
	h.waitForQuery(t, "zzz")

	assert.Check(t, is.Contains(h.render(120, 30), "(no matches)"))
}

func TestView_ConfirmDelete(t *testing.T) {
	h := newHarness(t)
	h.press("tab", "j", "d")

	out := h.render(100, 30)
	assert.Check(t, is.Contains(out, "Delete bookmark?"))
	assert.Check(t, is.Contains(out, "Jira"))
	assert.Check(t, is.Contains(out, "https://jira.example.com"))
}

func TestView_HelpOverlay(t *testing.T) {
	h := newHarness(t)
	h.press("?")

	out := h.render(100, 30)
	assert.Check(t, is.Contains(out, "collapse/expand"))
	assert.Check(t, is.Contains(out, "yank url"))
}

func TestView_Message(t *testing.T) {
	h := newHarness(t)
	h.press("tab", "Y")

	assert.Check(t, is.Contains(h.render(120, 30), "✓ Yanked https://go.dev"))
}

func TestView_Syncing(t *testing.T) {
	h := newHarness(t)
	h.press("r")

	assert.Check(t, is.Contains(h.render(120, 30), "syncing..."))
}

func contains(out, s string) bool {
	return is.Contains(out, s)().Success()
}

func TestFlattenTree(t *testing.T) {
	child := &model.FolderNode{ID: "c", Children: []*model.FolderNode{}}
	tree := []*model.FolderNode{
		{ID: model.AllFolderID, IsExpanded: true, Children: []*model.FolderNode{}},
		{ID: "p", IsExpanded: true, Children: []*model.FolderNode{child}},
	}

	rows := FlattenTree(tree, Expansion{})
	assert.DeepEqual(t, rowIDs(rows), []string{model.AllFolderID, "p", "c"})
	assert.Equal(t, rows[2].Depth, 1)
	assert.Equal(t, parentRow(rows, 2), 1)
	assert.Equal(t, parentRow(rows, 1), -1)

	rows = FlattenTree(tree, Expansion{"p": false})
	assert.DeepEqual(t, rowIDs(rows), []string{model.AllFolderID, "p"})
	assert.Assert(t, !rows[1].Expanded)
	assert.Equal(t, indexOfFolder(rows, "c"), -1)

	assert.Equal(t, len(FlattenTree(nil, nil)), 0)
}

func TestFormatTimeAgo(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}

	for _, tt := range tests {
		assert.Equal(t, formatTimeAgo(tt.d), tt.want)
	}
}
