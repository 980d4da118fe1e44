package projection_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/projection"
)

// scenarioTree is one root holding "Work" (two links) and an empty "Study".
func scenarioTree() ([]model.RawNode, map[string]model.FolderInfo) {
	raw := []model.RawNode{
		model.NewRawFolder("0", "Bookmarks bar", "",
			model.NewRawFolder("F1", "Work", "0",
				model.NewRawLeaf("b1", "Jira", "https://jira.example.com", "F1"),
				model.NewRawLeaf("b2", "Mail", "https://mail.example.com", "F1"),
			),
			model.NewRawFolder("F2", "Study", "0"),
		),
	}
	info := map[string]model.FolderInfo{
		"F1": {Title: "Work", ParentID: "0", BookmarkCount: 2, Path: "Work"},
		"F2": {Title: "Study", ParentID: "0", BookmarkCount: 0, Path: "Study"},
	}
	return raw, info
}

func TestProjectTree_Scenario(t *testing.T) {
	raw, info := scenarioTree()

	tree := projection.ProjectTree(raw, info, 2, projection.DefaultTreeOptions())

	if len(tree) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d", len(tree))
	}

	all := tree[0]
	if all.ID != model.AllFolderID || all.BookmarkCount != 2 || !all.IsSpecial || !all.IsExpanded {
		t.Errorf("unexpected all node: %+v", all)
	}
	if all.ParentID != "" {
		t.Errorf("all node must not have a parent, got %q", all.ParentID)
	}

	work := tree[1]
	if work.ID != "F1" || work.Icon != "💼" || work.BookmarkCount != 2 || len(work.Children) != 0 {
		t.Errorf("unexpected work node: %+v", work)
	}
	study := tree[2]
	if study.ID != "F2" || study.Icon != "📚" || study.BookmarkCount != 0 || len(study.Children) != 0 {
		t.Errorf("unexpected study node: %+v", study)
	}
}

func TestProjectTree_DepthAndExpansion(t *testing.T) {
	raw := []model.RawNode{
		model.NewRawFolder("1", "Toolbar", "",
			model.NewRawFolder("a", "A", "1",
				model.NewRawFolder("b", "B", "a",
					model.NewRawFolder("c", "C", "b"),
				),
			),
		),
	}

	tree := projection.ProjectTree(raw, nil, 0, projection.DefaultTreeOptions())

	a := tree[1]
	b := a.Children[0]
	c := b.Children[0]

	for _, tc := range []struct {
		node     *model.FolderNode
		depth    int
		expanded bool
	}{
		{a, 0, true},
		{b, 1, true},
		{c, 2, false},
	} {
		if tc.node.Depth != tc.depth {
			t.Errorf("%s: expected depth %d, got %d", tc.node.ID, tc.depth, tc.node.Depth)
		}
		if tc.node.IsExpanded != tc.expanded {
			t.Errorf("%s: expected expanded=%v", tc.node.ID, tc.expanded)
		}
		if tc.node.BookmarkCount != 0 {
			t.Errorf("%s: missing folder info should count 0, got %d", tc.node.ID, tc.node.BookmarkCount)
		}
	}
}

func TestProjectTree_ExpansionOptions(t *testing.T) {
	raw := []model.RawNode{
		model.NewRawFolder("1", "Toolbar", "",
			model.NewRawFolder("a", "A", "1",
				model.NewRawFolder("b", "B", "a",
					model.NewRawFolder("c", "C", "b"),
				),
			),
		),
	}

	tests := []struct {
		name   string
		opts   projection.TreeOptions
		expect []bool // a, b, c
	}{
		{"zero value uses defaults", projection.TreeOptions{}, []bool{true, true, false}},
		{"deeper", projection.TreeOptions{ExpandDepth: 3}, []bool{true, true, true}},
		{"one level", projection.TreeOptions{ExpandDepth: 1}, []bool{true, false, false}},
		{"collapse all", projection.TreeOptions{CollapseAll: true}, []bool{false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := projection.ProjectTree(raw, nil, 0, tt.opts)
			a := tree[1]
			b := a.Children[0]
			c := b.Children[0]

			got := []bool{a.IsExpanded, b.IsExpanded, c.IsExpanded}
			if !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("expected expansion %v, got %v", tt.expect, got)
			}
			if tree[0].Title != "All" {
				t.Errorf("expected default all title, got %q", tree[0].Title)
			}
		})
	}
}

func TestProjectTree_SingleAllNodeAcrossRoots(t *testing.T) {
	raw := []model.RawNode{
		model.NewRawFolder("1", "Toolbar", "", model.NewRawFolder("a", "A", "1")),
		model.NewRawFolder("2", "Other", "", model.NewRawFolder("b", "B", "2")),
	}

	tree := projection.ProjectTree(raw, nil, 7, projection.DefaultTreeOptions())

	allCount := 0
	for _, n := range tree {
		if n.ID == model.AllFolderID {
			allCount++
		}
	}
	if allCount != 1 {
		t.Errorf("expected exactly one all node, got %d", allCount)
	}
	if len(tree) != 3 {
		t.Errorf("expected all + 2 folders, got %d nodes", len(tree))
	}
}

func TestProjectTree_MalformedInput(t *testing.T) {
	tests := []struct {
		name string
		raw  []model.RawNode
	}{
		{"nil", nil},
		{"empty", []model.RawNode{}},
		{"leaf root", []model.RawNode{model.NewRawLeaf("x", "X", "https://x.com", "")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := projection.ProjectTree(tt.raw, nil, 5, projection.TreeOptions{})
			if tree == nil || len(tree) != 0 {
				t.Errorf("expected empty non-nil tree, got %v", tree)
			}
		})
	}
}

func TestProjectTree_Idempotent(t *testing.T) {
	raw, info := scenarioTree()
	opts := projection.DefaultTreeOptions()

	first := projection.ProjectTree(raw, info, 2, opts)
	second := projection.ProjectTree(raw, info, 2, opts)

	if !reflect.DeepEqual(first, second) {
		t.Error("projecting the same input twice should give equal trees")
	}
	if first[1] == second[1] {
		t.Error("projections should not share node instances")
	}
}

func TestIconFor(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Work", "💼"},
		{"HOMEWORK", "💼"},
		{"Study notes", "📚"},
		{"工作", "💼"},
		{"Dev Tools", "💻"},
		{"Recipes", projection.DefaultIcon},
		{"", projection.DefaultIcon},
	}

	for _, tt := range tests {
		if got := projection.IconFor(tt.title); got != tt.want {
			t.Errorf("IconFor(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.example.com/x", "example.com"},
		{"https://Docs.Example.com:8443/a?b=c", "docs.example.com"},
		{"http://localhost:3000", "localhost"},
		{"not a url", "unknown"},
		{"", "unknown"},
		{"://broken", "unknown"},
	}

	for _, tt := range tests {
		if got := projection.ExtractDomain(tt.url); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestProjectLinks(t *testing.T) {
	added := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	leaves := []model.RawNode{
		{Kind: model.KindLeaf, ID: "b1", Title: "Go", URL: "https://www.go.dev/doc", ParentID: "F1", DateAdded: added},
		{Kind: model.KindLeaf, ID: "b2", Title: "Broken", URL: "not a url", ParentID: "F1"},
		{Kind: model.KindLeaf, ID: "b3", Title: "Icon", URL: "https://a.com", IconURL: "https://cdn.a.com/i.png", ParentID: "F2"},
	}
	info := map[string]model.FolderInfo{"F1": {Path: "Dev/Go"}}

	links := projection.ProjectLinks(leaves, info)

	if len(links) != 3 {
		t.Fatalf("projection must not drop links, got %d", len(links))
	}
	for _, l := range links {
		if l.FolderID != l.ParentID {
			t.Errorf("%s: folderId %q != parentId %q", l.ID, l.FolderID, l.ParentID)
		}
	}

	if links[0].Domain != "go.dev" || links[0].IconURL != "https://go.dev/favicon.ico" {
		t.Errorf("unexpected derived fields: %+v", links[0])
	}
	if links[0].Path != "Dev/Go" || links[0].DateGrouped != "2025-03-14" {
		t.Errorf("unexpected path/date group: %+v", links[0])
	}
	if links[1].Domain != "unknown" || links[1].IconURL != "" {
		t.Errorf("unparsable URL should give unknown domain and no icon: %+v", links[1])
	}
	if links[2].IconURL != "https://cdn.a.com/i.png" {
		t.Errorf("source icon should be kept, got %q", links[2].IconURL)
	}
}

func TestBuildFolderMap(t *testing.T) {
	raw, info := scenarioTree()
	info["42"] = model.FolderInfo{Title: "Orphan", BookmarkCount: 9, Path: "Orphan"}

	tree := projection.ProjectTree(raw, info, 2, projection.DefaultTreeOptions())
	m := projection.BuildFolderMap(tree, info)

	work := m.Get("F1")
	if work == nil {
		t.Fatal("expected F1 in map")
	}
	if work.Path != "Work" {
		t.Errorf("seeded path should survive the merge, got %q", work.Path)
	}
	if work.Icon != "💼" || work.BookmarkCount != 2 {
		t.Errorf("projected fields should be merged: %+v", work)
	}

	if all := m.Get(model.AllFolderID); all == nil || !all.IsSpecial {
		t.Errorf("expected the all node in the map, got %+v", all)
	}

	if m.Lookup(42) != m.Get("42") || m.Get("42") == nil {
		t.Error("numeric and string lookups should reach the same entry")
	}
	if m.Get("missing") != nil {
		t.Error("expected nil on lookup miss")
	}
}

func TestBuildFolderMap_CountsMatchFolderInfo(t *testing.T) {
	raw, info := scenarioTree()
	tree := projection.ProjectTree(raw, info, 2, projection.DefaultTreeOptions())

	projection.WalkTree(tree, func(n *model.FolderNode) {
		if n.IsSpecial {
			return
		}
		if want := info[n.ID].BookmarkCount; n.BookmarkCount != want {
			t.Errorf("%s: count %d, want %d", n.ID, n.BookmarkCount, want)
		}
	})
}

func TestTopSites(t *testing.T) {
	links := []model.Link{
		{Domain: "docs.github.com"},
		{Domain: "github.com"},
		{Domain: "news.bbc.co.uk"},
		{Domain: "unknown"},
	}

	sites := projection.TopSites(links, 2)

	if len(sites) != 2 {
		t.Fatalf("expected 2 sites, got %d", len(sites))
	}
	if sites[0].Site != "github.com" || sites[0].Count != 2 {
		t.Errorf("expected github.com x2 first, got %+v", sites[0])
	}
	if sites[1].Site != "bbc.co.uk" {
		t.Errorf("expected bbc.co.uk second, got %+v", sites[1])
	}
}

func TestProject_NilRaw(t *testing.T) {
	now := time.Now()
	snap := projection.Project(nil, projection.DefaultTreeOptions(), now)

	if len(snap.Tree) != 0 || len(snap.Links) != 0 || snap.Folders.Len() != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
	if !snap.LastSync.Equal(now) {
		t.Error("expected LastSync to be set")
	}
}
