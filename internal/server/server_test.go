package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/favdash/internal/cache"
	"github.com/nikbrunner/favdash/internal/logging"
	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/source"
	"github.com/nikbrunner/favdash/internal/storage"
)

func stringPtr(s string) *string { return &s }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	st := storage.NewJSONStorage(filepath.Join(t.TempDir(), "bookmarks.json"))
	err := st.Save(&model.Store{
		Folders: []model.Folder{
			{ID: "f1", Title: "Work"},
			{ID: "f2", Title: "Projects", ParentID: stringPtr("f1")},
			{ID: "f3", Title: "Study"},
		},
		Bookmarks: []model.Bookmark{
			{ID: "b1", Title: "Jira", URL: "https://jira.example.com", FolderID: stringPtr("f1")},
			{ID: "b2", Title: "Go", URL: "https://go.dev", FolderID: stringPtr("f2")},
			{ID: "b3", Title: "Mail", URL: "https://mail.example.com"},
		},
	})
	assert.NilError(t, err)

	c := cache.New(source.NewLibrary(st, logging.Discard()), cache.Options{Logger: logging.Discard()})
	return New(c, Options{Logger: logging.Discard()})
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func ids(links []model.Link) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.ID
	}
	return out
}

func TestGetTree(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/tree", "")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Header().Get("Content-Type"), "application/json")

	tree := decode[[]*model.FolderNode](t, rec)
	assert.Equal(t, len(tree), 3)
	assert.Equal(t, tree[0].ID, model.AllFolderID)
	assert.Equal(t, tree[0].BookmarkCount, 3)
	assert.Equal(t, tree[1].Title, "Work")
	assert.Equal(t, tree[1].Children[0].ID, "f2")
}

func TestGetLinks(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/links", "")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.DeepEqual(t, ids(decode[[]model.Link](t, rec)), []string{"b2", "b1", "b3"})
}

func TestGetFolder(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/folders/f2", "")
	assert.Equal(t, rec.Code, http.StatusOK)
	entry := decode[model.FolderEntry](t, rec)
	assert.Equal(t, entry.Title, "Projects")
	assert.Equal(t, entry.Path, "Work/Projects")
	assert.Equal(t, entry.BookmarkCount, 1)
}

func TestGetFolder_NotFound(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/folders/nope", "")
	assert.Equal(t, rec.Code, http.StatusNotFound)

	body := decode[ErrorBody](t, rec)
	assert.Equal(t, body.Error.Code, "not_found")
	assert.Equal(t, body.Error.Status, http.StatusNotFound)
	assert.Assert(t, is.Contains(body.Error.Message, "nope"))
}

func TestGetFolderLinks(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		folder string
		want   []string
	}{
		{folder: "f1", want: []string{"b1"}},
		{folder: "f3", want: []string{}},
		{folder: model.AllFolderID, want: []string{"b2", "b1", "b3"}},
	}

	for _, tt := range tests {
		t.Run(tt.folder, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/folders/"+tt.folder+"/links", "")
			assert.Equal(t, rec.Code, http.StatusOK)
			assert.DeepEqual(t, ids(decode[[]model.Link](t, rec)), tt.want)
		})
	}

	rec := do(t, s, http.MethodGet, "/api/folders/nope/links", "")
	assert.Equal(t, rec.Code, http.StatusNotFound)
}

func TestSearch(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/search?q=EXAMPLE", "")
	assert.Equal(t, rec.Code, http.StatusOK)
	resp := decode[SearchResponse](t, rec)
	assert.Equal(t, resp.Query, "EXAMPLE")
	assert.Equal(t, resp.Count, 2)
	assert.DeepEqual(t, ids(resp.Results), []string{"b1", "b3"})

	// Folder paths are searched too
	resp = decode[SearchResponse](t, do(t, s, http.MethodGet, "/api/search?q=projects", ""))
	assert.DeepEqual(t, ids(resp.Results), []string{"b2"})

	resp = decode[SearchResponse](t, do(t, s, http.MethodGet, "/api/search?q=+", ""))
	assert.Equal(t, resp.Count, 0)
	assert.Assert(t, resp.Results != nil)
}

func TestSearch_Fuzzy(t *testing.T) {
	s := newTestServer(t)

	resp := decode[SearchResponse](t, do(t, s, http.MethodGet, "/api/search?q=mil&fuzzy=true", ""))
	assert.DeepEqual(t, ids(resp.Results), []string{"b3"})
}

func TestGetStats(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/stats?top=1", "")
	assert.Equal(t, rec.Code, http.StatusOK)

	stats := decode[StatsResponse](t, rec)
	assert.Equal(t, stats.TotalBookmarks, 3)
	assert.Equal(t, stats.TotalFolders, 3)
	assert.Equal(t, stats.State, "ready")
	assert.Assert(t, !stats.LastSync.IsZero())
	assert.Equal(t, len(stats.TopSites), 1)
	assert.Equal(t, stats.TopSites[0].Site, "example.com")
	assert.Equal(t, stats.TopSites[0].Count, 2)

	rec = do(t, s, http.MethodGet, "/api/stats?top=x", "")
	assert.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestRefresh(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, decode[StatsResponse](t, rec).TotalBookmarks, 3)
}

func TestMoveBookmark(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/bookmarks/b1/move", `{"target":"f3"}`)
	assert.Equal(t, rec.Code, http.StatusNoContent)

	links := decode[[]model.Link](t, do(t, s, http.MethodGet, "/api/folders/f3/links", ""))
	assert.DeepEqual(t, ids(links), []string{"b1"})
	assert.Equal(t, links[0].Path, "Study")
}

func TestMoveBookmark_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   string
	}{
		{name: "bad json", target: "/api/bookmarks/b1/move", body: `{`, status: http.StatusBadRequest, code: "invalid_request"},
		{name: "no target", target: "/api/bookmarks/b1/move", body: `{}`, status: http.StatusBadRequest, code: "invalid_request"},
		{name: "unknown bookmark", target: "/api/bookmarks/zz/move", body: `{"target":"f3"}`, status: http.StatusNotFound, code: "not_found"},
		{name: "unknown folder", target: "/api/bookmarks/b1/move", body: `{"target":"zz"}`, status: http.StatusNotFound, code: "not_found"},
		{name: "into own child", target: "/api/bookmarks/f1/move", body: `{"target":"f2"}`, status: http.StatusBadRequest, code: "invalid_move"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, rec.Code, tt.status)
			assert.Equal(t, decode[ErrorBody](t, rec).Error.Code, tt.code)
		})
	}
}

func TestMoveBookmark_RequiresJSONContentType(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name        string
		contentType string
		status      int
	}{
		{name: "text/plain", contentType: "text/plain", status: http.StatusUnsupportedMediaType},
		{name: "form", contentType: "application/x-www-form-urlencoded", status: http.StatusUnsupportedMediaType},
		{name: "missing", contentType: "", status: http.StatusUnsupportedMediaType},
		{name: "json with charset", contentType: "application/json; charset=utf-8", status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/bookmarks/b1/move", strings.NewReader(`{"target":"f3"}`))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			assert.Equal(t, rec.Code, tt.status)
			if tt.status != http.StatusNoContent {
				assert.Equal(t, decode[ErrorBody](t, rec).Error.Code, "unsupported_media_type")
			}
		})
	}

	// Only the JSON request moved the bookmark.
	links := decode[[]model.Link](t, do(t, s, http.MethodGet, "/api/folders/f3/links", ""))
	assert.DeepEqual(t, ids(links), []string{"b1"})
}

func TestDeleteBookmark(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodDelete, "/api/bookmarks/b3", "")
	assert.Equal(t, rec.Code, http.StatusNoContent)

	links := decode[[]model.Link](t, do(t, s, http.MethodGet, "/api/links", ""))
	assert.DeepEqual(t, ids(links), []string{"b2", "b1"})

	rec = do(t, s, http.MethodDelete, "/api/bookmarks/b3", "")
	assert.Equal(t, rec.Code, http.StatusNotFound)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/api/tree", "")
	assert.Equal(t, rec.Code, http.StatusMethodNotAllowed)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/bookmarks/b1", nil)
	req.Header.Set("Origin", "chrome-extension://abc")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, rec.Header().Get("Access-Control-Allow-Origin"), "*")
	assert.Assert(t, is.Contains(rec.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete))
}

func TestRecovery(t *testing.T) {
	handler := recovery(logging.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, rec.Code, http.StatusInternalServerError)
	assert.Equal(t, decode[ErrorBody](t, rec).Error.Code, "internal")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	assert.NilError(t, err)
	resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusOK)

	cancel()
	select {
	case err := <-done:
		assert.NilError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
