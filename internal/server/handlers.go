package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/projection"
	"github.com/nikbrunner/favdash/internal/search"
)

// defaultTopSites is the number of sites /api/stats reports unless ?top= says otherwise.
const defaultTopSites = 10

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /api/tree", s.getTree)
	mux.HandleFunc("GET /api/links", s.getLinks)
	mux.HandleFunc("GET /api/folders/{id}", s.getFolder)
	mux.HandleFunc("GET /api/folders/{id}/links", s.getFolderLinks)
	mux.HandleFunc("GET /api/search", s.search)
	mux.HandleFunc("GET /api/stats", s.getStats)
	mux.HandleFunc("POST /api/refresh", s.refresh)
	mux.HandleFunc("POST /api/bookmarks/{id}/move", s.moveBookmark)
	mux.HandleFunc("DELETE /api/bookmarks/{id}", s.deleteBookmark)

	return mux
}

// snapshot loads the cache, falling back to the last good snapshot when a
// refresh fails. It responds with the error when there is nothing to serve.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*model.Snapshot, bool) {
	snap, err := s.cache.Load(r.Context(), false)
	if err == nil {
		return snap, true
	}
	if snap = s.cache.Snapshot(); snap != nil {
		s.log.WithError(err).Warn("serving previous snapshot")
		return snap, true
	}
	respondErr(w, err)
	return nil, false
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"state":  s.cache.State().String(),
	})
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, snap.Tree)
}

func (s *Server) getLinks(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, snap.Links)
}

func (s *Server) getFolder(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	entry := snap.Folders.Get(id)
	if entry == nil {
		respondError(w, http.StatusNotFound, "not_found", "folder "+strconv.Quote(id)+" not found")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (s *Server) getFolderLinks(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	id := model.CanonicalID(r.PathValue("id"))
	if id != model.AllFolderID && snap.Folders.Get(id) == nil {
		respondError(w, http.StatusNotFound, "not_found", "folder "+strconv.Quote(id)+" not found")
		return
	}
	respondJSON(w, http.StatusOK, snap.LinksInFolder(id))
}

// SearchResponse is the body of /api/search.
type SearchResponse struct {
	Query   string       `json:"query"`
	Count   int          `json:"count"`
	Results []model.Link `json:"results"`
}

// search filters links by substring, or ranks them by fuzzy title match
// with ?fuzzy=true.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	fuzzy, _ := strconv.ParseBool(r.URL.Query().Get("fuzzy"))

	var results []model.Link
	if fuzzy {
		results = []model.Link{}
		for _, res := range search.FuzzySearch(snap.Links, strings.TrimSpace(query)) {
			results = append(results, res.Link)
		}
	} else {
		results = search.Filter(snap.Links, query)
	}

	respondJSON(w, http.StatusOK, SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	})
}

// StatsResponse is the body of /api/stats and /api/refresh.
type StatsResponse struct {
	TotalBookmarks int                    `json:"totalBookmarks"`
	TotalFolders   int                    `json:"totalFolders"`
	LastSync       time.Time              `json:"lastSync"`
	State          string                 `json:"state"`
	TopSites       []projection.SiteCount `json:"topSites"`
}

func (s *Server) stats(snap *model.Snapshot, top int) StatsResponse {
	stats := snap.Stats()
	return StatsResponse{
		TotalBookmarks: stats.TotalBookmarks,
		TotalFolders:   stats.TotalFolders,
		LastSync:       stats.LastSync,
		State:          s.cache.State().String(),
		TopSites:       projection.TopSites(snap.Links, top),
	}
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	top := defaultTopSites
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_request", "top must be a non-negative integer")
			return
		}
		top = n
	}
	respondJSON(w, http.StatusOK, s.stats(snap, top))
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cache.Refresh(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.stats(snap, defaultTopSites))
}

// MoveRequest is the body of /api/bookmarks/{id}/move.
type MoveRequest struct {
	Target string `json:"target"`
}

func (s *Server) moveBookmark(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := parseJSON(w, r, &req); err != nil {
		if errors.Is(err, errNotJSON) {
			respondError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Target) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "target is required")
		return
	}

	if err := s.cache.Move(r.Context(), r.PathValue("id"), req.Target); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteBookmark(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
