package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nikbrunner/favdash/internal/cache"
	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/projection"
	"github.com/nikbrunner/favdash/internal/search"
	"github.com/nikbrunner/favdash/internal/source"
)

const (
	defaultSearchLimit = 50
	defaultTopSites    = 10
)

// Error codes reported in error results.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeFetchFailed    = "FETCH_FAILED"
	CodeCancelled      = "CANCELLED"
	CodeInternal       = "INTERNAL"
)

// toolError is a failure with a stable code for clients.
type toolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *toolError) Error() string { return e.Message }

func invalidRequest(msg string) *toolError {
	return &toolError{Code: CodeInvalidRequest, Message: msg, Status: 400}
}

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cache *cache.Client
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(c *cache.Client) *Handlers {
	return &Handlers{cache: c}
}

// Request types for each tool

// SearchRequest represents the arguments for bookmarks_search.
type SearchRequest struct {
	Query string `json:"query"`
	Fuzzy bool   `json:"fuzzy,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// FolderRequest represents the arguments for bookmarks_folder.
type FolderRequest struct {
	ID string `json:"id"`
}

// StatsRequest represents the arguments for bookmarks_stats.
type StatsRequest struct {
	Top *int `json:"top,omitempty"`
}

// Response types

// SearchResult is the payload of bookmarks_search.
type SearchResult struct {
	Query     string       `json:"query"`
	Total     int          `json:"total"`
	Truncated bool         `json:"truncated,omitempty"`
	Links     []model.Link `json:"links"`
}

// FolderResult is the payload of bookmarks_folder.
type FolderResult struct {
	Folder *model.FolderEntry `json:"folder"`
	Links  []model.Link       `json:"links"`
}

// TreeResult is the payload of bookmarks_tree.
type TreeResult struct {
	Tree []*model.FolderNode `json:"tree"`
}

// StatsResult is the payload of bookmarks_stats.
type StatsResult struct {
	TotalBookmarks int                    `json:"totalBookmarks"`
	TotalFolders   int                    `json:"totalFolders"`
	LastSync       time.Time              `json:"lastSync"`
	TopSites       []projection.SiteCount `json:"topSites"`
}

// snapshot loads the cache, falling back to the last good snapshot.
func (h *Handlers) snapshot(ctx context.Context) (*model.Snapshot, error) {
	snap, err := h.cache.Load(ctx, false)
	if err != nil {
		if prev := h.cache.Snapshot(); prev != nil {
			return prev, nil
		}
		return nil, err
	}
	return snap, nil
}

// Handler implementations

// HandleSearch handles the bookmarks_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(invalidRequest(err.Error())), nil
	}
	if strings.TrimSpace(input.Query) == "" {
		return errorResult(invalidRequest("query is required")), nil
	}
	if input.Limit < 0 {
		return errorResult(invalidRequest("limit must not be negative")), nil
	}
	if input.Limit == 0 {
		input.Limit = defaultSearchLimit
	}

	snap, err := h.snapshot(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	var links []model.Link
	if input.Fuzzy {
		links = []model.Link{}
		for _, r := range search.FuzzySearch(snap.Links, strings.TrimSpace(input.Query)) {
			links = append(links, r.Link)
		}
	} else {
		links = search.Filter(snap.Links, input.Query)
	}

	result := SearchResult{Query: input.Query, Total: len(links), Links: links}
	if len(links) > input.Limit {
		result.Links = links[:input.Limit]
		result.Truncated = true
	}
	return successResult(result)
}

// HandleFolder handles the bookmarks_folder tool call.
func (h *Handlers) HandleFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FolderRequest](req)
	if err != nil {
		return errorResult(invalidRequest(err.Error())), nil
	}
	id := model.CanonicalID(strings.TrimSpace(input.ID))
	if id == "" {
		return errorResult(invalidRequest("id is required")), nil
	}

	snap, err := h.snapshot(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	entry := snap.Folders.Get(id)
	if entry == nil {
		return errorResult(&toolError{Code: CodeNotFound, Message: "folder " + id + " not found", Status: 404}), nil
	}
	return successResult(FolderResult{Folder: entry, Links: snap.LinksInFolder(id)})
}

// HandleTree handles the bookmarks_tree tool call.
func (h *Handlers) HandleTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := h.snapshot(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(TreeResult{Tree: snap.Tree})
}

// HandleStats handles the bookmarks_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StatsRequest](req)
	if err != nil {
		return errorResult(invalidRequest(err.Error())), nil
	}
	top := defaultTopSites
	if input.Top != nil {
		if *input.Top < 0 {
			return errorResult(invalidRequest("top must not be negative")), nil
		}
		top = *input.Top
	}

	snap, err := h.snapshot(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	stats := snap.Stats()
	return successResult(StatsResult{
		TotalBookmarks: stats.TotalBookmarks,
		TotalFolders:   stats.TotalFolders,
		LastSync:       stats.LastSync,
		TopSites:       projection.TopSites(snap.Links, top),
	})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Unknown errors are reported as INTERNAL without their message.
func errorResult(err error) *mcp.CallToolResult {
	var te *toolError
	switch {
	case errors.As(err, &te):
	case errors.Is(err, source.ErrNotFound):
		te = &toolError{Code: CodeNotFound, Message: err.Error(), Status: 404}
	case errors.Is(err, cache.ErrFetch):
		te = &toolError{Code: CodeFetchFailed, Message: err.Error(), Status: 502}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		te = &toolError{Code: CodeCancelled, Message: err.Error(), Status: 499}
	default:
		te = &toolError{Code: CodeInternal, Message: "an internal error occurred", Status: 500}
	}

	content, _ := json.Marshal(map[string]any{"error": te})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
