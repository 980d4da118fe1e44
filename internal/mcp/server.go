// Package mcp serves read-only bookmark tools to MCP clients over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nikbrunner/favdash/internal/cache"
)

// ServerName is reported to clients during initialization.
const ServerName = "favdash"

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

var (
	searchToolDef = mcp.NewTool("bookmarks_search",
		mcp.WithDescription("Search bookmarks by title, URL, domain or folder path. Substring match by default; fuzzy ranks titles by match quality."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for")),
		mcp.WithBoolean("fuzzy", mcp.Description("Rank by fuzzy title match instead of substring match")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 50)")),
	)

	folderToolDef = mcp.NewTool("bookmarks_folder",
		mcp.WithDescription("Get a folder and the bookmarks directly inside it. Use \"all\" for every bookmark."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Folder id as returned by bookmarks_tree")),
	)

	treeToolDef = mcp.NewTool("bookmarks_tree",
		mcp.WithDescription("Get the folder tree with bookmark counts."),
	)

	statsToolDef = mcp.NewTool("bookmarks_stats",
		mcp.WithDescription("Get bookmark and folder totals, the last sync time and the most bookmarked sites."),
		mcp.WithNumber("top", mcp.Description("Number of top sites to include (default 10)")),
	)
)

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"bookmarks_search": {
		def:     searchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"bookmarks_folder": {
		def:     folderToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolder },
	},
	"bookmarks_tree": {
		def:     treeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTree },
	},
	"bookmarks_stats": {
		def:     statsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats },
	},
}

// NewServer creates an MCP server with the bookmark tools registered.
func NewServer(c *cache.Client, version string) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(c)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves the tools on stdin/stdout until the client disconnects.
func Run(c *cache.Client, version string) error {
	return server.ServeStdio(NewServer(c, version))
}
