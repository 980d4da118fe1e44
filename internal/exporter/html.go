package exporter

import (
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/nikbrunner/favdash/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmarks-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports the library store to Netscape bookmark HTML format.
func ExportHTML(store *model.Store) string {
	var b strings.Builder
	writeHeader(&b)
	writeItems(&b, store, nil, 1)
	writeFooter(&b)
	return b.String()
}

// ExportTree exports a raw bookmark tree, as delivered by any source, to
// Netscape bookmark HTML. Each root becomes a top-level folder.
func ExportTree(roots []model.RawNode) string {
	var b strings.Builder
	writeHeader(&b)
	for _, root := range roots {
		writeNode(&b, root, 1)
	}
	writeFooter(&b)
	return b.String()
}

func writeHeader(b *strings.Builder) {
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("</DL><p>\n")
}

// writeItems recursively writes folders and bookmarks for a given parent.
func writeItems(b *strings.Builder, store *model.Store, parentID *string, indent int) {
	for _, folder := range store.GetFoldersInFolder(parentID) {
		openFolder(b, folder.Title, folder.CreatedAt, indent)
		folderID := folder.ID
		writeItems(b, store, &folderID, indent+1)
		closeFolder(b, indent)
	}

	for _, bookmark := range store.GetBookmarksInFolder(parentID) {
		writeLink(b, bookmark.Title, bookmark.URL, bookmark.IconURL, bookmark.CreatedAt, indent)
	}
}

func writeNode(b *strings.Builder, node model.RawNode, indent int) {
	if !node.IsFolder() {
		writeLink(b, node.Title, node.URL, node.IconURL, node.DateAdded, indent)
		return
	}

	openFolder(b, node.Title, node.DateAdded, indent)
	for _, child := range node.Children {
		writeNode(b, child, indent+1)
	}
	closeFolder(b, indent)
}

func openFolder(b *strings.Builder, title string, created time.Time, indent int) {
	prefix := strings.Repeat("    ", indent)
	fmt.Fprintf(b, "%s<DT><H3 ADD_DATE=\"%d\">%s</H3>\n", prefix, unixOrZero(created), html.EscapeString(title))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)
}

func closeFolder(b *strings.Builder, indent int) {
	fmt.Fprintf(b, "%s</DL><p>\n", strings.Repeat("    ", indent))
}

func writeLink(b *strings.Builder, title, url, iconURL string, created time.Time, indent int) {
	icon := ""
	if iconURL != "" {
		icon = fmt.Sprintf(" ICON_URI=\"%s\"", html.EscapeString(iconURL))
	}
	fmt.Fprintf(b,
		"%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\"%s>%s</A>\n",
		strings.Repeat("    ", indent),
		html.EscapeString(url),
		unixOrZero(created),
		icon,
		html.EscapeString(title),
	)
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
