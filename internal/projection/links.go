package projection

import (
	"net/url"
	"strings"

	"github.com/nikbrunner/favdash/internal/model"
)

// UnknownDomain is the domain of a link whose URL doesn't parse.
const UnknownDomain = "unknown"

// ProjectLinks maps raw leaves to display links, one for one, in order.
// info supplies folder paths and may be nil.
func ProjectLinks(leaves []model.RawNode, info map[string]model.FolderInfo) []model.Link {
	links := make([]model.Link, 0, len(leaves))
	for _, leaf := range leaves {
		domain := ExtractDomain(leaf.URL)

		iconURL := leaf.IconURL
		if iconURL == "" {
			iconURL = FaviconURL(domain)
		}

		link := model.Link{
			ID:        leaf.ID,
			Title:     leaf.Title,
			URL:       leaf.URL,
			ParentID:  leaf.ParentID,
			FolderID:  leaf.ParentID,
			IconURL:   iconURL,
			Domain:    domain,
			Path:      info[leaf.ParentID].Path,
			DateAdded: leaf.DateAdded,
		}
		if !leaf.DateAdded.IsZero() {
			link.DateGrouped = leaf.DateAdded.Format("2006-01-02")
		}

		links = append(links, link)
	}
	return links
}

// ExtractDomain returns the lowercased host of rawURL without port and
// leading "www.", or UnknownDomain when it has no parseable host.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return UnknownDomain
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return UnknownDomain
	}
	return strings.TrimPrefix(host, "www.")
}

// FaviconURL returns the conventional favicon location of a domain, or ""
// for UnknownDomain.
func FaviconURL(domain string) string {
	if domain == "" || domain == UnknownDomain {
		return ""
	}
	return "https://" + domain + "/favicon.ico"
}
