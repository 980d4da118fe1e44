package projection

import (
	"net"
	"sort"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"

	"github.com/nikbrunner/favdash/internal/model"
)

// SiteCount is the number of links pointing at one site.
type SiteCount struct {
	Site  string `json:"site"`
	Count int    `json:"count"`
}

// SiteOf returns the registrable domain of a link domain.
// e.g., "docs.example.co.uk" -> "example.co.uk"
// Domains without a public suffix (localhost, IPs, "unknown") are returned as is.
func SiteOf(domain string) string {
	if domain == "" || domain == UnknownDomain || !strings.Contains(domain, ".") {
		return domain
	}
	if net.ParseIP(domain) != nil {
		return domain
	}

	site, err := publicsuffix.Domain(domain)
	if err != nil {
		return domain
	}
	return site
}

// TopSites counts links per site and returns the n biggest, ordered by
// count then name. n <= 0 returns every site.
func TopSites(links []model.Link, n int) []SiteCount {
	counts := make(map[string]int)
	for _, l := range links {
		counts[SiteOf(l.Domain)]++
	}

	sites := make([]SiteCount, 0, len(counts))
	for site, count := range counts {
		sites = append(sites, SiteCount{Site: site, Count: count})
	}
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].Count != sites[j].Count {
			return sites[i].Count > sites[j].Count
		}
		return sites[i].Site < sites[j].Site
	})

	if n > 0 && len(sites) > n {
		sites = sites[:n]
	}
	return sites
}
