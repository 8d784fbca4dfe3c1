package apt

import "regexp"

// dirLinkPattern matches links to sub-directories in an autoindex page.
var dirLinkPattern = regexp.MustCompile(`<a[^>]*href="([^"/]+)/"[^>]*>`)

// ParseDistListing extracts distribution names from an HTML directory listing
// of a dists/ directory. Names are returned once each, in page order.
func ParseDistListing(html string) []string {
	var dists []string
	seen := make(map[string]bool)

	for _, match := range dirLinkPattern.FindAllStringSubmatch(html, -1) {
		dist := match[1]
		if dist == "." || dist == ".." || seen[dist] {
			continue
		}
		seen[dist] = true
		dists = append(dists, dist)
	}

	return dists
}
