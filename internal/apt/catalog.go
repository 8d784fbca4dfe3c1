package apt

import (
	"sort"
	"strings"

	"github.com/ralt/webapt/internal/models"
	"pault.ag/go/debian/version"
)

// DefaultPageSize is the number of package groups per catalog page.
const DefaultPageSize = 20

// SortField selects the record field a catalog is ordered by.
type SortField string

const (
	SortByName     SortField = "name"
	SortByVersion  SortField = "version"
	SortByFilename SortField = "filename"
)

// ParseSortField maps a query value to a SortField, defaulting to name.
func ParseSortField(s string) SortField {
	switch SortField(strings.ToLower(s)) {
	case SortByVersion:
		return SortByVersion
	case SortByFilename:
		return SortByFilename
	default:
		return SortByName
	}
}

// Query describes one view of a package list.
type Query struct {
	Search     string
	SortField  SortField
	Descending bool
	Page       int
	PageSize   int
}

// Page is one page of grouped packages.
type Page struct {
	Groups     []models.PackageGroup `json:"groups"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
	Matched    int                   `json:"matched"`
	Total      int                   `json:"total"`
}

// Filter returns the packages whose name contains search, case-insensitively.
func Filter(packages []models.Package, search string) []models.Package {
	search = strings.ToLower(strings.TrimSpace(search))
	filtered := make([]models.Package, 0, len(packages))
	for _, pkg := range packages {
		if search == "" || strings.Contains(strings.ToLower(pkg.Name), search) {
			filtered = append(filtered, pkg)
		}
	}
	return filtered
}

// Sort orders packages in place by field. Versions compare in Debian order;
// a version that does not parse falls back to case-insensitive text order.
func Sort(packages []models.Package, field SortField, descending bool) {
	sort.SliceStable(packages, func(i, j int) bool {
		c := compareBy(packages[i], packages[j], field)
		if descending {
			return c > 0
		}
		return c < 0
	})
}

func compareBy(a, b models.Package, field SortField) int {
	switch field {
	case SortByVersion:
		va, errA := version.Parse(a.Version)
		vb, errB := version.Parse(b.Version)
		if errA == nil && errB == nil {
			return version.Compare(va, vb)
		}
		return strings.Compare(strings.ToLower(a.Version), strings.ToLower(b.Version))
	case SortByFilename:
		return strings.Compare(strings.ToLower(a.Filename), strings.ToLower(b.Filename))
	default:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
}

// Group collects packages by name. Groups appear in the order their first
// package appears and keep the order of their versions.
func Group(packages []models.Package) []models.PackageGroup {
	var groups []models.PackageGroup
	index := make(map[string]int)

	for _, pkg := range packages {
		i, ok := index[pkg.Name]
		if !ok {
			i = len(groups)
			index[pkg.Name] = i
			groups = append(groups, models.PackageGroup{Name: pkg.Name})
		}
		groups[i].Versions = append(groups[i].Versions, pkg)
	}

	return groups
}

// Paginate filters, sorts and groups packages and returns the requested page.
// The page number is clamped to the available range.
func Paginate(packages []models.Package, q Query) Page {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	filtered := Filter(packages, q.Search)
	Sort(filtered, q.SortField, q.Descending)
	groups := Group(filtered)

	totalPages := (len(groups) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(groups) {
		end = len(groups)
	}

	pageGroups := make([]models.PackageGroup, 0, end-start)
	pageGroups = append(pageGroups, groups[start:end]...)

	return Page{
		Groups:     pageGroups,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Matched:    len(filtered),
		Total:      len(packages),
	}
}
