package apt

import (
	"fmt"
	"testing"

	"github.com/ralt/webapt/internal/models"
)

func samplePackages() []models.Package {
	return []models.Package{
		{Name: "curl", Version: "7.88.1-10", Filename: "pool/main/c/curl/curl_7.88.1-10_amd64.deb"},
		{Name: "Apt", Version: "2.6.1", Filename: "pool/main/a/apt/apt_2.6.1_amd64.deb"},
		{Name: "curl", Version: "7.88.1-9", Filename: "pool/main/c/curl/curl_7.88.1-9_amd64.deb"},
		{Name: "libcurl4", Version: "7.88.1-10", Filename: "pool/main/c/curl/libcurl4_7.88.1-10_amd64.deb"},
		{Name: "bash", Version: "5.2.15-2", Filename: "pool/main/b/bash/bash_5.2.15-2_amd64.deb"},
	}
}

func TestFilterIsCaseInsensitive(t *testing.T) {
	got := Filter(samplePackages(), "CURL")

	if len(got) != 3 {
		t.Fatalf("got %d packages, want 3: %+v", len(got), got)
	}
	for _, pkg := range got {
		if pkg.Name != "curl" && pkg.Name != "libcurl4" {
			t.Errorf("unexpected match %q", pkg.Name)
		}
	}

	if all := Filter(samplePackages(), "  "); len(all) != 5 {
		t.Errorf("empty search kept %d packages, want 5", len(all))
	}
}

func TestSortByName(t *testing.T) {
	packages := samplePackages()
	Sort(packages, SortByName, false)

	want := []string{"Apt", "bash", "curl", "curl", "libcurl4"}
	for i, name := range want {
		if packages[i].Name != name {
			t.Errorf("packages[%d] = %q, want %q", i, packages[i].Name, name)
		}
	}

	Sort(packages, SortByName, true)
	if packages[0].Name != "libcurl4" || packages[4].Name != "Apt" {
		t.Errorf("descending order wrong: %+v", packages)
	}
}

func TestSortByVersionUsesDebianOrder(t *testing.T) {
	packages := []models.Package{
		{Name: "a", Version: "1.10", Filename: "a"},
		{Name: "b", Version: "1.9", Filename: "b"},
		{Name: "c", Version: "1.0~rc1", Filename: "c"},
		{Name: "d", Version: "1:0.1", Filename: "d"},
	}

	Sort(packages, SortByVersion, false)

	want := []string{"1.0~rc1", "1.9", "1.10", "1:0.1"}
	for i, v := range want {
		if packages[i].Version != v {
			t.Errorf("packages[%d].Version = %q, want %q", i, packages[i].Version, v)
		}
	}
}

func TestGroupKeepsFirstSeenOrder(t *testing.T) {
	groups := Group(samplePackages())

	if len(groups) != 4 {
		t.Fatalf("got %d groups, want 4", len(groups))
	}
	if groups[0].Name != "curl" || len(groups[0].Versions) != 2 {
		t.Errorf("first group = %+v", groups[0])
	}
	if groups[0].Versions[0].Version != "7.88.1-10" || groups[0].Versions[1].Version != "7.88.1-9" {
		t.Errorf("versions out of order: %+v", groups[0].Versions)
	}
}

func TestPaginate(t *testing.T) {
	var packages []models.Package
	for i := 0; i < 45; i++ {
		name := fmt.Sprintf("pkg%02d", i)
		packages = append(packages, models.Package{Name: name, Version: "1.0", Filename: name + ".deb"})
	}

	page := Paginate(packages, Query{Page: 3})
	if page.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", page.TotalPages)
	}
	if page.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", page.PageSize, DefaultPageSize)
	}
	if len(page.Groups) != 5 {
		t.Errorf("got %d groups on last page, want 5", len(page.Groups))
	}
	if page.Groups[0].Name != "pkg40" {
		t.Errorf("first group on page 3 = %q", page.Groups[0].Name)
	}
	if page.Total != 45 || page.Matched != 45 {
		t.Errorf("Total/Matched = %d/%d", page.Total, page.Matched)
	}

	clamped := Paginate(packages, Query{Page: 99, PageSize: 10})
	if clamped.Page != 5 {
		t.Errorf("page not clamped: %d", clamped.Page)
	}
	if first := Paginate(packages, Query{Page: -1}); first.Page != 1 {
		t.Errorf("negative page not clamped: %d", first.Page)
	}
}

func TestPaginateEmpty(t *testing.T) {
	page := Paginate(nil, Query{Search: "nothing"})

	if page.TotalPages != 1 || page.Page != 1 {
		t.Errorf("empty page = %+v", page)
	}
	if page.Groups == nil || len(page.Groups) != 0 {
		t.Errorf("groups = %#v, want empty slice", page.Groups)
	}
}

func TestPaginateGroupsVersionsOfOnePackage(t *testing.T) {
	page := Paginate(samplePackages(), Query{Search: "curl", SortField: SortByName})

	if len(page.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(page.Groups))
	}
	if page.Groups[0].Name != "curl" || len(page.Groups[0].Versions) != 2 {
		t.Errorf("curl group = %+v", page.Groups[0])
	}
	if page.Matched != 3 || page.Total != 5 {
		t.Errorf("Matched/Total = %d/%d", page.Matched, page.Total)
	}
}

func TestParseSortField(t *testing.T) {
	tests := map[string]SortField{
		"":         SortByName,
		"name":     SortByName,
		"Version":  SortByVersion,
		"filename": SortByFilename,
		"size":     SortByName,
	}
	for in, want := range tests {
		if got := ParseSortField(in); got != want {
			t.Errorf("ParseSortField(%q) = %q, want %q", in, got, want)
		}
	}
}
