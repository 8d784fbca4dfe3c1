package relay

import (
	"context"

	"github.com/ralt/webapt/internal/apt"
	"github.com/sirupsen/logrus"
)

// Repository is what the previewer learns about a repository from its
// Release file and dists/ listing.
type Repository struct {
	Base       string       `json:"base"`
	Dist       string       `json:"dist"`
	ReleaseURL string       `json:"release_url"`
	Release    *apt.Release `json:"-"`
	Dists      []string     `json:"dists"`
}

// Discover fetches the Release file of repoURL and lists the distributions
// the repository offers. The dists/ directory listing is best effort.
func Discover(ctx context.Context, f *Fetcher, repoURL, fallbackDist string) (*Repository, error) {
	repo := &Repository{
		Base:       apt.RepoBase(repoURL),
		Dist:       apt.InitialDist(repoURL, fallbackDist),
		ReleaseURL: apt.ReleaseURL(repoURL, fallbackDist),
	}

	content, err := f.FetchText(ctx, repo.ReleaseURL)
	if err != nil {
		return nil, err
	}
	repo.Release = apt.ParseRelease(content)

	seen := make(map[string]bool)
	add := func(dist string) {
		if dist != "" && !seen[dist] {
			seen[dist] = true
			repo.Dists = append(repo.Dists, dist)
		}
	}

	for _, dist := range repo.Release.Dists() {
		add(dist)
	}

	listing, err := f.FetchText(ctx, apt.DistsURL(repoURL))
	if err != nil {
		logrus.Debugf("Could not list distributions of %s: %v", repo.Base, err)
	} else {
		for _, dist := range apt.ParseDistListing(listing) {
			add(dist)
		}
	}

	add(repo.Dist)

	return repo, nil
}
