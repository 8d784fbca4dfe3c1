package apt

import (
	"fmt"
	"strings"
)

const distsSegment = "/dists/"

// BuildPackagesURL builds the URL of the uncompressed Packages index for
// codename/component/arch. baseURL may be a mirror root or already point into
// a dists/ tree; a tree for another codename is replaced by codename.
func BuildPackagesURL(baseURL, codename, component, arch string) string {
	cleanBaseURL := strings.TrimRight(baseURL, "/")

	// Check if the base URL already includes the dists directory
	if basePart, _, ok := strings.Cut(cleanBaseURL, distsSegment); ok {
		if strings.Contains(cleanBaseURL, distsSegment+codename) {
			return fmt.Sprintf("%s/%s/binary-%s/Packages", cleanBaseURL, component, arch)
		}
		return fmt.Sprintf("%s/dists/%s/%s/binary-%s/Packages", basePart, codename, component, arch)
	}

	return fmt.Sprintf("%s/dists/%s/%s/binary-%s/Packages", cleanBaseURL, codename, component, arch)
}

// RepoBase returns the mirror root of repoURL: everything before the first
// /dists/, without trailing slashes.
func RepoBase(repoURL string) string {
	clean := strings.TrimRight(strings.TrimSpace(repoURL), "/")
	base, _, _ := strings.Cut(clean, distsSegment)
	return base
}

// InitialDist returns the distribution named right after /dists/ in repoURL,
// or fallback when the URL names none.
func InitialDist(repoURL, fallback string) string {
	clean := strings.TrimRight(strings.TrimSpace(repoURL), "/")
	_, distsPath, ok := strings.Cut(clean, distsSegment)
	if !ok {
		return fallback
	}
	dist, _, _ := strings.Cut(distsPath, "/")
	if strings.TrimSpace(dist) == "" {
		return fallback
	}
	return dist
}

// ReleaseURL returns the Release file URL for repoURL. The distribution is
// taken from repoURL when it points into a dists/ tree, otherwise fallback.
func ReleaseURL(repoURL, fallback string) string {
	return fmt.Sprintf("%s/dists/%s/Release", RepoBase(repoURL), InitialDist(repoURL, fallback))
}

// ReleaseGPGURL returns the URL of the detached signature next to ReleaseURL.
func ReleaseGPGURL(repoURL, fallback string) string {
	return ReleaseURL(repoURL, fallback) + ".gpg"
}

// DistsURL returns the URL of the dists/ directory listing of repoURL.
func DistsURL(repoURL string) string {
	return RepoBase(repoURL) + distsSegment
}

// DownloadURL returns the URL of a package file listed with filename under
// the mirror root repoBase. Filenames are pool-relative.
func DownloadURL(repoBase, filename string) string {
	cleanBase := strings.TrimRight(repoBase, "/")
	cleanFilename := strings.TrimLeft(filename, "/")
	if !strings.HasPrefix(cleanFilename, "pool/") {
		cleanFilename = "pool/" + cleanFilename
	}
	return cleanBase + "/" + cleanFilename
}
