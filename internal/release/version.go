package release

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// IsStable reports whether version is not a semver pre-release. Tags that do
// not parse as semver are treated as stable; the index flag decides for them.
func IsStable(version string) bool {
	v, err := parseSemver(version)
	if err != nil {
		return true
	}
	return v.Prerelease() == ""
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.StrictNewVersion(version)
}
