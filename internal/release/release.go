package release

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoRelease is returned when no published release satisfies the options.
	ErrNoRelease = errors.New("no qualifying release found")
	// ErrNotFound is returned when the repository does not exist.
	ErrNotFound = errors.New("repository not found")
)

// Release represents one published version of a runtime.
type Release struct {
	Version    string    `json:"tag_name"`
	Name       string    `json:"name"`
	Draft      bool      `json:"draft"`
	PreRelease bool      `json:"prerelease"`
	Assets     []Asset   `json:"assets"`
	Published  time.Time `json:"published_at"`
	HTMLURL    string    `json:"html_url"`
}

// Asset represents a downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Options filters the releases Latest may return.
type Options struct {
	// RequireAssets skips releases without any downloadable asset.
	RequireAssets bool
	// PreRelease selects pre-releases instead of stable releases.
	PreRelease bool
}

// Index looks up the latest release of a repository.
type Index interface {
	Latest(ctx context.Context, repo string, opts Options) (*Release, error)
}

// FindAsset returns the asset whose name is exactly name.
func (r *Release) FindAsset(name string) (*Asset, bool) {
	for i := range r.Assets {
		if r.Assets[i].Name == name {
			return &r.Assets[i], true
		}
	}
	return nil, false
}

// matches reports whether r is eligible under opts.
func (r *Release) matches(opts Options) bool {
	if r.Draft {
		return false
	}
	pre := r.PreRelease || !IsStable(r.Version)
	if pre != opts.PreRelease {
		return false
	}
	if opts.RequireAssets && len(r.Assets) == 0 {
		return false
	}
	return true
}
