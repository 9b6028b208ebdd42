package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/yii2-navigation/yii2-ls/internal/branding"
	"github.com/yii2-navigation/yii2-ls/internal/fetch"
	"github.com/yii2-navigation/yii2-ls/internal/logger"
	"github.com/yii2-navigation/yii2-ls/internal/platform"
	"github.com/yii2-navigation/yii2-ls/internal/release"
)

// ErrNoMatchingAsset is returned when the latest release has no asset for the
// requested platform. The error message names the expected asset.
var ErrNoMatchingAsset = errors.New("no asset found matching")

// Resolver produces a path to a Node.js executable.
//
// A Resolver is not safe for concurrent use; callers invoke Resolve serially.
type Resolver struct {
	dir        string
	serverID   string
	repo       string
	locator    Locator
	reporter   Reporter
	index      release.Index
	downloader fetch.Downloader
	log        *logger.Logger

	// cached is the last binary path produced by an installation. It is
	// re-checked on every use.
	cached  string
	version string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDir sets the working directory version directories are installed
// into. The default is the process working directory.
func WithDir(dir string) Option {
	return func(r *Resolver) {
		r.dir = dir
	}
}

// WithServerID sets the id installation status is reported under.
func WithServerID(id string) Option {
	return func(r *Resolver) {
		r.serverID = id
	}
}

// WithRepository sets the "owner/name" repository releases are looked up in.
func WithRepository(repo string) Option {
	return func(r *Resolver) {
		if repo != "" {
			r.repo = repo
		}
	}
}

// WithLocator sets how an externally managed node is found.
func WithLocator(l Locator) Option {
	return func(r *Resolver) {
		r.locator = l
	}
}

// WithReporter sets the installation status reporter.
func WithReporter(rep Reporter) Option {
	return func(r *Resolver) {
		r.reporter = rep
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Resolver) {
		r.log = l
	}
}

// WithCachedBinary seeds the remembered binary path, e.g. from a previous
// process. The path is verified before it is used.
func WithCachedBinary(path string) Option {
	return func(r *Resolver) {
		r.cached = path
	}
}

// New creates a Resolver that installs releases found in index with downloader.
func New(index release.Index, downloader fetch.Downloader, opts ...Option) *Resolver {
	r := &Resolver{
		serverID:   branding.ServerID(),
		repo:       branding.RuntimeRepo(),
		locator:    PathLocator{},
		reporter:   NopReporter{},
		index:      index,
		downloader: downloader,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cached returns the remembered binary path, or "" if none.
func (r *Resolver) Cached() string {
	return r.cached
}

// Version returns the release version of the last installation, or "" if
// this Resolver has not looked one up.
func (r *Resolver) Version() string {
	return r.version
}

// Resolve returns the path of a node executable for key.
//
// A node found by the locator wins and nothing else is touched. Otherwise a
// remembered binary that is still a regular file is returned. Otherwise the
// latest stable release with assets is looked up, its asset for key is
// downloaded and unpacked unless the binary is already on disk, and the
// binary path is remembered.
func (r *Resolver) Resolve(ctx context.Context, key platform.Key) (string, error) {
	if p, ok := r.locator.Which(platform.RuntimeName); ok {
		r.log.Debug("using node from the environment", zap.String("path", p))
		return p, nil
	}

	if r.cached != "" && platform.IsRegularFile(r.cached) {
		r.log.Debug("using cached node binary", zap.String("path", r.cached))
		return r.cached, nil
	}

	binary, version, err := r.install(ctx, key)
	if err != nil {
		r.reporter.ReportStatus(r.serverID, Failed)
		return "", err
	}

	r.cached, r.version = binary, version
	r.reporter.ReportStatus(r.serverID, Ready)
	return binary, nil
}

func (r *Resolver) install(ctx context.Context, key platform.Key) (string, string, error) {
	r.reporter.ReportStatus(r.serverID, CheckingForUpdate)

	rel, err := r.index.Latest(ctx, r.repo, release.Options{RequireAssets: true, PreRelease: false})
	if err != nil {
		return "", "", fmt.Errorf("looking up latest release of %s: %w", r.repo, err)
	}

	layout, err := platform.LayoutFor(key)
	if err != nil {
		return "", "", err
	}

	assetName := layout.AssetName(rel.Version)
	asset, ok := rel.FindAsset(assetName)
	if !ok {
		return "", "", fmt.Errorf("%w %q", ErrNoMatchingAsset, assetName)
	}

	versionDir := platform.VersionDir(rel.Version)
	binary := r.path(layout.BinaryPath(rel.Version))
	log := r.log.WithFields(zap.String("version", rel.Version), zap.String("binary", binary))

	if platform.IsRegularFile(binary) {
		log.Debug("node release already installed")
		return binary, rel.Version, nil
	}

	r.reporter.ReportStatus(r.serverID, Downloading)
	log.Info("installing node release", zap.String("asset", asset.Name), zap.String("url", asset.DownloadURL))

	if err := r.downloader.Download(ctx, asset.DownloadURL, r.path(versionDir), layout.Kind); err != nil {
		return "", "", fmt.Errorf("failed to download file: %w", err)
	}

	if err := r.normalize(versionDir); err != nil {
		return "", "", err
	}

	if !platform.IsRegularFile(binary) {
		return "", "", fmt.Errorf("installed release %s does not contain %s", rel.Version, layout.Binary)
	}
	return binary, rel.Version, nil
}

// normalize renames every other node-* entry of the working directory to
// versionDir, for archives whose top-level directory differs from it.
// Rename failures are logged and ignored.
func (r *Resolver) normalize(versionDir string) error {
	dir := r.dir
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list working directory: %w", err)
	}

	prefix := platform.RuntimeName + "-"
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || name == versionDir {
			continue
		}
		if err := os.Rename(filepath.Join(dir, name), r.path(versionDir)); err != nil {
			r.log.WithError(err).Warn("ignoring failed rename of extracted entry",
				zap.String("entry", name),
				zap.String("target", versionDir),
			)
		}
	}
	return nil
}

// path maps a slash-separated path relative to the working directory to a
// filesystem path.
func (r *Resolver) path(rel string) string {
	if r.dir == "" {
		return filepath.FromSlash(rel)
	}
	return filepath.Join(r.dir, filepath.FromSlash(rel))
}
