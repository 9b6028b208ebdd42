package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/yii2-navigation/yii2-ls/internal/logger"
	"github.com/yii2-navigation/yii2-ls/internal/platform"
)

// Downloader fetches the archive at url and unpacks it into destDir.
type Downloader interface {
	Download(ctx context.Context, url, destDir string, kind platform.ArchiveKind) error
}

// HTTPDownloader is a Downloader over HTTP(S).
type HTTPDownloader struct {
	httpClient *http.Client
	userAgent  string
	progress   io.Writer
	log        *logger.Logger
}

// Option configures an HTTPDownloader.
type Option func(*HTTPDownloader)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(d *HTTPDownloader) {
		d.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(d *HTTPDownloader) {
		d.userAgent = ua
	}
}

// WithProgress draws a progress bar on w while downloading. Nothing is drawn
// when the server does not announce a content length.
func WithProgress(w io.Writer) Option {
	return func(d *HTTPDownloader) {
		d.progress = w
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(d *HTTPDownloader) {
		d.log = l
	}
}

// New creates an HTTPDownloader.
func New(opts ...Option) *HTTPDownloader {
	d := &HTTPDownloader{
		httpClient: http.DefaultClient,
		userAgent:  "yii2-ls",
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download streams url into a temporary file next to destDir, unpacks it
// into destDir and removes the temporary file.
func (d *HTTPDownloader) Download(ctx context.Context, url, destDir string, kind platform.ArchiveKind) error {
	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", parent, err)
	}

	tmp, err := os.CreateTemp(parent, ".download-*")
	if err != nil {
		return fmt.Errorf("creating download file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	n, err := d.fetch(ctx, url, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	d.log.Debug("downloaded archive", zap.String("url", url), zap.Int64("bytes", n))

	if err := Extract(tmpPath, destDir, kind); err != nil {
		return fmt.Errorf("extracting %s: %w", url, err)
	}
	d.log.Debug("extracted archive", zap.String("dest", destDir), zap.Stringer("kind", kind))
	return nil
}

func (d *HTTPDownloader) fetch(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	dst := w
	if d.progress != nil && resp.ContentLength > 0 {
		bar := progressbar.NewOptions64(
			resp.ContentLength,
			progressbar.OptionSetWriter(d.progress),
			progressbar.OptionSetDescription("Downloading"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(d.progress) }),
		)
		dst = io.MultiWriter(w, bar)
	}

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return n, fmt.Errorf("reading download stream: %w", err)
	}
	return n, nil
}
