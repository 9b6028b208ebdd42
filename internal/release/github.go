package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const (
	// DefaultAPIBase is the GitHub REST API root.
	DefaultAPIBase  = "https://api.github.com"
	defaultPageSize = 30
	defaultMaxPages = 10
)

// Client is an Index backed by the GitHub Releases API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	mirror     string
	token      string
	userAgent  string
	pageSize   int
	maxPages   int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL points the client at another API root, such as GitHub
// Enterprise or a test server.
func WithBaseURL(base string) Option {
	return func(cl *Client) {
		if base != "" {
			cl.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithMirror rewrites asset download URLs to <mirror>/<version>/<asset name>.
func WithMirror(mirror string) Option {
	return func(cl *Client) {
		cl.mirror = strings.TrimRight(mirror, "/")
	}
}

// WithToken sets the token sent in the Authorization header. By default the
// GITHUB_TOKEN environment variable is used.
func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithPageSize sets how many releases are requested per listing.
func WithPageSize(n int) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.pageSize = n
		}
	}
}

// WithMaxPages caps how many listing pages Latest reads before giving up.
func WithMaxPages(n int) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.maxPages = n
		}
	}
}

// NewClient creates a GitHub release index client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultAPIBase,
		token:      os.Getenv("GITHUB_TOKEN"),
		userAgent:  "yii2-ls",
		pageSize:   defaultPageSize,
		maxPages:   defaultMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Latest returns the newest release of repo ("owner/name") that satisfies
// opts. Releases are considered in the order the API lists them, newest first.
// Further pages are followed through the Link header, up to the page limit.
func (c *Client) Latest(ctx context.Context, repo string, opts Options) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases?per_page=%d", c.baseURL, repo, c.pageSize)
	for page := 0; page < c.maxPages && url != ""; page++ {
		releases, next, err := c.list(ctx, repo, url)
		if err != nil {
			return nil, err
		}
		for i := range releases {
			if !releases[i].matches(opts) {
				continue
			}
			r := releases[i]
			c.rewriteAssets(&r)
			return &r, nil
		}
		url = next
	}
	return nil, fmt.Errorf("%w in %s", ErrNoRelease, repo)
}

// list fetches one listing page and returns the URL of the next, if any.
func (c *Client) list(ctx context.Context, repo, url string) ([]Release, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching releases of %s: %w", repo, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", fmt.Errorf("%w: %s", ErrNotFound, repo)
	case resp.StatusCode == http.StatusForbidden:
		return nil, "", fmt.Errorf("GitHub API rate limit exceeded. Set GITHUB_TOKEN for higher limits")
	case resp.StatusCode != http.StatusOK:
		return nil, "", fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}

	if err := ValidateListing(body); err != nil {
		return nil, "", err
	}

	var releases []Release
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, "", fmt.Errorf("parsing release JSON: %w", err)
	}
	return releases, nextLink(resp.Header.Get("Link")), nil
}

// nextLink returns the rel="next" target of a Link header, or "".
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		target, params, ok := strings.Cut(part, ";")
		if !ok || !strings.Contains(params, `rel="next"`) {
			continue
		}
		target = strings.TrimSpace(target)
		return strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">")
	}
	return ""
}

func (c *Client) rewriteAssets(r *Release) {
	if c.mirror == "" {
		return
	}
	for i := range r.Assets {
		r.Assets[i].DownloadURL = c.mirror + "/" + r.Version + "/" + r.Assets[i].Name
	}
}
