// Package releases reads GitHub releases and selects their assets.
package releases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/superscript-dev/superscript/internal/httpclient"
)

const (
	// DefaultBaseURL is the GitHub REST API endpoint
	DefaultBaseURL = "https://api.github.com"

	// AcceptHeader is the media type requested from the API
	AcceptHeader = "application/vnd.github+json"

	// DefaultListLimit is the number of releases listed when no limit is given
	DefaultListLimit = 3

	maxPerPage = 100
)

// ErrNoReleases is returned when a repository has no published release
var ErrNoReleases = errors.New("no releases found")

// Client defines the interface for release lookups
type Client interface {
	// List returns up to limit releases, newest first
	List(ctx context.Context, owner, repo string, limit int) ([]Release, error)

	// Get returns the release with the given tag
	Get(ctx context.Context, owner, repo, tag string) (*Release, error)

	// Latest returns the newest non-prerelease release
	Latest(ctx context.Context, owner, repo string) (*Release, error)
}

// Option configures a client
type Option func(*client)

// WithBaseURL points the client at another API endpoint
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

type client struct {
	httpClient httpclient.Client
	baseURL    string
}

// NewClient creates a release client on top of httpClient. The HTTP client should
// send AcceptHeader.
func NewClient(httpClient httpclient.Client, opts ...Option) Client {
	c := &client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns up to limit releases, newest first
func (c *client) List(ctx context.Context, owner, repo string, limit int) ([]Release, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	endpoint := fmt.Sprintf("%s/releases?per_page=%d", c.repoURL(owner, repo), min(limit, maxPerPage))
	data, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases of %s/%s: %w", owner, repo, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("failed to parse releases of %s/%s: invalid JSON", owner, repo)
	}

	result := gjson.ParseBytes(data)
	if !result.IsArray() {
		return nil, fmt.Errorf("failed to parse releases of %s/%s: expected an array", owner, repo)
	}

	var releases []Release
	result.ForEach(func(_, value gjson.Result) bool {
		releases = append(releases, parseRelease(value))
		return len(releases) < limit
	})

	slog.Debug("Listed releases", "repository", owner+"/"+repo, "count", len(releases))
	return releases, nil
}

// Get returns the release with the given tag
func (c *client) Get(ctx context.Context, owner, repo, tag string) (*Release, error) {
	return c.fetch(ctx, c.repoURL(owner, repo)+"/releases/tags/"+url.PathEscape(tag), owner, repo)
}

// Latest returns the newest non-prerelease release
func (c *client) Latest(ctx context.Context, owner, repo string) (*Release, error) {
	return c.fetch(ctx, c.repoURL(owner, repo)+"/releases/latest", owner, repo)
}

func (c *client) fetch(ctx context.Context, endpoint, owner, repo string) (*Release, error) {
	data, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		if httpclient.IsNotFound(err) {
			return nil, fmt.Errorf("%w for %s/%s", ErrNoReleases, owner, repo)
		}
		return nil, fmt.Errorf("failed to fetch release of %s/%s: %w", owner, repo, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("failed to parse release of %s/%s: invalid JSON", owner, repo)
	}

	release := parseRelease(gjson.ParseBytes(data))
	if release.TagName == "" {
		return nil, fmt.Errorf("failed to parse release of %s/%s: missing tag_name", owner, repo)
	}
	return &release, nil
}

func (c *client) repoURL(owner, repo string) string {
	return fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))
}

// parseRelease reads the fields of a release object
func parseRelease(value gjson.Result) Release {
	release := Release{
		TagName:    value.Get("tag_name").String(),
		Name:       value.Get("name").String(),
		Body:       value.Get("body").String(),
		HTMLURL:    value.Get("html_url").String(),
		Prerelease: value.Get("prerelease").Bool(),
	}
	if published := value.Get("published_at").String(); published != "" {
		if t, err := time.Parse(time.RFC3339, published); err == nil {
			release.PublishedAt = t
		}
	}

	value.Get("assets").ForEach(func(_, asset gjson.Result) bool {
		release.Assets = append(release.Assets, Asset{
			Name:        asset.Get("name").String(),
			DownloadURL: asset.Get("browser_download_url").String(),
			Size:        asset.Get("size").Int(),
		})
		return true
	})
	return release
}
