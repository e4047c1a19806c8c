// Package httpclient provides HTTP client functionality for downloads and API calls
package httpclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	// DefaultTimeout is the default timeout for HTTP requests
	DefaultTimeout = 5 * time.Minute

	// MaxResponseSize is the maximum allowed response size of Get (100MB)
	MaxResponseSize = 100 * 1024 * 1024

	// MaxDownloadSize is the maximum allowed size of a downloaded file (512MB)
	MaxDownloadSize = 512 * 1024 * 1024

	// DefaultMaxTries is the number of attempts made for transient failures
	DefaultMaxTries = 3

	// DefaultRetryInterval is the initial delay between attempts
	DefaultRetryInterval = 500 * time.Millisecond

	// UserAgent is the user agent string for HTTP requests
	UserAgent = "superscript/1.0"
)

// Client is an interface for HTTP operations
type Client interface {
	// Get performs an HTTP GET request and returns the response body
	Get(ctx context.Context, url string) ([]byte, error)

	// Download writes the response body of url to dest, replacing it atomically
	Download(ctx context.Context, url, dest string) (*Download, error)

	// Status returns the status code of a GET request without following redirects
	Status(ctx context.Context, url string) (int, error)

	// Exists reports whether url answers with a success status
	Exists(ctx context.Context, url string) (bool, error)
}

// Option configures a DefaultClient
type Option func(*DefaultClient)

// WithMaxTries sets the number of attempts for transient failures
func WithMaxTries(tries uint) Option {
	return func(c *DefaultClient) {
		if tries > 0 {
			c.maxTries = tries
		}
	}
}

// WithRetryInterval sets the initial delay between attempts
func WithRetryInterval(interval time.Duration) Option {
	return func(c *DefaultClient) {
		c.retryInterval = interval
	}
}

// WithHeader sets a header sent with every request
func WithHeader(key, value string) Option {
	return func(c *DefaultClient) {
		c.headers.Set(key, value)
	}
}

// WithMaxResponseSize overrides the size limits of Get and Download
func WithMaxResponseSize(size int64) Option {
	return func(c *DefaultClient) {
		c.maxResponseSize = size
		c.maxDownloadSize = size
	}
}

// DefaultClient is the default HTTP client implementation
type DefaultClient struct {
	client          *http.Client
	noRedirect      *http.Client
	headers         http.Header
	maxTries        uint
	retryInterval   time.Duration
	maxResponseSize int64
	maxDownloadSize int64
}

var _ Client = (*DefaultClient)(nil)

// NewDefaultClient creates a new default HTTP client with the specified timeout
// If timeout is 0, uses DefaultTimeout
func NewDefaultClient(timeout time.Duration, opts ...Option) *DefaultClient {
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	c := &DefaultClient{
		client: &http.Client{
			Timeout: timeout,
		},
		noRedirect: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		headers:         http.Header{},
		maxTries:        DefaultMaxTries,
		retryInterval:   DefaultRetryInterval,
		maxResponseSize: MaxResponseSize,
		maxDownloadSize: MaxDownloadSize,
	}
	c.headers.Set("User-Agent", UserAgent)
	c.headers.Set("Accept", "*/*")

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request
func (c *DefaultClient) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, c.client, http.MethodGet, url, true)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, url, resp.Status)
	}

	// Check Content-Length header if available
	if resp.ContentLength > c.maxResponseSize {
		return nil, fmt.Errorf("response size %d bytes exceeds maximum allowed size of %d bytes (%.2f MB)",
			resp.ContentLength, c.maxResponseSize, float64(c.maxResponseSize)/(1024*1024))
	}

	// +1 to detect if limit exceeded
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxResponseSize {
		return nil, fmt.Errorf("response size exceeds maximum allowed size of %d bytes (%.2f MB)",
			c.maxResponseSize, float64(c.maxResponseSize)/(1024*1024))
	}

	return body, nil
}

// Download writes the response body to a temporary file next to dest and renames
// it into place once complete
func (c *DefaultClient) Download(ctx context.Context, url, dest string) (*Download, error) {
	resp, err := c.do(ctx, c.client, http.MethodGet, url, true)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, url, resp.Status)
	}
	if resp.ContentLength > c.maxDownloadSize {
		return nil, fmt.Errorf("download size %d bytes exceeds maximum allowed size of %d bytes",
			resp.ContentLength, c.maxDownloadSize)
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// Removing after a successful rename fails harmlessly
		_ = os.Remove(tmpPath)
	}()

	hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, hash), io.LimitReader(resp.Body, c.maxDownloadSize+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write download: %w", err)
	}
	if size > c.maxDownloadSize {
		return nil, fmt.Errorf("download exceeds maximum allowed size of %d bytes", c.maxDownloadSize)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return nil, fmt.Errorf("failed to move download into place: %w", err)
	}

	slog.Debug("Downloaded file", "url", url, "path", dest, "size", size)
	return &Download{
		Path:   dest,
		Size:   size,
		SHA256: hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

// Status returns the status code of a GET request without following redirects
func (c *DefaultClient) Status(ctx context.Context, url string) (int, error) {
	resp, err := c.do(ctx, c.noRedirect, http.MethodGet, url, false)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

// Exists sends a HEAD request, falling back to GET for servers that reject HEAD
func (c *DefaultClient) Exists(ctx context.Context, url string) (bool, error) {
	resp, err := c.do(ctx, c.client, http.MethodHead, url, true)
	if err != nil {
		return false, err
	}
	_ = resp.Body.Close()

	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		resp, err = c.do(ctx, c.client, http.MethodGet, url, true)
		if err != nil {
			return false, err
		}
		_ = resp.Body.Close()
	}

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// do executes a request, retrying transport errors and, if retryStatus is set,
// server errors and rate limiting
func (c *DefaultClient) do(
	ctx context.Context, client *http.Client, method, url string, retryStatus bool,
) (*http.Response, error) {
	operation := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		for key, values := range c.headers {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(fmt.Errorf("failed to execute request: %w", err))
			}
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}

		if retryStatus && isRetryable(resp.StatusCode) {
			_ = resp.Body.Close()
			return nil, NewHTTPError(resp.StatusCode, url, resp.Status)
		}
		return resp, nil
	}

	expBackOff := backoff.NewExponentialBackOff()
	expBackOff.InitialInterval = c.retryInterval

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackOff),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, delay time.Duration) {
			slog.Debug("Retrying request", "url", url, "error", err, "delay", delay)
		}),
	)
}

func isRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError
}

// FileDigest returns the hex encoded SHA-256 digest of a file
func FileDigest(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- path is a tracked component file
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
