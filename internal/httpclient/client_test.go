package httpclient_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superscript-dev/superscript/internal/httpclient"
)

// newTestServer creates a new test server with keep-alives disabled.
// This prevents flaky tests when running in parallel, as closing a server
// with keep-alives enabled can affect other tests sharing the HTTP transport.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func newTestClient(opts ...httpclient.Option) *httpclient.DefaultClient {
	opts = append([]httpclient.Option{httpclient.WithRetryInterval(time.Millisecond)}, opts...)
	return httpclient.NewDefaultClient(5*time.Second, opts...)
}

func TestNewDefaultClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
	}{
		{
			name:    "create client with custom timeout",
			timeout: 5 * time.Second,
		},
		{
			name:    "create client with zero timeout uses default",
			timeout: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.NotNil(t, httpclient.NewDefaultClient(tt.timeout), "client should not be nil")
		})
	}
}

func TestDefaultClient_Get(t *testing.T) {
	t.Parallel()

	var receivedUserAgent, receivedAccept string
	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUserAgent = r.Header.Get("User-Agent")
		receivedAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("config:\n  defaultpath: /opt/tools\n"))
	}))
	defer mockServer.Close()

	client := newTestClient(httpclient.WithHeader("Accept", "application/vnd.github+json"))
	data, err := client.Get(context.Background(), mockServer.URL)

	require.NoError(t, err)
	assert.Equal(t, "config:\n  defaultpath: /opt/tools\n", string(data))
	assert.Equal(t, httpclient.UserAgent, receivedUserAgent, "User-Agent header should be set correctly")
	assert.Equal(t, "application/vnd.github+json", receivedAccept, "Accept header should be overridable")
}

func TestDefaultClient_Get_HTTPErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		statusCode    int
		expectedCalls int32
		errorContains string
	}{
		{
			name:          "404 Not Found is not retried",
			statusCode:    http.StatusNotFound,
			expectedCalls: 1,
			errorContains: "HTTP 404",
		},
		{
			name:          "403 Forbidden is not retried",
			statusCode:    http.StatusForbidden,
			expectedCalls: 1,
			errorContains: "HTTP 403",
		},
		{
			name:          "500 Internal Server Error is retried",
			statusCode:    http.StatusInternalServerError,
			expectedCalls: httpclient.DefaultMaxTries,
			errorContains: "HTTP 500",
		},
		{
			name:          "503 Service Unavailable is retried",
			statusCode:    http.StatusServiceUnavailable,
			expectedCalls: httpclient.DefaultMaxTries,
			errorContains: "HTTP 503",
		},
		{
			name:          "429 Too Many Requests is retried",
			statusCode:    http.StatusTooManyRequests,
			expectedCalls: httpclient.DefaultMaxTries,
			errorContains: "HTTP 429",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.statusCode)
			}))
			defer mockServer.Close()

			_, err := newTestClient().Get(context.Background(), mockServer.URL)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.Equal(t, tt.expectedCalls, calls.Load())
		})
	}
}

func TestDefaultClient_Get_RecoversAfterTransientFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer mockServer.Close()

	data, err := newTestClient().Get(context.Background(), mockServer.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, int32(2), calls.Load())
}

func TestDefaultClient_Get_NetworkErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		url           string
		errorContains string
	}{
		{
			name:          "invalid URL scheme",
			url:           "://invalid-url",
			errorContains: "failed to create request",
		},
		{
			name:          "invalid URL format",
			url:           "not-a-valid-url",
			errorContains: "failed to execute request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newTestClient().Get(context.Background(), tt.url)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestDefaultClient_Get_ContextCancellation(t *testing.T) {
	t.Parallel()

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer mockServer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := newTestClient().Get(ctx, mockServer.URL)
	require.Error(t, err)
}

func TestDefaultClient_Get_SizeLimitExceeded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "reject response exceeding limit via Content-Length",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Length", "2048")
				w.WriteHeader(http.StatusOK)
			},
		},
		{
			name: "reject response exceeding limit by actual content",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(make([]byte, 2048))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockServer := newTestServer(tt.handler)
			defer mockServer.Close()

			_, err := newTestClient(httpclient.WithMaxResponseSize(1024)).Get(context.Background(), mockServer.URL)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "exceeds maximum allowed size")
		})
	}
}

func TestDefaultClient_Download(t *testing.T) {
	t.Parallel()

	content := []byte("print('oledump')")
	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/oledump_V0_0_53.zip" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(content)
	}))
	defer mockServer.Close()

	dest := filepath.Join(t.TempDir(), "analysis", "oledump", "oledump_V0_0_53.zip")
	download, err := newTestClient().Download(context.Background(), mockServer.URL+"/files/oledump_V0_0_53.zip", dest)
	require.NoError(t, err)

	sum := sha256.Sum256(content)
	assert.Equal(t, dest, download.Path)
	assert.Equal(t, int64(len(content)), download.Size)
	assert.Equal(t, hex.EncodeToString(sum[:]), download.SHA256)

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, written)

	digest, err := httpclient.FileDigest(dest)
	require.NoError(t, err)
	assert.Equal(t, download.SHA256, digest)

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files should remain")
}

func TestDefaultClient_Download_NotFoundKeepsExistingFile(t *testing.T) {
	t.Parallel()

	mockServer := newTestServer(http.NotFoundHandler())
	defer mockServer.Close()

	dest := filepath.Join(t.TempDir(), "tool.zip")
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0600))

	_, err := newTestClient().Download(context.Background(), mockServer.URL+"/tool.zip", dest)
	require.Error(t, err)
	assert.True(t, httpclient.IsNotFound(err))

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "old", string(written))
}

func TestDefaultClient_Status(t *testing.T) {
	t.Parallel()

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/with/wiki":
			w.WriteHeader(http.StatusOK)
		case "/without/wiki":
			http.Redirect(w, r, "/without", http.StatusFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(mockServer.Close)

	tests := []struct {
		path     string
		expected int
	}{
		{path: "/with/wiki", expected: http.StatusOK},
		{path: "/without/wiki", expected: http.StatusFound},
		{path: "/broken", expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			status, err := newTestClient().Status(context.Background(), mockServer.URL+tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestDefaultClient_Exists(t *testing.T) {
	t.Parallel()

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/present":
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/get-only" && r.Method == http.MethodHead:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case r.URL.Path == "/get-only":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(mockServer.Close)

	tests := []struct {
		path     string
		expected bool
	}{
		{path: "/present", expected: true},
		{path: "/get-only", expected: true},
		{path: "/missing", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			exists, err := newTestClient().Exists(context.Background(), mockServer.URL+tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, exists)
		})
	}
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	err := httpclient.NewHTTPError(http.StatusNotFound, "https://example.com/x", "404 Not Found")
	assert.Equal(t, "HTTP 404 for URL https://example.com/x: 404 Not Found", err.Error())
	assert.True(t, httpclient.IsNotFound(err))
	assert.True(t, httpclient.IsNotFound(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, httpclient.IsNotFound(httpclient.NewHTTPError(http.StatusGone, "u", "gone")))
	assert.False(t, httpclient.IsNotFound(nil))
}
