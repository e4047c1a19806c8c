package releases

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superscript-dev/superscript/internal/httpclient"
)

const releasesJSON = `[
  {
    "tag_name": "v2.1.0",
    "name": "Release 2.1.0",
    "published_at": "2024-03-01T10:00:00Z",
    "html_url": "https://github.com/owner/tool/releases/tag/v2.1.0",
    "prerelease": false,
    "body": "fixes",
    "assets": [
      {"name": "tool_linux_amd64.tar.gz", "browser_download_url": "https://example.com/linux", "size": 1024},
      {"name": "tool_windows_amd64.zip", "browser_download_url": "https://example.com/windows", "size": 2048}
    ]
  },
  {
    "tag_name": "v2.1.0-rc1",
    "name": "",
    "published_at": "2024-02-20T10:00:00Z",
    "prerelease": true,
    "assets": []
  },
  {
    "tag_name": "v2.0.0",
    "name": "Release 2.0.0",
    "published_at": "2024-01-01T10:00:00Z",
    "prerelease": false,
    "assets": []
  }
]`

const latestJSON = `{
  "tag_name": "v2.1.0",
  "name": "Release 2.1.0",
  "published_at": "2024-03-01T10:00:00Z",
  "assets": [
    {"name": "tool_linux_amd64.tar.gz", "browser_download_url": "https://example.com/linux", "size": 1024}
  ]
}`

func newReleaseServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/tool/releases", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, AcceptHeader, r.Header.Get("Accept"))
		_, _ = w.Write([]byte(releasesJSON))
	})
	mux.HandleFunc("/repos/owner/tool/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(latestJSON))
	})
	mux.HandleFunc("/repos/owner/tool/releases/tags/v2.1.0", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(latestJSON))
	})
	mux.HandleFunc("/repos/owner/broken/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name": `))
	})

	server := httptest.NewServer(mux)
	server.Config.SetKeepAlivesEnabled(false)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T) Client {
	t.Helper()

	server := newReleaseServer(t)
	httpClient := httpclient.NewDefaultClient(5*time.Second,
		httpclient.WithHeader("Accept", AcceptHeader),
		httpclient.WithRetryInterval(time.Millisecond),
	)
	return NewClient(httpClient, WithBaseURL(server.URL+"/"))
}

func TestClient_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		limit    int
		wantTags []string
	}{
		{
			name:     "limit below release count",
			limit:    2,
			wantTags: []string{"v2.1.0", "v2.1.0-rc1"},
		},
		{
			name:     "limit above release count",
			limit:    10,
			wantTags: []string{"v2.1.0", "v2.1.0-rc1", "v2.0.0"},
		},
		{
			name:     "zero limit uses default",
			wantTags: []string{"v2.1.0", "v2.1.0-rc1", "v2.0.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			releases, err := newTestClient(t).List(t.Context(), "owner", "tool", tt.limit)
			require.NoError(t, err)

			tags := make([]string, 0, len(releases))
			for _, r := range releases {
				tags = append(tags, r.TagName)
			}
			assert.Equal(t, tt.wantTags, tags)
		})
	}
}

func TestClient_List_Fields(t *testing.T) {
	t.Parallel()

	releases, err := newTestClient(t).List(t.Context(), "owner", "tool", 3)
	require.NoError(t, err)
	require.Len(t, releases, 3)

	first := releases[0]
	assert.Equal(t, "Release 2.1.0", first.Title())
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), first.PublishedAt)
	assert.Equal(t, "https://github.com/owner/tool/releases/tag/v2.1.0", first.HTMLURL)
	assert.Equal(t, "fixes", first.Body)
	require.Len(t, first.Assets, 2)
	assert.Equal(t, Asset{
		Name:        "tool_windows_amd64.zip",
		DownloadURL: "https://example.com/windows",
		Size:        2048,
	}, first.Assets[1])

	assert.True(t, releases[1].Prerelease)
	assert.Equal(t, "v2.1.0-rc1", releases[1].Title())
	assert.Empty(t, releases[1].Assets)
}

func TestClient_LatestAndGet(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)

	latest, err := client.Latest(t.Context(), "owner", "tool")
	require.NoError(t, err)
	assert.Equal(t, "v2.1.0", latest.TagName)
	require.Len(t, latest.Assets, 1)

	tagged, err := client.Get(t.Context(), "owner", "tool", "v2.1.0")
	require.NoError(t, err)
	assert.Equal(t, latest, tagged)

	_, err = client.Get(t.Context(), "owner", "tool", "v0.0.1")
	require.ErrorIs(t, err, ErrNoReleases)

	_, err = client.Latest(t.Context(), "owner", "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestRelease_MatchAssets(t *testing.T) {
	t.Parallel()

	release := &Release{Assets: []Asset{
		{Name: "tool_linux_amd64.tar.gz"},
		{Name: "tool_linux_arm64.tar.gz"},
		{Name: "tool_Windows_amd64.zip"},
	}}

	tests := []struct {
		name    string
		pattern string
		want    []string
		wantErr bool
	}{
		{
			name:    "empty pattern matches all",
			pattern: "",
			want:    []string{"tool_linux_amd64.tar.gz", "tool_linux_arm64.tar.gz", "tool_Windows_amd64.zip"},
		},
		{
			name:    "platform glob",
			pattern: "*linux*",
			want:    []string{"tool_linux_amd64.tar.gz", "tool_linux_arm64.tar.gz"},
		},
		{
			name:    "case insensitive",
			pattern: "*WINDOWS*.zip",
			want:    []string{"tool_Windows_amd64.zip"},
		},
		{
			name:    "no match",
			pattern: "*.deb",
		},
		{
			name:    "invalid pattern",
			pattern: "[",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assets, err := release.MatchAssets(tt.pattern)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			var names []string
			for _, a := range assets {
				names = append(names, a.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}
