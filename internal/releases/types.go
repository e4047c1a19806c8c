package releases

import (
	"fmt"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// Asset is a file attached to a release
type Asset struct {
	Name        string
	DownloadURL string
	Size        int64
}

// Release is a published GitHub release
type Release struct {
	TagName     string
	Name        string
	PublishedAt time.Time
	Body        string
	HTMLURL     string
	Prerelease  bool
	Assets      []Asset
}

// Title returns the release name, or the tag when the release is unnamed
func (r *Release) Title() string {
	if r.Name != "" {
		return r.Name
	}
	return r.TagName
}

// MatchAssets returns the assets whose name matches the glob pattern.
// An empty pattern matches every asset.
func (r *Release) MatchAssets(pattern string) ([]Asset, error) {
	if pattern == "" {
		return r.Assets, nil
	}

	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid asset pattern '%s': %w", pattern, err)
	}

	var matched []Asset
	for _, asset := range r.Assets {
		if g.Match(strings.ToLower(asset.Name)) {
			matched = append(matched, asset)
		}
	}
	return matched, nil
}
