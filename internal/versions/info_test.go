package versions

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInfoWithValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		version       string
		commit        string
		buildDate     string
		wantVersion   string
		wantBuildDate string
	}{
		{
			name:          "release build",
			version:       "v1.2.3",
			commit:        "0123456789abcdef",
			buildDate:     "2024-05-01T12:00:00Z",
			wantVersion:   "v1.2.3",
			wantBuildDate: "2024-05-01 12:00:00 UTC",
		},
		{
			name:          "dev build with commit",
			version:       "dev",
			commit:        "0123456789abcdef",
			buildDate:     "not a date",
			wantVersion:   "dev-01234567",
			wantBuildDate: "not a date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := buildInfoWithValues(tt.version, tt.commit, tt.buildDate)
			assert.Equal(t, tt.wantVersion, info.Version)
			assert.Equal(t, tt.wantBuildDate, info.BuildDate)
			assert.Equal(t, runtime.Version(), info.GoVersion)
			assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
		})
	}
}

func TestGetBuildInfo(t *testing.T) {
	t.Parallel()

	info := GetBuildInfo()
	assert.True(t, strings.HasPrefix(info.Version, ReleaseVersion), info.Version)

	// the build version and the parsed version type live side by side
	parsed := MustParse("1.2")
	assert.Equal(t, Version{Major: 1, Minor: 2, Separator: ".", Parts: 2}, parsed)
}
