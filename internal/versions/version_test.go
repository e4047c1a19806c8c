package versions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input             string
		major, minor, fix int
		prefix, separator string
		parts             int
	}{
		{input: "V0_0_53", major: 0, minor: 0, fix: 53, prefix: "V", separator: "_", parts: 3},
		{input: "V0_53", major: 0, minor: 53, fix: 0, prefix: "V", separator: "_", parts: 2},
		{input: "v1", major: 1, minor: 0, fix: 0, prefix: "v", separator: ".", parts: 1},
		{input: "1-2", major: 1, minor: 2, fix: 0, prefix: "", separator: "-", parts: 2},
		{input: " 2.10.3 ", major: 2, minor: 10, fix: 3, prefix: "", separator: ".", parts: 3},
		{input: "12", major: 12, minor: 0, fix: 0, prefix: "", separator: ".", parts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			v, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.major, v.Major)
			assert.Equal(t, tt.minor, v.Minor)
			assert.Equal(t, tt.fix, v.Fix)
			assert.Equal(t, tt.prefix, v.Prefix)
			assert.Equal(t, tt.separator, v.Separator)
			assert.Equal(t, tt.parts, v.Parts)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "latest", "version-1"} {
		_, err := Parse(input)
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, ErrInvalidVersion))
	}
}

func TestVersion_Navigation(t *testing.T) {
	t.Parallel()

	v := MustParse("V0_0_53")
	assert.Equal(t, "v0.0.53", v.String())
	assert.Equal(t, "0.0.53", v.Semver())
	assert.Equal(t, 1, v.NextMajor())
	assert.Equal(t, 1, v.NextMinor())
	assert.Equal(t, 54, v.NextFix())

	candidates := v.Candidates()
	require.Len(t, candidates, 3)
	assert.Equal(t, "V0_0_54", candidates[0].Render())
	assert.Equal(t, "V0_1_0", candidates[1].Render())
	assert.Equal(t, "V1_0_0", candidates[2].Render())
}

func TestVersion_Render(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "V0_0_53", MustParse("V0_0_53").Render())
	assert.Equal(t, "v1", MustParse("v1").Render())
	assert.Equal(t, "v1.1", MustParse("v1").BumpMinor().Render())
	assert.Equal(t, "1-3", MustParse("1-2").BumpMinor().Render())
	assert.Equal(t, "1-2-1", MustParse("1-2").BumpFix().Render())
}

func TestSplitFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fileName, name, version, ext string
	}{
		{fileName: "oledump_V0_0_53.zip", name: "oledump", version: "V0_0_53", ext: "zip"},
		{fileName: "tool.py", name: "tool", version: "", ext: "py"},
		{fileName: "binary_v2", name: "binary", version: "v2", ext: ""},
		{fileName: "README", name: "README", version: "", ext: ""},
		{fileName: "tool_V1_0_0.tar.gz", name: "tool", version: "V1_0_0", ext: "tar.gz"},
		{fileName: "tool_1.2.3.TAR.XZ", name: "tool", version: "1.2.3", ext: "TAR.XZ"},
		{fileName: "archive.tar.bz2", name: "archive", version: "", ext: "tar.bz2"},
		{fileName: "tool_v2.gz", name: "tool", version: "v2", ext: "gz"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			t.Parallel()

			name, version, ext := SplitFileName(tt.fileName)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.version, version)
			assert.Equal(t, tt.ext, ext)
			assert.Equal(t, tt.fileName, JoinFileName(name, version, ext))
		})
	}
}
