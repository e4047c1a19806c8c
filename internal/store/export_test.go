package store

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/git"
)

func TestStore_Export(t *testing.T) {
	t.Parallel()

	appDir := t.TempDir()
	s := New(appDir, git.NewDefaultGitClient())
	_, err := s.Init(t.Context(), settings(appDir, false, false, ""), InitOptions{})
	require.NoError(t, err)

	original, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	exportDir := t.TempDir()

	tests := []struct {
		name     string
		dest     string
		compress bool
		expected string
	}{
		{
			name:     "directory destination",
			dest:     exportDir,
			expected: filepath.Join(exportDir, config.DefaultConfigFile),
		},
		{
			name:     "file destination",
			dest:     filepath.Join(exportDir, "backup", "tools.yml"),
			expected: filepath.Join(exportDir, "backup", "tools.yml"),
		},
		{
			name:     "compressed file destination",
			dest:     filepath.Join(exportDir, "tools.yml"),
			compress: true,
			expected: filepath.Join(exportDir, "tools.yml.gz"),
		},
		{
			name:     "compressed with extension",
			dest:     filepath.Join(exportDir, "tools.gz"),
			compress: true,
			expected: filepath.Join(exportDir, "tools.gz"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			written, err := s.Export(t.Context(), tt.dest, tt.compress)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, written)

			content, err := os.ReadFile(written)
			require.NoError(t, err)
			if tt.compress {
				reader, err := gzip.NewReader(bytes.NewReader(content))
				require.NoError(t, err)
				assert.Equal(t, config.DefaultConfigFile, reader.Name)
				content, err = io.ReadAll(reader)
				require.NoError(t, err)
			}
			assert.Equal(t, original, content)
		})
	}
}

func TestStore_Export_NotInitialized(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir(), git.NewDefaultGitClient())
	_, err := s.Export(t.Context(), t.TempDir(), false)
	require.ErrorIs(t, err, ErrNotInitialized)
}
