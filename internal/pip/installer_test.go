package pip

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstaller(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		commandLine string
		wantCommand []string
		wantErr     bool
	}{
		{
			name:        "single word",
			commandLine: "pip",
			wantCommand: []string{"pip"},
		},
		{
			name:        "module invocation",
			commandLine: "python3 -m pip",
			wantCommand: []string{"python3", "-m", "pip"},
		},
		{
			name:        "quoted path",
			commandLine: `"/opt/my python/bin/pip" --quiet`,
			wantCommand: []string{"/opt/my python/bin/pip", "--quiet"},
		},
		{
			name:        "blank",
			commandLine: "   ",
			wantErr:     true,
		},
		{
			name:        "unterminated quote",
			commandLine: `python3 "-m pip`,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			installer, err := NewInstaller(tt.commandLine)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCommand, installer.(*commandInstaller).command)
		})
	}
}

func TestInstaller_Install(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		upgrade bool
		want    string
	}{
		{name: "install", want: "install requests\n"},
		{name: "upgrade", upgrade: true, want: "install --upgrade requests\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			installer, err := NewInstaller("echo", WithOutput(&stdout, &stderr))
			require.NoError(t, err)

			require.NoError(t, installer.Install(t.Context(), "requests", tt.upgrade))
			assert.Equal(t, tt.want, stdout.String())
		})
	}
}

func TestInstaller_Install_CommandFails(t *testing.T) {
	t.Parallel()

	installer, err := NewInstaller("/nonexistent/pip", WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))
	require.NoError(t, err)

	err = installer.Install(t.Context(), "requests", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to install requests")
}

func TestInstaller_Version(t *testing.T) {
	t.Parallel()

	installer, err := NewInstaller(`sh -c "echo Name: requests; echo Version: 2.31.0; echo Summary: HTTP" sh`)
	require.NoError(t, err)

	version, err := installer.Version(t.Context(), "requests")
	require.NoError(t, err)
	assert.Equal(t, "2.31.0", version)

	silent, err := NewInstaller("true")
	require.NoError(t, err)
	_, err = silent.Version(t.Context(), "requests")
	require.Error(t, err)
}

func TestInstaller_Uninstall(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	installer, err := NewInstaller("echo", WithOutput(&stdout, &bytes.Buffer{}))
	require.NoError(t, err)

	require.NoError(t, installer.Uninstall(t.Context(), "requests"))
	assert.Equal(t, "uninstall --yes requests\n", stdout.String())
}
