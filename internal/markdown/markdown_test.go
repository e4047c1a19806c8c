package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	r, err := New(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, r.Width())

	r, err = New(120)
	require.NoError(t, err)
	assert.Equal(t, 120, r.Width())
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	const readme = "# impacket\n\nCollection of Python classes for **network protocols**.\n\n- smbclient\n- secretsdump\n"

	tests := []struct {
		name         string
		style        string
		keepsMarkers bool
	}{
		{name: "dark", style: "dark"},
		{name: "light", style: "light"},
		{name: "plain text", style: "notty", keepsMarkers: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := New(40, WithStyle(tt.style))
			require.NoError(t, err)

			out, err := r.Render(readme)
			require.NoError(t, err)
			assert.Contains(t, out, "impacket")
			assert.Contains(t, out, "network")
			assert.Contains(t, out, "secretsdump")
			if tt.keepsMarkers {
				assert.Contains(t, out, "**")
			} else {
				assert.NotContains(t, out, "**")
			}
		})
	}
}

func TestRenderer_RenderAutoStyle(t *testing.T) {
	t.Parallel()

	r, err := New(40)
	require.NoError(t, err)

	out, err := r.Render("Collection of Python classes for **network protocols**.")
	require.NoError(t, err)
	assert.Contains(t, out, "network")
}
