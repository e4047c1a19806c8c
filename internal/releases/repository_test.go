package releases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepository(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input     string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{input: "owner/tool", wantOwner: "owner", wantRepo: "tool"},
		{input: "https://github.com/owner/tool", wantOwner: "owner", wantRepo: "tool"},
		{input: "https://github.com/owner/tool.git", wantOwner: "owner", wantRepo: "tool"},
		{input: "https://github.com/owner/tool/releases", wantOwner: "owner", wantRepo: "tool"},
		{input: "https://github.com/owner/tool/", wantOwner: "owner", wantRepo: "tool"},
		{input: "git@github.com:owner/tool.git", wantOwner: "owner", wantRepo: "tool"},
		{input: "github.com/owner/tool", wantOwner: "owner", wantRepo: "tool"},
		{input: "tool", wantErr: true},
		{input: "owner/", wantErr: true},
		{input: "https://github.com/owner/tool/tree/main", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			owner, repo, err := ParseRepository(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRepository)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
			assert.Equal(t, "https://github.com/"+tt.wantOwner+"/"+tt.wantRepo, RepositoryURL(owner, repo))
		})
	}
}
