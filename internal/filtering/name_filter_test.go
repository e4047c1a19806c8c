package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultNameFilter_ShouldInclude(t *testing.T) {
	t.Parallel()

	filter := NewDefaultNameFilter()

	tests := []struct {
		name          string
		componentName string
		include       []string
		exclude       []string
		expected      bool
	}{
		{
			name:          "no patterns - should include",
			componentName: "impacket",
			expected:      true,
		},
		{
			name:          "include match",
			componentName: "impacket-scripts",
			include:       []string{"impacket*"},
			expected:      true,
		},
		{
			name:          "include without match",
			componentName: "oledump",
			include:       []string{"impacket*"},
			expected:      false,
		},
		{
			name:          "exclude match",
			componentName: "oledump",
			exclude:       []string{"ole*"},
			expected:      false,
		},
		{
			name:          "exclude without match",
			componentName: "impacket",
			exclude:       []string{"ole*"},
			expected:      true,
		},
		{
			name:          "exclude takes precedence over include",
			componentName: "impacket",
			include:       []string{"imp*"},
			exclude:       []string{"impacket"},
			expected:      false,
		},
		{
			name:          "single character wildcard",
			componentName: "db1",
			include:       []string{"db?"},
			expected:      true,
		},
		{
			name:          "single character wildcard does not span",
			componentName: "database",
			include:       []string{"db?"},
			expected:      false,
		},
		{
			name:          "case insensitive",
			componentName: "PowerSploit",
			include:       []string{"powersploit"},
			expected:      true,
		},
		{
			name:          "invalid pattern excludes",
			componentName: "impacket",
			include:       []string{"[imp"},
			expected:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, reason := filter.ShouldInclude(tt.componentName, tt.include, tt.exclude)
			assert.Equal(t, tt.expected, got, reason)
			assert.NotEmpty(t, reason)
		})
	}
}

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	ok, err := MatchPattern("*sploit", "PowerSploit")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = MatchPattern("tools/*", "tools/nested/deep")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = MatchPattern("[", "x")
	require.Error(t, err)
}

func TestValidatePatterns(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidatePatterns())
	require.NoError(t, ValidatePatterns("imp*", "db?", "{a,b}*"))

	err := ValidatePatterns("imp*", "[imp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'[imp'")
}

func TestDefaultNameFilter_ReusesCompiledPatterns(t *testing.T) {
	t.Parallel()

	filter := NewDefaultNameFilter()
	for _, name := range []string{"impacket", "Impacket-Scripts", "oledump"} {
		got, _ := filter.ShouldInclude(name, []string{"imp*"}, nil)
		assert.Equal(t, name != "oledump", got, name)
	}
	assert.Len(t, filter.(*globNameFilter).compiled, 1)
}
