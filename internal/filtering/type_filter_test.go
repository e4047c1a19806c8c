package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/superscript-dev/superscript/internal/config"
)

func TestNewDefaultTypeFilter(t *testing.T) {
	t.Parallel()

	filter := NewDefaultTypeFilter()
	assert.NotNil(t, filter)
	assert.IsType(t, &DefaultTypeFilter{}, filter)
}

func TestDefaultTypeFilter_ShouldInclude(t *testing.T) {
	t.Parallel()

	filter := NewDefaultTypeFilter()

	tests := []struct {
		name          string
		componentType config.ComponentType
		include       []config.ComponentType
		exclude       []config.ComponentType
		expected      bool
	}{
		{
			name:          "no filters - should include",
			componentType: config.ComponentTypeGit,
			expected:      true,
		},
		{
			name:          "type in include list",
			componentType: config.ComponentTypeURLFile,
			include:       []config.ComponentType{config.ComponentTypeGit, config.ComponentTypeURLFile},
			expected:      true,
		},
		{
			name:          "type not in include list",
			componentType: config.ComponentTypePip,
			include:       []config.ComponentType{config.ComponentTypeGit},
			expected:      false,
		},
		{
			name:          "type excluded",
			componentType: config.ComponentTypePip,
			exclude:       []config.ComponentType{config.ComponentTypePip},
			expected:      false,
		},
		{
			name:          "type not excluded",
			componentType: config.ComponentTypeGitRelease,
			exclude:       []config.ComponentType{config.ComponentTypePip},
			expected:      true,
		},
		{
			name:          "exclude takes precedence",
			componentType: config.ComponentTypeGit,
			include:       []config.ComponentType{config.ComponentTypeGit},
			exclude:       []config.ComponentType{config.ComponentTypeGit},
			expected:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, reason := filter.ShouldInclude(tt.componentType, tt.include, tt.exclude)
			assert.Equal(t, tt.expected, got, reason)
		})
	}
}
