package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/superscript-dev/superscript/internal/config"
)

func TestDefaultFilterService_Matches(t *testing.T) {
	t.Parallel()

	service := NewDefaultFilterService()
	gitComponent := &config.Component{URL: "https://github.com/fortra/impacket.git", Type: config.ComponentTypeGit}

	tests := []struct {
		name      string
		component *config.Component
		criteria  *Criteria
		expected  bool
	}{
		{
			name:      "nil criteria",
			component: gitComponent,
			expected:  true,
		},
		{
			name:      "empty criteria",
			component: gitComponent,
			criteria:  &Criteria{},
			expected:  true,
		},
		{
			name:      "name and type match",
			component: gitComponent,
			criteria:  &Criteria{Include: []string{"imp*"}, Types: []config.ComponentType{config.ComponentTypeGit}},
			expected:  true,
		},
		{
			name:      "name matches but type does not",
			component: gitComponent,
			criteria:  &Criteria{Include: []string{"imp*"}, Types: []config.ComponentType{config.ComponentTypePip}},
			expected:  false,
		},
		{
			name:      "name excluded",
			component: gitComponent,
			criteria:  &Criteria{Exclude: []string{"impacket"}},
			expected:  false,
		},
		{
			name:     "nil component with type criteria",
			criteria: &Criteria{Types: []config.ComponentType{config.ComponentTypeGit}},
			expected: false,
		},
		{
			name:     "nil component with name criteria only",
			criteria: &Criteria{Include: []string{"*"}},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, service.Matches("impacket", tt.component, tt.criteria))
		})
	}
}

type stubNameFilter struct{ include bool }

func (s stubNameFilter) ShouldInclude(string, []string, []string) (bool, string) {
	return s.include, "stub"
}

func TestNewFilterService_CustomFilters(t *testing.T) {
	t.Parallel()

	service := NewFilterService(stubNameFilter{include: false}, NewDefaultTypeFilter())
	assert.False(t, service.Matches("anything", &config.Component{Type: config.ComponentTypeGit},
		&Criteria{Include: []string{"*"}}))
}
