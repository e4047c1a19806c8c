package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func searchRegistry() *Registry {
	return New(NewTestDocument(
		WithComponent("", "impacket", GitComponent(impacketURL)),
		WithComponent("", "impacket-scripts", PipComponent("impacket-scripts")),
		WithComponent("creds", "mimikatz", GitComponent("https://github.com/gentilkiwi/mimikatz.git")),
		WithComponent("analysis", "oledump", URLFileComponent("https://example.com/oledump_V0_0_53.zip", "v0.0.53", "oledump_V0_0_53.zip")),
		WithComponent("misc", "tool-a", GitComponent("https://example.com/tool-a.git")),
		WithComponent("misc", "tool-b", GitComponent("https://example.com/tool-b.git")),
	))
}

func TestRegistry_Search(t *testing.T) {
	t.Parallel()

	reg := searchRegistry()

	tests := []struct {
		name     string
		query    string
		limit    int
		expected []string
	}{
		{
			name:     "exact name first",
			query:    "impacket",
			expected: []string{"impacket", "impacket-scripts"},
		},
		{
			name:     "typo",
			query:    "impaket",
			expected: []string{"impacket", "impacket-scripts"},
		},
		{
			name:     "ties ordered by name descending",
			query:    "tool-c",
			expected: []string{"tool-b", "tool-a"},
		},
		{
			name:     "limit",
			query:    "tool-c",
			limit:    1,
			expected: []string{"tool-b"},
		},
		{
			name:  "no match",
			query: "zzzzzz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			matches := reg.Search(tt.query, tt.limit)
			if len(tt.expected) == 0 {
				assert.Empty(t, matches)
				return
			}
			assert.Equal(t, tt.expected, matches)
		})
	}
}

func TestRegistry_Search_DefaultLimit(t *testing.T) {
	t.Parallel()

	doc := NewTestDocument()
	for _, name := range []string{"tool-a", "tool-b", "tool-c", "tool-d", "tool-e", "tool-f", "tool-g"} {
		WithComponent("", name, GitComponent("https://example.com/"+name+".git"))(doc)
	}

	assert.Len(t, New(doc).Search("tool-x", 0), DefaultSearchLimit)
}

func TestRegistry_FuzzySearch(t *testing.T) {
	t.Parallel()

	reg := searchRegistry()

	assert.Equal(t, []string{"mimikatz"}, reg.FuzzySearch("mktz", 0))
	assert.Equal(t, "impacket", reg.FuzzySearch("impacket", 0)[0])
	assert.Len(t, reg.FuzzySearch("t", 2), 2)
	assert.Empty(t, reg.FuzzySearch("qqq", 0))
}
