package registry

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sahilm/fuzzy"
)

const (
	// DefaultSearchLimit is the number of matches returned when no limit is given
	DefaultSearchLimit = 5

	// SearchCutoff is the minimum similarity ratio of a close match
	SearchCutoff = 0.6
)

type scoredName struct {
	name  string
	score float64
}

// Search returns registered names similar to query, best match first. Similarity
// is the difflib ratio over characters; names below SearchCutoff are dropped and
// ties are ordered by name, descending.
func (r *Registry) Search(query string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	matcher := difflib.NewMatcher(nil, nil)
	matcher.SetSeq2(characters(query))

	var scored []scoredName
	for _, name := range r.Names() {
		matcher.SetSeq1(characters(name))
		if matcher.RealQuickRatio() < SearchCutoff || matcher.QuickRatio() < SearchCutoff {
			continue
		}
		if ratio := matcher.Ratio(); ratio >= SearchCutoff {
			scored = append(scored, scoredName{name: name, score: ratio})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].name > scored[j].name
	})

	results := make([]string, 0, min(limit, len(scored)))
	for i := 0; i < len(scored) && i < limit; i++ {
		results = append(results, scored[i].name)
	}
	return results
}

// FuzzySearch returns registered names containing the characters of query in
// order, best match first
func (r *Registry) FuzzySearch(query string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	matches := fuzzy.Find(query, r.Names())
	results := make([]string, 0, min(limit, len(matches)))
	for i := 0; i < len(matches) && i < limit; i++ {
		results = append(results, matches[i].Str)
	}
	return results
}

func characters(s string) []string {
	return strings.Split(s, "")
}
