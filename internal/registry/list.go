package registry

import (
	"sort"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/filtering"
)

// Entry is a registered component together with its name and category
type Entry struct {
	Name string

	// Category is the stored category key, config.Uncategorized included
	Category string

	Component *config.Component
}

// ListOptions narrows the result of List
type ListOptions struct {
	// Category restricts the result to one category; empty lists all
	Category string

	// Include and Exclude are glob patterns matched against component names
	Include []string
	Exclude []string

	// Types restricts the result to the given component types
	Types []config.ComponentType
}

// List returns the matching components ordered by category, then name
func (r *Registry) List(opts ListOptions) []Entry {
	criteria := &filtering.Criteria{
		Include: opts.Include,
		Exclude: opts.Exclude,
		Types:   opts.Types,
	}

	var entries []Entry
	for category, components := range r.doc.Components {
		if opts.Category != "" && category != opts.Category {
			continue
		}
		for name, component := range components {
			if !r.filter.Matches(name, component, criteria) {
				continue
			}
			entries = append(entries, Entry{Name: name, Category: category, Component: component})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return entries[i].Category < entries[j].Category
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}
