package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/filtering"
)

var (
	// ErrComponentExists is returned when adding a name that is already registered
	ErrComponentExists = errors.New("component already exists")

	// ErrComponentNotFound is returned when a name is not registered
	ErrComponentNotFound = errors.New("component not found")
)

// Registry manages the components of a superconfig document
type Registry struct {
	doc    *config.Document
	filter filtering.FilterService
}

// New creates a registry operating on doc. A nil document yields an empty registry
// with zero settings.
func New(doc *config.Document) *Registry {
	if doc == nil {
		doc = config.NewDocument(config.Settings{})
	}
	if doc.Components == nil {
		doc.Components = make(map[string]map[string]*config.Component)
	}
	return &Registry{
		doc:    doc,
		filter: filtering.NewDefaultFilterService(),
	}
}

// Document returns the underlying document
func (r *Registry) Document() *config.Document {
	return r.doc
}

// Settings returns the settings section of the underlying document
func (r *Registry) Settings() *config.Settings {
	return &r.doc.Config
}

// Add registers a component. An empty category means uncategorized.
func (r *Registry) Add(name, category string, component *config.Component) error {
	if name == "" {
		return fmt.Errorf("component name cannot be empty")
	}
	if component == nil {
		return fmt.Errorf("component %s cannot be nil", name)
	}

	if _, existing, err := r.Lookup(name); err == nil {
		if existing == "" {
			existing = config.Uncategorized
		}
		return fmt.Errorf("%w: %s in category %s", ErrComponentExists, name, existing)
	}

	r.put(name, normalizeCategory(category), component)
	return nil
}

// Put registers or replaces a component. A component registered under a different
// category is moved.
func (r *Registry) Put(name, category string, component *config.Component) error {
	if name == "" {
		return fmt.Errorf("component name cannot be empty")
	}
	if component == nil {
		return fmt.Errorf("component %s cannot be nil", name)
	}

	category = normalizeCategory(category)
	if _, existing, err := r.Lookup(name); err == nil && normalizeCategory(existing) != category {
		slog.Debug("Moving component to another category",
			"component", name, "from", normalizeCategory(existing), "to", category)
		r.delete(name, normalizeCategory(existing))
	}

	r.put(name, category, component)
	return nil
}

// Lookup returns a component and its category. The category is empty for
// uncategorized components.
func (r *Registry) Lookup(name string) (*config.Component, string, error) {
	for category, components := range r.doc.Components {
		component, ok := components[name]
		if !ok {
			continue
		}
		if category == config.Uncategorized {
			category = ""
		}
		return component, category, nil
	}
	return nil, "", fmt.Errorf("%w: %s", ErrComponentNotFound, name)
}

// Remove unregisters a component. Categories left empty are dropped.
func (r *Registry) Remove(name string) error {
	_, category, err := r.Lookup(name)
	if err != nil {
		return err
	}
	r.delete(name, normalizeCategory(category))
	return nil
}

// Names returns all component names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, r.Len())
	for _, components := range r.doc.Components {
		for name := range components {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Categories returns the category names in sorted order, including
// config.Uncategorized when it holds components
func (r *Registry) Categories() []string {
	categories := make([]string, 0, len(r.doc.Components))
	for category, components := range r.doc.Components {
		if len(components) > 0 {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)
	return categories
}

// HasCategory reports whether a category holds at least one component
func (r *Registry) HasCategory(category string) bool {
	return len(r.doc.Components[normalizeCategory(category)]) > 0
}

// Len returns the number of registered components
func (r *Registry) Len() int {
	count := 0
	for _, components := range r.doc.Components {
		count += len(components)
	}
	return count
}

func (r *Registry) put(name, category string, component *config.Component) {
	if r.doc.Components[category] == nil {
		slog.Debug("Creating category", "category", category)
		r.doc.Components[category] = make(map[string]*config.Component)
	}
	r.doc.Components[category][name] = component
}

func (r *Registry) delete(name, category string) {
	delete(r.doc.Components[category], name)
	if len(r.doc.Components[category]) == 0 {
		delete(r.doc.Components, category)
	}
}

// normalizeCategory maps the empty category to config.Uncategorized
func normalizeCategory(category string) string {
	if category == "" {
		return config.Uncategorized
	}
	return category
}
