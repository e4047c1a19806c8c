package filtering

import (
	"log/slog"

	"github.com/superscript-dev/superscript/internal/config"
)

// Criteria selects components by name pattern and type
type Criteria struct {
	// Include and Exclude are glob patterns matched against component names
	Include []string
	Exclude []string

	// Types restricts the selection to the given component types
	Types []config.ComponentType
}

// IsEmpty reports whether the criteria select every component
func (c *Criteria) IsEmpty() bool {
	return c == nil || (len(c.Include) == 0 && len(c.Exclude) == 0 && len(c.Types) == 0)
}

// FilterService coordinates name and type filtering of components
type FilterService interface {
	// Matches reports whether a component passes the criteria
	Matches(name string, component *config.Component, criteria *Criteria) bool
}

// defaultFilterService implements filtering coordination using name and type filters
type defaultFilterService struct {
	nameFilter NameFilter
	typeFilter TypeFilter
}

// NewDefaultFilterService creates a new defaultFilterService with default filter implementations
func NewDefaultFilterService() FilterService {
	return &defaultFilterService{
		nameFilter: NewDefaultNameFilter(),
		typeFilter: NewDefaultTypeFilter(),
	}
}

// NewFilterService creates a new defaultFilterService with custom filter implementations
func NewFilterService(nameFilter NameFilter, typeFilter TypeFilter) FilterService {
	return &defaultFilterService{
		nameFilter: nameFilter,
		typeFilter: typeFilter,
	}
}

// Matches reports whether a component passes both the name and the type filter
func (s *defaultFilterService) Matches(name string, component *config.Component, criteria *Criteria) bool {
	if criteria.IsEmpty() {
		return true
	}

	include, reason := s.nameFilter.ShouldInclude(name, criteria.Include, criteria.Exclude)
	if !include {
		slog.Debug("Component filtered out by name", "component", name, "reason", reason)
		return false
	}

	if component == nil {
		return len(criteria.Types) == 0
	}

	include, reason = s.typeFilter.ShouldInclude(component.Type, criteria.Types, nil)
	if !include {
		slog.Debug("Component filtered out by type", "component", name, "reason", reason)
		return false
	}

	return true
}
