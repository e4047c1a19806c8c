package filtering

import (
	"fmt"
	"slices"

	"github.com/superscript-dev/superscript/internal/config"
)

// TypeFilter handles component type filtering using exact matching
type TypeFilter interface {
	// ShouldInclude determines if a component of the given type should be included
	// Returns (shouldInclude bool, reason string)
	ShouldInclude(componentType config.ComponentType, include, exclude []config.ComponentType) (bool, string)
}

// DefaultTypeFilter implements type filtering using exact matching
type DefaultTypeFilter struct{}

// NewDefaultTypeFilter creates a new DefaultTypeFilter
func NewDefaultTypeFilter() *DefaultTypeFilter {
	return &DefaultTypeFilter{}
}

// ShouldInclude determines if a component of the given type should be included.
// Exclusion takes precedence; an include list requires a match; no lists include everything.
func (*DefaultTypeFilter) ShouldInclude(
	componentType config.ComponentType,
	include, exclude []config.ComponentType,
) (bool, string) {
	if slices.Contains(exclude, componentType) {
		return false, fmt.Sprintf("excluded by type '%s'", componentType)
	}

	if len(include) > 0 {
		if slices.Contains(include, componentType) {
			return true, fmt.Sprintf("included by type '%s'", componentType)
		}
		return false, fmt.Sprintf("type '%s' not in include list %v", componentType, include)
	}

	if len(exclude) > 0 {
		return true, fmt.Sprintf("type '%s' not in exclude list %v", componentType, exclude)
	}
	return true, "no type filters specified"
}
