package registry

import (
	"path/filepath"

	"github.com/superscript-dev/superscript/internal/config"
)

// Placement describes where a component is installed relative to the default path
type Placement struct {
	// Category is the component category; empty means uncategorized
	Category string

	// Subfolder places categorized components in a directory named after the category
	Subfolder bool

	// CustomPath replaces the default path as install base
	CustomPath string
}

// categorized reports whether the placement has a real category
func (p Placement) categorized() bool {
	return p.Category != "" && p.Category != config.Uncategorized
}

// StoresPath reports whether the resolved install path has to be recorded in the
// component. Only components found at <defaultpath>[/<category>]/<name> can do without.
func (p Placement) StoresPath() bool {
	return (p.categorized() && !p.Subfolder) || p.CustomPath != ""
}

// TargetPath returns the directory a new component is installed to:
// <base>[/<category>]/<name>, where base is the custom path or the default path.
func (r *Registry) TargetPath(name string, p Placement) string {
	base := r.doc.Config.DefaultPath
	if p.CustomPath != "" {
		base = p.CustomPath
	}
	if p.categorized() && p.Subfolder {
		base = filepath.Join(base, p.Category)
	}
	return filepath.Join(base, name)
}

// InstallPath returns the directory a registered component is installed in
func (r *Registry) InstallPath(name string) (string, error) {
	component, category, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	if component.CustomPath != "" {
		return component.CustomPath, nil
	}
	return r.TargetPath(name, Placement{Category: category, Subfolder: true}), nil
}

// ComponentSpec carries everything needed to record a new component
type ComponentSpec struct {
	URL       string
	Type      config.ComponentType
	Path      string
	Placement Placement
	Branch    string
	Recursive bool
	Version   string
	Filename  string
	Asset     string
}

// NewComponent builds the component record. The path is stored only when
// Placement.StoresPath demands it and the branch only when it is not the default.
func NewComponent(spec ComponentSpec) *config.Component {
	component := &config.Component{
		URL:       spec.URL,
		Type:      spec.Type,
		Recursive: spec.Recursive,
		Version:   spec.Version,
		Filename:  spec.Filename,
		Asset:     spec.Asset,
	}
	if spec.Placement.StoresPath() {
		component.CustomPath = spec.Path
	}
	if spec.Branch != "" && spec.Branch != config.GitDefaultBranch {
		component.Branch = spec.Branch
	}
	return component
}

// Branch returns the branch of a component, defaulting to config.GitDefaultBranch
func Branch(component *config.Component) string {
	if component == nil || component.Branch == "" {
		return config.GitDefaultBranch
	}
	return component.Branch
}
