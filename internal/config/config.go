// Package config provides the superconfig document: the YAML file that records
// superscript settings and every tracked component.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
)

const (
	// AppName is the application name, used for the app directory
	AppName = "superscript"

	// DefaultConfigFile is the name of the superconfig file inside the app directory
	DefaultConfigFile = "superconfig.yml"

	// Uncategorized is the category used for components added without one
	Uncategorized = "(uncategorized)"

	// GitDefaultBranch is the branch assumed when none is recorded
	GitDefaultBranch = "main"

	// GitEnding is the suffix of git URLs and the name of the git metadata directory
	GitEnding = ".git"

	// DefaultPipCommand is used when the settings do not name a pip command
	DefaultPipCommand = "pip"

	// DefaultInstallDir is the directory below the app directory used as default install path
	DefaultInstallDir = "tools"

	// MaxDocumentSize is the largest superconfig document accepted (16MB)
	MaxDocumentSize = 16 * 1024 * 1024
)

// ComponentType identifies how a component was obtained
type ComponentType string

const (
	// ComponentTypeGit is a cloned git repository
	ComponentTypeGit ComponentType = "git"

	// ComponentTypeGitRelease is a set of assets downloaded from a GitHub release
	ComponentTypeGitRelease ComponentType = "gitrelease"

	// ComponentTypeURLFile is a single file downloaded from a URL
	ComponentTypeURLFile ComponentType = "urlfile"

	// ComponentTypePip is a python package installed with pip
	ComponentTypePip ComponentType = "pip"
)

// ComponentTypes lists every supported component type
var ComponentTypes = []ComponentType{
	ComponentTypeGit,
	ComponentTypeGitRelease,
	ComponentTypeURLFile,
	ComponentTypePip,
}

// IsValid reports whether t is a supported component type
func (t ComponentType) IsValid() bool {
	return slices.Contains(ComponentTypes, t)
}

// Settings is the "config" section of the superconfig document
type Settings struct {
	// DefaultPath is the base directory components are installed into
	DefaultPath string `yaml:"defaultpath"`

	// AutoSave pushes every committed change to GitSaveURL
	AutoSave bool `yaml:"autosave"`

	// GitVCS keeps the app directory under git version control
	GitVCS bool `yaml:"gitvcs"`

	// GitSaveURL is the remote the configuration repository is pushed to.
	// Encoded as null when empty.
	GitSaveURL *string `yaml:"gitsaveurl"`

	// PipCommand is the command line used to invoke pip
	PipCommand string `yaml:"pipcommand,omitempty"`
}

// Component is a single tracked component
type Component struct {
	URL        string        `yaml:"url"`
	Type       ComponentType `yaml:"type"`
	CustomPath string        `yaml:"custompath,omitempty"`
	Branch     string        `yaml:"branch,omitempty"`
	Recursive  bool          `yaml:"recursive,omitempty"`
	Version    string        `yaml:"version,omitempty"`

	// Filename is the downloaded file name of urlfile components
	Filename string `yaml:"filename,omitempty"`

	// Asset is the glob selecting the downloaded assets of gitrelease components
	Asset string `yaml:"asset,omitempty"`
}

// Document is the complete superconfig file
type Document struct {
	Config     Settings                         `yaml:"config"`
	Components map[string]map[string]*Component `yaml:"components,omitempty"`
}

// NewDocument returns an empty document with the given settings
func NewDocument(settings Settings) *Document {
	return &Document{
		Config:     settings,
		Components: make(map[string]map[string]*Component),
	}
}

// DefaultSettings returns the settings used when initializing without options
func DefaultSettings(appDir string) Settings {
	return Settings{
		DefaultPath: filepath.Join(appDir, DefaultInstallDir),
		AutoSave:    true,
		GitVCS:      true,
	}
}

// SaveURL returns the configured git remote, or an empty string
func (s *Settings) SaveURL() string {
	if s.GitSaveURL == nil {
		return ""
	}
	return *s.GitSaveURL
}

// SetSaveURL sets the git remote; an empty string clears it
func (s *Settings) SetSaveURL(url string) {
	if url == "" {
		s.GitSaveURL = nil
		return
	}
	s.GitSaveURL = &url
}

// GetPipCommand returns the pip command, using "pip" if not specified
func (s *Settings) GetPipCommand() string {
	if s.PipCommand == "" {
		return DefaultPipCommand
	}
	return s.PipCommand
}

// Option defines the interface for loading options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a document
type loaderConfig struct {
	path string
}

// WithConfigPath loads the document from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks so a linked superconfig is read from its real location.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		cfg.path = realPath
		return nil
	}
}

// Load loads, parses and validates a document from a YAML file
func Load(opts ...Option) (*Document, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Decode(data)
}

// validate performs the checks the schema cannot express
func (d *Document) validate() error {
	if d == nil {
		return fmt.Errorf("document cannot be nil")
	}

	seen := make(map[string]string)
	for _, category := range sortedKeys(d.Components) {
		if category == "" {
			return fmt.Errorf("components: category name cannot be empty")
		}
		for _, name := range sortedKeys(d.Components[category]) {
			prefix := fmt.Sprintf("components[%s][%s]", category, name)
			if name == "" {
				return fmt.Errorf("components[%s]: component name cannot be empty", category)
			}
			if other, ok := seen[name]; ok {
				return fmt.Errorf("%s: duplicate component name, also in category '%s'", prefix, other)
			}
			seen[name] = category

			if d.Components[category][name] == nil {
				return fmt.Errorf("%s: component definition is empty", prefix)
			}
		}
	}

	return nil
}

// sortedKeys returns the keys of a string keyed map in order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
