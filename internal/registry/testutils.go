package registry

import (
	"github.com/superscript-dev/superscript/internal/config"
)

// TestDocumentOption is a function that configures a document for testing
type TestDocumentOption func(*config.Document)

// ComponentOption is a function that configures a component for testing
type ComponentOption func(*config.Component)

// NewTestDocument creates a document for testing with default settings and applies
// any provided options
func NewTestDocument(opts ...TestDocumentOption) *config.Document {
	doc := config.NewDocument(config.Settings{
		DefaultPath: "/opt/tools",
	})

	for _, opt := range opts {
		opt(doc)
	}

	return doc
}

// WithDefaultPath sets the install base directory
func WithDefaultPath(path string) TestDocumentOption {
	return func(doc *config.Document) {
		doc.Config.DefaultPath = path
	}
}

// WithGitVCS enables or disables git version control of the document
func WithGitVCS(enabled bool) TestDocumentOption {
	return func(doc *config.Document) {
		doc.Config.GitVCS = enabled
	}
}

// WithAutoSave enables or disables pushing after every change
func WithAutoSave(enabled bool) TestDocumentOption {
	return func(doc *config.Document) {
		doc.Config.AutoSave = enabled
	}
}

// WithSaveURL sets the git remote of the document
func WithSaveURL(url string) TestDocumentOption {
	return func(doc *config.Document) {
		doc.Config.SetSaveURL(url)
	}
}

// WithComponent adds a component to a category. An empty category means uncategorized.
func WithComponent(category, name string, component *config.Component) TestDocumentOption {
	return func(doc *config.Document) {
		category = normalizeCategory(category)
		if doc.Components[category] == nil {
			doc.Components[category] = make(map[string]*config.Component)
		}
		doc.Components[category][name] = component
	}
}

// GitComponent creates a git component for testing
func GitComponent(url string, opts ...ComponentOption) *config.Component {
	return newTestComponent(url, config.ComponentTypeGit, opts)
}

// URLFileComponent creates a urlfile component for testing
func URLFileComponent(url, version, filename string, opts ...ComponentOption) *config.Component {
	component := newTestComponent(url, config.ComponentTypeURLFile, opts)
	component.Version = version
	component.Filename = filename
	return component
}

// ReleaseComponent creates a gitrelease component for testing
func ReleaseComponent(url, tag, asset string, opts ...ComponentOption) *config.Component {
	component := newTestComponent(url, config.ComponentTypeGitRelease, opts)
	component.Version = tag
	component.Asset = asset
	return component
}

// PipComponent creates a pip component for testing
func PipComponent(pkg string, opts ...ComponentOption) *config.Component {
	return newTestComponent(pkg, config.ComponentTypePip, opts)
}

// WithCustomPath records a custom install path
func WithCustomPath(path string) ComponentOption {
	return func(c *config.Component) {
		c.CustomPath = path
	}
}

// WithBranch records a non-default branch
func WithBranch(branch string) ComponentOption {
	return func(c *config.Component) {
		c.Branch = branch
	}
}

// WithRecursive marks a git component as cloned with submodules
func WithRecursive() ComponentOption {
	return func(c *config.Component) {
		c.Recursive = true
	}
}

func newTestComponent(url string, componentType config.ComponentType, opts []ComponentOption) *config.Component {
	component := &config.Component{URL: url, Type: componentType}
	for _, opt := range opts {
		opt(component)
	}
	return component
}
