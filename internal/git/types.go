package git

import (
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
)

// DefaultRemoteName is the remote created for and pushed to by superscript
const DefaultRemoteName = "origin"

// CloneConfig contains configuration for cloning a repository
type CloneConfig struct {
	// URL is the repository URL to clone
	URL string

	// Branch is the branch to check out (optional, remote HEAD when empty)
	Branch string

	// Directory is the target directory of an on-disk clone
	Directory string

	// Recursive also clones submodules
	Recursive bool
}

// RepositoryInfo contains information about a Git repository
type RepositoryInfo struct {
	// Repository is the go-git repository instance
	Repository *git.Repository

	// Path is the working tree directory; empty for in-memory clones
	Path string

	// Branch is the current branch name
	Branch string

	// RemoteURL is the URL of the origin remote, or of the first remote when
	// there is no origin
	RemoteURL string

	// storerFilesystem and objectCache back in-memory clones and are released by Cleanup
	storerFilesystem billy.Filesystem
	objectCache      cache.Object
}
