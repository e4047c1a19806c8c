// Package git provides the Git operations superscript needs: cloning components,
// pulling updates and keeping the configuration directory under version control.
//
// This package implements a thin wrapper around the go-git library.
//
// # Client Interface
//
// The Client interface defines the Git operations:
//   - Clone: Clone a repository to disk, optionally with submodules
//   - Open, Init: Open or create a repository, optionally with an origin remote
//   - Commit, Push: Record and publish changes to tracked files
//   - Pull: Update a cloned component
//   - ReadRemoteFile: Read one file of a remote repository without touching disk
//
// # Example Usage
//
//	client := git.NewDefaultGitClient()
//	repoInfo, err := client.Clone(ctx, &git.CloneConfig{
//	    URL:       "https://github.com/fortra/impacket.git",
//	    Directory: "/opt/tools/impacket",
//	})
//	if err != nil {
//	    return err
//	}
//
//	updated, err := client.Pull(ctx, repoInfo, false)
//
// # Implementation Details
//
// ReadRemoteFile uses shallow clones into in-memory filesystems (go-billy memfs)
// that are released with Cleanup once the file is read. Commits are authored with
// the user from the global git configuration when one is set.
package git
