package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/superscript-dev/superscript/internal/config"
)

var (
	// ErrNothingToCommit is returned by Commit when the working tree is clean
	ErrNothingToCommit = errors.New("nothing to commit")

	// ErrNoRemote is returned when a repository has no remote to push to
	ErrNoRemote = errors.New("repository has no remote")
)

// Client defines the interface for Git operations
type Client interface {
	// Clone clones a repository to cfg.Directory
	Clone(ctx context.Context, cfg *CloneConfig) (*RepositoryInfo, error)

	// Open opens an existing repository
	Open(path string) (*RepositoryInfo, error)

	// Init creates a repository at path. A non-empty remoteURL is added as origin and fetched.
	Init(ctx context.Context, path, remoteURL string) (*RepositoryInfo, error)

	// Commit stages the given files, relative to the working tree, and commits them
	Commit(repoInfo *RepositoryInfo, message string, files ...string) (string, error)

	// Push pushes the current branch to origin
	Push(ctx context.Context, repoInfo *RepositoryInfo) error

	// Pull fetches and merges the current branch; reports whether anything changed
	Pull(ctx context.Context, repoInfo *RepositoryInfo, recursive bool) (bool, error)

	// ReadRemoteFile clones a repository into memory and returns the content of one file
	ReadRemoteFile(ctx context.Context, cfg *CloneConfig, path string) ([]byte, error)

	// HasRemote reports whether the repository at path has at least one remote
	HasRemote(path string) (bool, error)

	// EnsureRemote points origin at url, creating it when missing
	EnsureRemote(repoInfo *RepositoryInfo, url string) error

	// GetFileContent retrieves the content of a file from HEAD of the repository
	GetFileContent(repoInfo *RepositoryInfo, path string) ([]byte, error)

	// Cleanup releases the resources of an in-memory clone
	Cleanup(ctx context.Context, repoInfo *RepositoryInfo) error
}

// defaultGitClient implements Client using go-git
type defaultGitClient struct{}

// NewDefaultGitClient creates a new defaultGitClient
func NewDefaultGitClient() Client {
	return &defaultGitClient{}
}

// Clone clones a repository to disk. A partially cloned directory is removed on failure.
func (c *defaultGitClient) Clone(ctx context.Context, cfg *CloneConfig) (*RepositoryInfo, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("repository URL is required")
	}
	if cfg.Directory == "" {
		return nil, fmt.Errorf("target directory is required")
	}

	_, statErr := os.Stat(cfg.Directory)
	existed := statErr == nil

	repo, err := git.PlainCloneContext(ctx, cfg.Directory, false, cloneOptions(cfg))
	if err != nil {
		if !existed {
			_ = os.RemoveAll(cfg.Directory)
		}
		return nil, fmt.Errorf("failed to clone repository: %w", err)
	}

	repoInfo := &RepositoryInfo{
		Repository: repo,
		Path:       cfg.Directory,
		RemoteURL:  cfg.URL,
	}
	if err := c.updateRepositoryInfo(repoInfo); err != nil {
		return nil, fmt.Errorf("failed to update repository info: %w", err)
	}

	slog.Debug("Cloned repository", "url", cfg.URL, "path", cfg.Directory, "branch", repoInfo.Branch)
	return repoInfo, nil
}

// Open opens an existing repository
func (c *defaultGitClient) Open(path string) (*RepositoryInfo, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", path, err)
	}

	repoInfo := &RepositoryInfo{Repository: repo, Path: path}
	if url, err := remoteURL(repo); err == nil {
		repoInfo.RemoteURL = url
	}
	if err := c.updateRepositoryInfo(repoInfo); err != nil {
		// A repository without commits has no HEAD yet
		slog.Debug("Repository has no HEAD", "path", path, "error", err)
	}
	return repoInfo, nil
}

// Init creates a repository with main as default branch
func (*defaultGitClient) Init(ctx context.Context, path, remoteURL string) (*RepositoryInfo, error) {
	repo, err := git.PlainInitWithOptions(path, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(config.GitDefaultBranch),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init repository: %w", err)
	}

	repoInfo := &RepositoryInfo{
		Repository: repo,
		Path:       path,
		Branch:     config.GitDefaultBranch,
	}
	if remoteURL == "" {
		return repoInfo, nil
	}

	remote, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: DefaultRemoteName,
		URLs: []string{remoteURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create remote: %w", err)
	}
	repoInfo.RemoteURL = remoteURL

	err = remote.FetchContext(ctx, &git.FetchOptions{RemoteName: DefaultRemoteName})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate), errors.Is(err, transport.ErrEmptyRemoteRepository):
	default:
		slog.Warn("Failed to fetch remote", "url", remoteURL, "error", err)
	}

	return repoInfo, nil
}

// Commit stages the given files and commits them
func (*defaultGitClient) Commit(repoInfo *RepositoryInfo, message string, files ...string) (string, error) {
	if repoInfo == nil || repoInfo.Repository == nil {
		return "", fmt.Errorf("repository is nil")
	}

	workTree, err := repoInfo.Repository.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	for _, file := range files {
		if _, err := workTree.Add(filepath.ToSlash(file)); err != nil {
			return "", fmt.Errorf("failed to stage %s: %w", file, err)
		}
	}

	status, err := workTree.Status()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree status: %w", err)
	}
	if !hasStagedChanges(status) {
		return "", ErrNothingToCommit
	}

	hash, err := workTree.Commit(message, &git.CommitOptions{
		Author: signature(repoInfo.Repository),
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	slog.Debug("Created commit", "hash", hash.String(), "message", message)
	return hash.String(), nil
}

// Push pushes to origin. A remote that is already up to date is not an error.
func (*defaultGitClient) Push(ctx context.Context, repoInfo *RepositoryInfo) error {
	if repoInfo == nil || repoInfo.Repository == nil {
		return fmt.Errorf("repository is nil")
	}

	if _, err := repoInfo.Repository.Remote(DefaultRemoteName); err != nil {
		return ErrNoRemote
	}

	err := repoInfo.Repository.PushContext(ctx, &git.PushOptions{RemoteName: DefaultRemoteName})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}

// Pull fetches and merges the current branch
func (c *defaultGitClient) Pull(ctx context.Context, repoInfo *RepositoryInfo, recursive bool) (bool, error) {
	if repoInfo == nil || repoInfo.Repository == nil {
		return false, fmt.Errorf("repository is nil")
	}

	workTree, err := repoInfo.Repository.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}

	options := &git.PullOptions{RemoteName: DefaultRemoteName}
	if repoInfo.Branch != "" {
		options.ReferenceName = plumbing.NewBranchReferenceName(repoInfo.Branch)
		options.SingleBranch = true
	}
	if recursive {
		options.RecurseSubmodules = git.DefaultSubmoduleRecursionDepth
	}

	err = workTree.PullContext(ctx, options)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to pull: %w", err)
	}

	if err := c.updateRepositoryInfo(repoInfo); err != nil {
		return true, fmt.Errorf("failed to update repository info: %w", err)
	}
	return true, nil
}

// ReadRemoteFile clones a repository into memory and returns the content of one file
func (c *defaultGitClient) ReadRemoteFile(ctx context.Context, cfg *CloneConfig, path string) ([]byte, error) {
	repoInfo, err := c.cloneInMemory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := c.Cleanup(ctx, repoInfo); err != nil {
			slog.Debug("Failed to clean up in-memory clone", "error", err)
		}
	}()

	return c.GetFileContent(repoInfo, path)
}

// HasRemote reports whether the repository at path has at least one remote
func (*defaultGitClient) HasRemote(path string) (bool, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return false, fmt.Errorf("failed to open repository %s: %w", path, err)
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return false, fmt.Errorf("failed to list remotes: %w", err)
	}
	return len(remotes) > 0, nil
}

// EnsureRemote points origin at url, creating it when missing
func (*defaultGitClient) EnsureRemote(repoInfo *RepositoryInfo, url string) error {
	if repoInfo == nil || repoInfo.Repository == nil {
		return fmt.Errorf("repository is nil")
	}
	if url == "" {
		return fmt.Errorf("remote URL is required")
	}

	remote, err := repoInfo.Repository.Remote(DefaultRemoteName)
	if err == nil {
		urls := remote.Config().URLs
		if len(urls) > 0 && urls[0] == url {
			repoInfo.RemoteURL = url
			return nil
		}
		if err := repoInfo.Repository.DeleteRemote(DefaultRemoteName); err != nil {
			return fmt.Errorf("failed to replace remote: %w", err)
		}
	}

	_, err = repoInfo.Repository.CreateRemote(&gitconfig.RemoteConfig{
		Name: DefaultRemoteName,
		URLs: []string{url},
	})
	if err != nil {
		return fmt.Errorf("failed to create remote: %w", err)
	}

	slog.Debug("Configured remote", "name", DefaultRemoteName, "url", url)
	repoInfo.RemoteURL = url
	return nil
}

// GetFileContent retrieves the content of a file from the repository
func (*defaultGitClient) GetFileContent(repoInfo *RepositoryInfo, path string) ([]byte, error) {
	if repoInfo == nil || repoInfo.Repository == nil {
		return nil, fmt.Errorf("repository is nil")
	}

	ref, err := repoInfo.Repository.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	commit, err := repoInfo.Repository.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object: %w", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}

	file, err := tree.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", path, err)
	}

	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}

	return []byte(content), nil
}

// Cleanup releases the resources of an in-memory clone
func (*defaultGitClient) Cleanup(_ context.Context, repoInfo *RepositoryInfo) error {
	if repoInfo == nil || repoInfo.Repository == nil {
		return fmt.Errorf("repository is nil")
	}

	if repoInfo.objectCache != nil {
		repoInfo.objectCache.Clear()
	}

	worktree, err := repoInfo.Repository.Worktree()
	if err == nil && worktree.Filesystem != nil && repoInfo.Path == "" {
		_ = util.RemoveAll(worktree.Filesystem, "/")
	}

	if repoInfo.storerFilesystem != nil {
		_ = util.RemoveAll(repoInfo.storerFilesystem, "/")
	}

	repoInfo.objectCache = nil
	repoInfo.storerFilesystem = nil
	repoInfo.Repository = nil

	runtime.GC()
	return nil
}

// cloneInMemory performs a shallow clone into memory filesystems
func (c *defaultGitClient) cloneInMemory(ctx context.Context, cfg *CloneConfig) (*RepositoryInfo, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("repository URL is required")
	}

	options := cloneOptions(cfg)
	options.Depth = 1

	// go-git wants separate filesystems for the storer and the checked out files
	storerFs := memfs.New()
	storerCache := cache.NewObjectLRUDefault()
	storer := filesystem.NewStorage(storerFs, storerCache)

	repo, err := git.CloneContext(ctx, storer, memfs.New(), options)
	if err != nil {
		return nil, fmt.Errorf("failed to clone repository: %w", err)
	}

	repoInfo := &RepositoryInfo{
		Repository:       repo,
		RemoteURL:        cfg.URL,
		storerFilesystem: storerFs,
		objectCache:      storerCache,
	}
	if err := c.updateRepositoryInfo(repoInfo); err != nil {
		return nil, fmt.Errorf("failed to update repository info: %w", err)
	}
	return repoInfo, nil
}

// updateRepositoryInfo updates the repository info with current state
func (*defaultGitClient) updateRepositoryInfo(repoInfo *RepositoryInfo) error {
	if repoInfo == nil || repoInfo.Repository == nil {
		return fmt.Errorf("repository is nil")
	}

	ref, err := repoInfo.Repository.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	if ref.Name().IsBranch() {
		repoInfo.Branch = ref.Name().Short()
	}

	return nil
}

// hasStagedChanges ignores untracked files, which a commit would not include
func hasStagedChanges(status git.Status) bool {
	for _, fileStatus := range status {
		if fileStatus.Staging != git.Unmodified && fileStatus.Staging != git.Untracked {
			return true
		}
	}
	return false
}

func cloneOptions(cfg *CloneConfig) *git.CloneOptions {
	options := &git.CloneOptions{URL: cfg.URL}
	if cfg.Branch != "" {
		options.ReferenceName = plumbing.NewBranchReferenceName(cfg.Branch)
		options.SingleBranch = true
	}
	if cfg.Recursive {
		options.RecurseSubmodules = git.DefaultSubmoduleRecursionDepth
	}
	return options
}

// remoteURL returns the first URL of origin, or of the first remote
func remoteURL(repo *git.Repository) (string, error) {
	if remote, err := repo.Remote(DefaultRemoteName); err == nil && len(remote.Config().URLs) > 0 {
		return remote.Config().URLs[0], nil
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return "", err
	}
	for _, remote := range remotes {
		if len(remote.Config().URLs) > 0 {
			return remote.Config().URLs[0], nil
		}
	}
	return "", ErrNoRemote
}

// signature returns the commit author from the git configuration, falling back to
// a superscript identity
func signature(repo *git.Repository) *object.Signature {
	sig := &object.Signature{
		Name:  config.AppName,
		Email: config.AppName + "@localhost",
		When:  time.Now(),
	}

	cfg, err := repo.ConfigScoped(gitconfig.GlobalScope)
	if err != nil {
		return sig
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		sig.Email = cfg.User.Email
	}
	return sig
}
