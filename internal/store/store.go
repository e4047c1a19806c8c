// Package store persists the superconfig document to disk and, when enabled, to a
// git repository in the application directory.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/git"
	"github.com/superscript-dev/superscript/internal/status"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go Store

const (
	// InitialCommitMessage is the message of the commit created by Init
	InitialCommitMessage = "Add initial configuration file"

	// GitIgnoreFile lists the app directory entries kept out of version control
	GitIgnoreFile = ".gitignore"

	lockRetryDelay = 50 * time.Millisecond
)

var (
	// ErrNotInitialized is returned when no superconfig file exists yet
	ErrNotInitialized = errors.New("superscript is not initialized")

	// ErrNoGitVCS is returned by git operations when version control is disabled
	ErrNoGitVCS = errors.New("git version control is disabled in the configuration")

	// ErrNoRemote is returned by Push when no gitsaveurl is configured
	ErrNoRemote = errors.New("no git remote (gitsaveurl) configured")

	// ErrPushFailed is returned when the configuration was committed but could not be pushed
	ErrPushFailed = errors.New("failed to push configuration")
)

// gitIgnoreContent keeps runtime state out of the configuration repository
var gitIgnoreContent = "/" + status.DirName + "/\n*" + config.LockFileSuffix + "\n*.tmp\n"

// InitOptions controls Init
type InitOptions struct {
	// ReplaceRepository removes an existing git repository before initializing
	ReplaceRepository bool
}

// Store defines the interface for superconfig persistence
type Store interface {
	// Dir returns the application directory
	Dir() string

	// Path returns the superconfig file path
	Path() string

	// Exists reports whether the superconfig file exists
	Exists() bool

	// HasRepository reports whether the application directory is a git repository
	HasRepository() bool

	// Init writes a new document with the given settings and returns it
	Init(ctx context.Context, settings config.Settings, opts InitOptions) (*config.Document, error)

	// Load reads and validates the document
	Load(ctx context.Context) (*config.Document, error)

	// Save writes the document and commits it with message when version control is enabled
	Save(ctx context.Context, doc *config.Document, message string) error

	// Push commits pending changes with message and pushes them to the configured remote
	Push(ctx context.Context, message string) error

	// Export copies the superconfig file to dest and returns the written path
	Export(ctx context.Context, dest string, compress bool) (string, error)
}

// fileStore implements Store on the local filesystem
type fileStore struct {
	dir       string
	path      string
	gitClient git.Client
}

// New creates a store for the application directory dir
func New(dir string, gitClient git.Client) Store {
	return &fileStore{
		dir:       dir,
		path:      config.ConfigPath(dir),
		gitClient: gitClient,
	}
}

// Dir returns the application directory
func (s *fileStore) Dir() string {
	return s.dir
}

// Path returns the superconfig file path
func (s *fileStore) Path() string {
	return s.path
}

// Exists reports whether the superconfig file exists
func (s *fileStore) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && info.Mode().IsRegular()
}

// HasRepository reports whether the application directory contains a .git directory
func (s *fileStore) HasRepository() bool {
	info, err := os.Stat(filepath.Join(s.dir, config.GitEnding))
	return err == nil && info.IsDir()
}

// Init creates the application directory and repository and saves a new document
func (s *fileStore) Init(ctx context.Context, settings config.Settings, opts InitOptions) (*config.Document, error) {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create app directory %s: %w", s.dir, err)
	}

	unlock, err := s.lock(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc := config.NewDocument(settings)
	var files []string
	if settings.GitVCS {
		if err := s.initRepository(ctx, settings, opts); err != nil {
			return nil, err
		}
		if err := writeFileAtomic(filepath.Join(s.dir, GitIgnoreFile), []byte(gitIgnoreContent)); err != nil {
			return nil, err
		}
		files = append(files, GitIgnoreFile)
	}

	if err := s.save(ctx, doc, InitialCommitMessage, files...); err != nil {
		return nil, err
	}

	slog.Debug("Initialized configuration", "path", s.path, "gitvcs", settings.GitVCS)
	return doc, nil
}

// Load reads and validates the document under a shared lock
func (s *fileStore) Load(ctx context.Context) (*config.Document, error) {
	if !s.Exists() {
		return nil, ErrNotInitialized
	}

	unlock, err := s.lock(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc, err := config.Load(config.WithConfigPath(s.path))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.path, err)
	}
	return doc, nil
}

// Save writes the document under an exclusive lock held for the whole transaction
func (s *fileStore) Save(ctx context.Context, doc *config.Document, message string) error {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("failed to create app directory %s: %w", s.dir, err)
	}

	unlock, err := s.lock(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()

	return s.save(ctx, doc, message)
}

// Push commits pending changes and pushes them to the configured remote
func (s *fileStore) Push(ctx context.Context, message string) error {
	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if !doc.Config.GitVCS {
		return ErrNoGitVCS
	}
	saveURL := doc.Config.SaveURL()
	if saveURL == "" {
		return ErrNoRemote
	}

	unlock, err := s.lock(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()

	repoInfo, err := s.gitClient.Open(s.dir)
	if err != nil {
		return err
	}
	if _, err := s.gitClient.Commit(repoInfo, message, config.DefaultConfigFile); err != nil &&
		!errors.Is(err, git.ErrNothingToCommit) {
		return fmt.Errorf("failed to commit configuration: %w", err)
	}

	return s.push(ctx, repoInfo, saveURL)
}

// save encodes, writes and commits the document; the caller holds the lock
func (s *fileStore) save(ctx context.Context, doc *config.Document, message string, extraFiles ...string) error {
	data, err := config.Encode(doc)
	if err != nil {
		return err
	}

	previous, readErr := os.ReadFile(s.path)
	existed := readErr == nil

	if err := writeFileAtomic(s.path, data); err != nil {
		return err
	}

	if !doc.Config.GitVCS {
		return nil
	}

	repoInfo, err := s.gitClient.Open(s.dir)
	if err != nil {
		s.rollback(previous, existed)
		return fmt.Errorf("failed to open configuration repository: %w", err)
	}

	files := append([]string{config.DefaultConfigFile}, extraFiles...)
	if _, err := s.gitClient.Commit(repoInfo, message, files...); err != nil {
		if errors.Is(err, git.ErrNothingToCommit) {
			slog.Debug("Configuration unchanged, nothing to commit")
			return nil
		}
		s.rollback(previous, existed)
		return fmt.Errorf("failed to commit configuration: %w", err)
	}

	if saveURL := doc.Config.SaveURL(); saveURL != "" && doc.Config.AutoSave {
		return s.push(ctx, repoInfo, saveURL)
	}
	return nil
}

func (s *fileStore) push(ctx context.Context, repoInfo *git.RepositoryInfo, saveURL string) error {
	if err := s.gitClient.EnsureRemote(repoInfo, saveURL); err != nil {
		return fmt.Errorf("%w: %v", ErrPushFailed, err)
	}
	if err := s.gitClient.Push(ctx, repoInfo); err != nil {
		return fmt.Errorf("%w: %v", ErrPushFailed, err)
	}
	slog.Debug("Pushed configuration", "url", saveURL)
	return nil
}

// rollback restores the file content seen before a failed save
func (s *fileStore) rollback(previous []byte, existed bool) {
	var err error
	if existed {
		err = writeFileAtomic(s.path, previous)
	} else {
		err = os.Remove(s.path)
	}
	if err != nil {
		slog.Error("Failed to roll back configuration file", "path", s.path, "error", err)
	}
}

// initRepository creates the configuration repository, replacing an existing one on request
func (s *fileStore) initRepository(ctx context.Context, settings config.Settings, opts InitOptions) error {
	if s.HasRepository() {
		if !opts.ReplaceRepository {
			slog.Debug("Using existing repository", "path", s.dir)
			repoInfo, err := s.gitClient.Open(s.dir)
			if err != nil {
				return err
			}
			if saveURL := settings.SaveURL(); saveURL != "" {
				return s.gitClient.EnsureRemote(repoInfo, saveURL)
			}
			return nil
		}
		if err := os.RemoveAll(filepath.Join(s.dir, config.GitEnding)); err != nil {
			return fmt.Errorf("failed to remove existing repository: %w", err)
		}
		slog.Debug("Removed existing repository", "path", s.dir)
	}

	_, err := s.gitClient.Init(ctx, s.dir, settings.SaveURL())
	return err
}

// lock acquires the superconfig lock file, shared or exclusive
func (s *fileStore) lock(ctx context.Context, shared bool) (func(), error) {
	fileLock := flock.New(s.path + config.LockFileSuffix)

	var locked bool
	var err error
	if shared {
		locked, err = fileLock.TryRLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = fileLock.TryLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock configuration: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock configuration: %s is locked", s.path)
	}

	return func() {
		if err := fileLock.Unlock(); err != nil {
			slog.Debug("Failed to release configuration lock", "error", err)
		}
	}, nil
}

// writeFileAtomic writes to a temporary file first and renames it into place
func writeFileAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary file for %s: %w", path, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary file for %s: %w", path, err)
	}
	return nil
}
