package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/git"
	"github.com/superscript-dev/superscript/internal/httpclient"
	"github.com/superscript-dev/superscript/internal/pip"
	"github.com/superscript-dev/superscript/internal/registry"
	"github.com/superscript-dev/superscript/internal/releases"
	"github.com/superscript-dev/superscript/internal/versions"
)

// Result contains the result of a successful install or update
type Result struct {
	// Changed reports whether files on disk were added or replaced
	Changed bool

	// Version is the component version afterwards, if the type tracks one
	Version string

	// URL and Filename are set when an urlfile moved to a newer versioned file
	URL      string
	Filename string

	// Digest is the SHA-256 digest of a downloaded urlfile
	Digest string

	// Message describes what happened
	Message string
}

// Failure reasons
const (
	ReasonAlreadyInstalled = "AlreadyInstalled"
	ReasonNotInstalled     = "NotInstalled"
	ReasonInvalidComponent = "InvalidComponent"
	ReasonFetchFailed      = "FetchFailed"
	ReasonInstallFailed    = "InstallFailed"
	ReasonStorageFailed    = "StorageFailed"
)

var (
	// ErrAlreadyInstalled is returned by Install when the target already exists
	ErrAlreadyInstalled = errors.New("already installed")

	// ErrNotInstalled is returned by Update when the target is missing
	ErrNotInstalled = errors.New("not installed")

	// ErrNoMatchingAssets is returned when a release has no asset matching the pattern
	ErrNoMatchingAssets = errors.New("no release asset matches")
)

// Error represents a structured error with the reason of the failure
type Error struct {
	Err     error
	Message string
	Reason  string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(reason string, err error, format string, args ...any) *Error {
	return &Error{
		Err:     err,
		Message: fmt.Sprintf(format, args...) + ": " + err.Error(),
		Reason:  reason,
	}
}

// Target is a registered component and the directory it is installed in
type Target struct {
	Name      string
	Category  string
	Component *config.Component
	Dir       string

	// LastDigest is the SHA-256 digest recorded by the previous update, if any
	LastDigest string
}

// Manager installs and updates components
//
//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks -source=manager.go Manager
type Manager interface {
	// Install fetches a component into its target directory
	Install(ctx context.Context, target *Target) (*Result, *Error)

	// Update brings an installed component up to date
	Update(ctx context.Context, target *Target) (*Result, *Error)

	// Purge deletes the installed files of a component
	Purge(ctx context.Context, target *Target) error
}

// PipFactory creates a pip installer for a command line
type PipFactory func(commandLine string) (pip.Installer, error)

// Option configures the default manager
type Option func(*defaultSyncManager)

// WithPipCommand sets the command line used to run pip
func WithPipCommand(commandLine string) Option {
	return func(m *defaultSyncManager) {
		if commandLine != "" {
			m.pipCommand = commandLine
		}
	}
}

// WithPipFactory replaces the pip installer constructor
func WithPipFactory(factory PipFactory) Option {
	return func(m *defaultSyncManager) {
		m.pipFactory = factory
	}
}

// defaultSyncManager is the default implementation of Manager
type defaultSyncManager struct {
	gitClient     git.Client
	httpClient    httpclient.Client
	releaseClient releases.Client
	versionDetect VersionDetector
	pipFactory    PipFactory
	pipCommand    string
}

// NewDefaultSyncManager creates a new manager
func NewDefaultSyncManager(
	gitClient git.Client, httpClient httpclient.Client, releaseClient releases.Client, opts ...Option,
) Manager {
	m := &defaultSyncManager{
		gitClient:     gitClient,
		httpClient:    httpClient,
		releaseClient: releaseClient,
		versionDetect: NewURLVersionDetector(httpClient),
		pipCommand:    config.DefaultPipCommand,
		pipFactory: func(commandLine string) (pip.Installer, error) {
			return pip.NewInstaller(commandLine)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Install fetches a component into its target directory
func (m *defaultSyncManager) Install(ctx context.Context, target *Target) (*Result, *Error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}

	switch target.Component.Type {
	case config.ComponentTypeGit:
		return m.installGit(ctx, target)
	case config.ComponentTypeURLFile:
		return m.installURLFile(ctx, target)
	case config.ComponentTypeGitRelease:
		return m.installRelease(ctx, target)
	case config.ComponentTypePip:
		return m.installPip(ctx, target, false)
	default:
		return nil, unsupportedType(target)
	}
}

// Update brings an installed component up to date
func (m *defaultSyncManager) Update(ctx context.Context, target *Target) (*Result, *Error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}

	switch target.Component.Type {
	case config.ComponentTypeGit:
		return m.updateGit(ctx, target)
	case config.ComponentTypeURLFile:
		return m.updateURLFile(ctx, target)
	case config.ComponentTypeGitRelease:
		return m.updateRelease(ctx, target)
	case config.ComponentTypePip:
		return m.installPip(ctx, target, true)
	default:
		return nil, unsupportedType(target)
	}
}

// Purge deletes the installed files of a component. Pip packages are uninstalled.
func (m *defaultSyncManager) Purge(ctx context.Context, target *Target) error {
	if err := validateTarget(target); err != nil {
		return err
	}

	if target.Component.Type == config.ComponentTypePip {
		installer, err := m.pipFactory(m.pipCommand)
		if err != nil {
			return err
		}
		return installer.Uninstall(ctx, pip.PackageFromURL(target.Component.URL))
	}

	if target.Dir == "" {
		return fmt.Errorf("no install directory for %s", target.Name)
	}
	if err := os.RemoveAll(target.Dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", target.Dir, err)
	}
	slog.Debug("Removed component files", "component", target.Name, "path", target.Dir)
	return nil
}

func (m *defaultSyncManager) installGit(ctx context.Context, target *Target) (*Result, *Error) {
	if exists(target.Dir) {
		return nil, newError(ReasonAlreadyInstalled, ErrAlreadyInstalled, "directory %s exists", target.Dir)
	}

	repoInfo, err := m.gitClient.Clone(ctx, &git.CloneConfig{
		URL:       target.Component.URL,
		Branch:    registry.Branch(target.Component),
		Directory: target.Dir,
		Recursive: target.Component.Recursive,
	})
	if err != nil {
		return nil, newError(ReasonFetchFailed, err, "failed to clone %s", target.Name)
	}

	slog.Debug("Cloned component", "component", target.Name, "path", target.Dir, "branch", repoInfo.Branch)
	return &Result{Changed: true, Message: "cloned into " + target.Dir}, nil
}

func (m *defaultSyncManager) updateGit(ctx context.Context, target *Target) (*Result, *Error) {
	if !exists(target.Dir) {
		return nil, newError(ReasonNotInstalled, ErrNotInstalled, "directory %s is missing", target.Dir)
	}

	repoInfo, err := m.gitClient.Open(target.Dir)
	if err != nil {
		return nil, newError(ReasonNotInstalled, err, "failed to open repository of %s", target.Name)
	}

	changed, err := m.gitClient.Pull(ctx, repoInfo, target.Component.Recursive)
	if err != nil {
		return nil, newError(ReasonFetchFailed, err, "failed to pull %s", target.Name)
	}

	message := "already up to date"
	if changed {
		message = "pulled new commits"
	}
	return &Result{Changed: changed, Message: message}, nil
}

func (m *defaultSyncManager) installURLFile(ctx context.Context, target *Target) (*Result, *Error) {
	filename := componentFilename(target.Component)
	dest := filepath.Join(target.Dir, filename)
	if exists(dest) {
		return nil, newError(ReasonAlreadyInstalled, ErrAlreadyInstalled, "file %s exists", dest)
	}

	download, err := m.httpClient.Download(ctx, target.Component.URL, dest)
	if err != nil {
		return nil, newError(ReasonFetchFailed, err, "failed to download %s", target.Name)
	}

	return &Result{
		Changed: true,
		Version: target.Component.Version,
		Digest:  download.SHA256,
		Message: "downloaded " + filename,
	}, nil
}

func (m *defaultSyncManager) updateURLFile(ctx context.Context, target *Target) (*Result, *Error) {
	component := target.Component
	current := filepath.Join(target.Dir, componentFilename(component))

	candidate, err := m.versionDetect.NewestVersion(ctx, component.URL)
	if err != nil {
		return nil, newError(ReasonFetchFailed, err, "failed to look for newer versions of %s", target.Name)
	}

	if candidate != nil {
		dest := filepath.Join(target.Dir, candidate.Filename)
		download, err := m.httpClient.Download(ctx, candidate.URL, dest)
		if err != nil {
			return nil, newError(ReasonFetchFailed, err, "failed to download %s", candidate.URL)
		}
		if dest != current {
			if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
				slog.Warn("Failed to remove previous version", "path", current, "error", err)
			}
		}
		return &Result{
			Changed:  true,
			Version:  candidate.Version.String(),
			URL:      candidate.URL,
			Filename: candidate.Filename,
			Digest:   download.SHA256,
			Message:  "updated to " + candidate.Filename,
		}, nil
	}

	return m.refreshURLFile(ctx, target, current)
}

// refreshURLFile downloads the recorded URL again and replaces the file only if
// the content changed since the last recorded digest. Without a recorded digest
// the file on disk is compared instead.
func (m *defaultSyncManager) refreshURLFile(ctx context.Context, target *Target, current string) (*Result, *Error) {
	pending := current + ".download"
	download, err := m.httpClient.Download(ctx, target.Component.URL, pending)
	if err != nil {
		return nil, newError(ReasonFetchFailed, err, "failed to download %s", target.Name)
	}

	previous := target.LastDigest
	if previous == "" {
		if digest, err := httpclient.FileDigest(current); err == nil {
			previous = digest
		}
	}
	if previous == download.SHA256 {
		_ = os.Remove(pending)
		return &Result{
			Version: target.Component.Version,
			Digest:  download.SHA256,
			Message: "content unchanged",
		}, nil
	}

	if err := os.Rename(pending, current); err != nil {
		_ = os.Remove(pending)
		return nil, newError(ReasonStorageFailed, err, "failed to replace %s", current)
	}
	return &Result{
		Changed: true,
		Version: target.Component.Version,
		Digest:  download.SHA256,
		Message: "content changed",
	}, nil
}

func (m *defaultSyncManager) installRelease(ctx context.Context, target *Target) (*Result, *Error) {
	owner, repo, err := releases.ParseRepository(target.Component.URL)
	if err != nil {
		return nil, newError(ReasonInvalidComponent, err, "invalid release repository of %s", target.Name)
	}

	var release *releases.Release
	if target.Component.Version != "" {
		release, err = m.releaseClient.Get(ctx, owner, repo, target.Component.Version)
	} else {
		release, err = m.releaseClient.Latest(ctx, owner, repo)
	}
	if err != nil {
		return nil, newError(ReasonFetchFailed, err, "failed to fetch release of %s", target.Name)
	}

	return m.downloadAssets(ctx, target, release)
}

func (m *defaultSyncManager) updateRelease(ctx context.Context, target *Target) (*Result, *Error) {
	owner, repo, err := releases.ParseRepository(target.Component.URL)
	if err != nil {
		return nil, newError(ReasonInvalidComponent, err, "invalid release repository of %s", target.Name)
	}

	latest, err := m.releaseClient.Latest(ctx, owner, repo)
	if err != nil {
		return nil, newError(ReasonFetchFailed, err, "failed to fetch latest release of %s", target.Name)
	}

	if target.Component.Version != "" && !versions.IsNewerVersion(latest.TagName, target.Component.Version) {
		return &Result{Version: target.Component.Version, Message: "already at " + target.Component.Version}, nil
	}
	return m.downloadAssets(ctx, target, latest)
}

// downloadAssets fetches every asset of release matching the component asset pattern
func (m *defaultSyncManager) downloadAssets(
	ctx context.Context, target *Target, release *releases.Release,
) (*Result, *Error) {
	assets, err := release.MatchAssets(target.Component.Asset)
	if err != nil {
		return nil, newError(ReasonInvalidComponent, err, "invalid asset pattern of %s", target.Name)
	}
	if len(assets) == 0 {
		return nil, newError(ReasonFetchFailed, ErrNoMatchingAssets,
			"release %s of %s has no asset matching '%s'", release.TagName, target.Name, target.Component.Asset)
	}

	for _, asset := range assets {
		dest := filepath.Join(target.Dir, path.Base(asset.Name))
		if _, err := m.httpClient.Download(ctx, asset.DownloadURL, dest); err != nil {
			return nil, newError(ReasonFetchFailed, err, "failed to download asset %s", asset.Name)
		}
		slog.Debug("Downloaded release asset", "component", target.Name, "asset", asset.Name, "path", dest)
	}

	return &Result{
		Changed: true,
		Version: release.TagName,
		Message: fmt.Sprintf("downloaded %d assets of %s", len(assets), release.TagName),
	}, nil
}

func (m *defaultSyncManager) installPip(ctx context.Context, target *Target, upgrade bool) (*Result, *Error) {
	installer, err := m.pipFactory(m.pipCommand)
	if err != nil {
		return nil, newError(ReasonInstallFailed, err, "failed to set up pip")
	}

	pkg := pip.PackageFromURL(target.Component.URL)
	if err := installer.Install(ctx, pkg, upgrade); err != nil {
		return nil, newError(ReasonInstallFailed, err, "failed to install %s", pkg)
	}

	version, err := installer.Version(ctx, pkg)
	if err != nil {
		slog.Warn("Failed to read installed version", "package", pkg, "error", err)
		version = target.Component.Version
	}

	changed := !upgrade || version != target.Component.Version
	message := "installed " + pkg
	if upgrade && !changed {
		message = "already at " + version
	}
	return &Result{Changed: changed, Version: version, Message: message}, nil
}

func validateTarget(target *Target) *Error {
	if target == nil || target.Component == nil {
		return &Error{
			Err:     errors.New("target is nil"),
			Message: "target is nil",
			Reason:  ReasonInvalidComponent,
		}
	}
	return nil
}

func unsupportedType(target *Target) *Error {
	return &Error{
		Err:     fmt.Errorf("unsupported component type '%s'", target.Component.Type),
		Message: fmt.Sprintf("component %s has unsupported type '%s'", target.Name, target.Component.Type),
		Reason:  ReasonInvalidComponent,
	}
}

// componentFilename returns the recorded filename or the last segment of the URL
func componentFilename(component *config.Component) string {
	if component.Filename != "" {
		return component.Filename
	}
	return path.Base(component.URL)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
