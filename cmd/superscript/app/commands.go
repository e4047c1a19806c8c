// Package app provides the commands of the superscript CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/git"
	"github.com/superscript-dev/superscript/internal/httpclient"
	"github.com/superscript-dev/superscript/internal/logger"
	"github.com/superscript-dev/superscript/internal/printing"
	"github.com/superscript-dev/superscript/internal/registry"
	"github.com/superscript-dev/superscript/internal/releases"
	"github.com/superscript-dev/superscript/internal/status"
	"github.com/superscript-dev/superscript/internal/store"
	pkgsync "github.com/superscript-dev/superscript/internal/sync"
	"github.com/superscript-dev/superscript/internal/versions"
)

// annotationNoConfig marks commands that run without an initialized configuration
const annotationNoConfig = "superscript/no-config"

// ErrNoConfig is returned by commands that need a configuration when none exists
var ErrNoConfig = errors.New("no config file found, first initialize superscript to make it work")

// App holds the dependencies shared by all commands
type App struct {
	v *viper.Viper

	out         io.Writer
	errOut      io.Writer
	in          io.Reader
	interactive *bool
	printer     *printing.Printer

	gitClient     git.Client
	httpClient    httpclient.Client
	releaseClient releases.Client
	manager       pkgsync.Manager
	pipFactory    pkgsync.PipFactory
	store         store.Store
	openURL       func(url string) error
	now           func() time.Time
}

// Option configures the application
type Option func(*App)

// WithIO replaces stdout, stderr and stdin
func WithIO(out, errOut io.Writer, in io.Reader) Option {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
		a.in = in
	}
}

// WithInteractive overrides the terminal detection of confirmation prompts
func WithInteractive(interactive bool) Option {
	return func(a *App) {
		a.interactive = &interactive
	}
}

// WithGitClient replaces the git client
func WithGitClient(client git.Client) Option {
	return func(a *App) {
		a.gitClient = client
	}
}

// WithHTTPClient replaces the HTTP client used for downloads and existence checks
func WithHTTPClient(client httpclient.Client) Option {
	return func(a *App) {
		a.httpClient = client
	}
}

// WithReleaseClient replaces the GitHub release client
func WithReleaseClient(client releases.Client) Option {
	return func(a *App) {
		a.releaseClient = client
	}
}

// WithManager replaces the component install and update manager
func WithManager(manager pkgsync.Manager) Option {
	return func(a *App) {
		a.manager = manager
	}
}

// WithPipFactory replaces the constructor of pip installers
func WithPipFactory(factory pkgsync.PipFactory) Option {
	return func(a *App) {
		a.pipFactory = factory
	}
}

// WithStore replaces the configuration store
func WithStore(s store.Store) Option {
	return func(a *App) {
		a.store = s
	}
}

// WithBrowser replaces the function opening web pages
func WithBrowser(openURL func(url string) error) Option {
	return func(a *App) {
		a.openURL = openURL
	}
}

// NewRootCmd creates the superscript root command. Running it without a
// subcommand initializes the configuration.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &App{
		v:       viper.New(),
		out:     os.Stdout,
		errOut:  os.Stderr,
		in:      os.Stdin,
		openURL: browser.OpenURL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:               "superscript",
		DisableAutoGenTag: true,
		Short:             "Awesome superscript to dynamically manage your portable software components.",
		Long: `superscript keeps track of portable software components such as cloned git
repositories, downloaded files, GitHub release assets and pip packages. Every
component is recorded in superconfig.yml, which is optionally kept under git
version control and pushed to a remote.

Running superscript without a subcommand initializes the configuration.`,
		Version:           versions.GetBuildInfo().Version,
		Args:              cobra.NoArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.preRun,
		RunE:              a.runInit,
	}
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)
	rootCmd.SetIn(a.in)
	rootCmd.SetVersionTemplate("superscript Version: {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.Bool("verbose", false, "Enable verbose output")
	flags.Bool("debug", false, "Enable debug logging")
	flags.BoolP("yes", "y", false, "Answer all questions with yes")
	flags.String("home", "", "Application directory (default is the superscript directory below the XDG config home)")
	for _, name := range []string{"verbose", "debug", "yes", "home"} {
		if err := a.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			slog.Error("Error binding flag", "flag", name, "error", err)
		}
	}
	rootCmd.Flags().BoolP("version", "V", false, "Print the version and exit")
	addInitFlags(rootCmd)

	rootCmd.AddCommand(
		a.newVersionCmd(),
		a.newCloneCmd(),
		a.newURLFileCmd(),
		a.newGitReleaseCmd(),
		a.newPipCmd(),
		a.newCollectCmd(),
		a.newUpdateCmd(),
		a.newSaveCmd(),
		a.newExportCmd(),
		a.newRestoreCmd(),
		a.newRemoveCmd(),
		a.newReadmeCmd(),
		a.newWikiCmd(),
		a.newListCmd(),
		a.newSearchCmd(),
	)

	return rootCmd
}

// ReportError writes a command failure to w. Declined confirmations are not reported.
func ReportError(w io.Writer, err error) {
	if err == nil || errors.Is(err, printing.ErrAborted) {
		return
	}
	printing.New(printing.WithIO(w, nil)).Error("%s", err)
}

func (a *App) newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versions.GetBuildInfo()
			a.printer.Println("superscript Version: " + info.Version)
			a.printer.Verbosef("commit %s, built %s, %s on %s", info.Commit, info.BuildDate, info.GoVersion, info.Platform)
			return nil
		},
	}
	return cmd
}

// preRun sets up output and clients once flags are parsed and checks that the
// configuration exists for commands that need it
func (a *App) preRun(cmd *cobra.Command, _ []string) error {
	if a.v.GetBool("debug") {
		logger.Setup(true)
	}

	printerOpts := []printing.Option{
		printing.WithIO(a.out, a.in),
		printing.WithVerbose(a.v.GetBool("verbose")),
		printing.WithAssumeYes(a.v.GetBool("yes")),
	}
	if a.interactive != nil {
		printerOpts = append(printerOpts, printing.WithInteractive(*a.interactive))
	}
	a.printer = printing.New(printerOpts...)
	a.printer.Verbosef("Verbose output activated...")

	if a.gitClient == nil {
		a.gitClient = git.NewDefaultGitClient()
	}
	if a.httpClient == nil {
		a.httpClient = httpclient.NewDefaultClient(0)
	}
	if a.releaseClient == nil {
		headerOpts := []httpclient.Option{httpclient.WithHeader("Accept", releases.AcceptHeader)}
		if token := a.v.GetString("github_token"); token != "" {
			headerOpts = append(headerOpts, httpclient.WithHeader("Authorization", "Bearer "+token))
		}
		a.releaseClient = releases.NewClient(httpclient.NewDefaultClient(0, headerOpts...))
	}
	if a.store == nil {
		a.store = store.New(config.AppDir(a.v.GetString("home")), a.gitClient)
	}

	if !requiresConfig(cmd) {
		return nil
	}
	if !a.store.Exists() {
		return ErrNoConfig
	}
	a.printer.Verbosef("Config file found")
	return nil
}

// requiresConfig reports whether cmd works on an existing configuration
func requiresConfig(cmd *cobra.Command) bool {
	if !cmd.HasParent() {
		return false
	}
	for c := cmd; c.HasParent(); c = c.Parent() {
		if _, ok := c.Annotations[annotationNoConfig]; ok {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// loadRegistry loads the configuration into a registry
func (a *App) loadRegistry(ctx context.Context) (*registry.Registry, error) {
	doc, err := a.store.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotInitialized) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return registry.New(doc), nil
}

// save persists the registry. A failed push is reported but not returned since
// the change is committed locally.
func (a *App) save(ctx context.Context, reg *registry.Registry, message string) error {
	err := a.store.Save(ctx, reg.Document(), message)
	if errors.Is(err, store.ErrPushFailed) {
		a.printer.Error("Configuration saved locally, but pushing it failed: %v", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	a.printer.Verbosef("Config file successfully written")
	return nil
}

// syncManager returns the manager used to install and update components
func (a *App) syncManager(settings *config.Settings) pkgsync.Manager {
	if a.manager != nil {
		return a.manager
	}
	opts := []pkgsync.Option{pkgsync.WithPipCommand(settings.GetPipCommand())}
	if a.pipFactory != nil {
		opts = append(opts, pkgsync.WithPipFactory(a.pipFactory))
	}
	return pkgsync.NewDefaultSyncManager(a.gitClient, a.httpClient, a.releaseClient, opts...)
}

// statusPersistence stores update results next to the configuration
func (a *App) statusPersistence() status.StatusPersistence {
	return status.NewFileStatusPersistence(filepath.Join(a.store.Dir(), status.DirName))
}

// ensureDir creates path after asking the user
func (a *App) ensureDir(path string) error {
	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("the provided path %s is not a directory", path)
		}
		return nil
	}

	ok, err := a.printer.Confirm(fmt.Sprintf(
		"The provided path %s does currently not exist, do you want to create the necessary folders?", path))
	if err != nil {
		return err
	}
	if !ok {
		a.printer.Error("The provided path %s does not exist and should not be created", path)
		return printing.ErrAborted
	}

	a.printer.Verbosef("Creating path %s as it does not exist", path)
	if err := os.MkdirAll(path, 0750); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}

// placementFlags are the flags deciding where a new component is installed
type placementFlags struct {
	category   string
	subfolder  bool
	customPath string
}

func (f *placementFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "Category of the component")
	cmd.Flags().BoolVar(&f.subfolder, "subfolder", true, "Install into a subfolder named after the category")
	cmd.Flags().StringVar(&f.customPath, "custompath", "", "Install below this path instead of the default path")
}

// placement resolves the flags, creating a missing custom path after confirmation
func (a *App) placement(f *placementFlags) (registry.Placement, error) {
	p := registry.Placement{Category: f.category, Subfolder: f.subfolder}
	if f.customPath == "" {
		return p, nil
	}

	customPath, err := filepath.Abs(f.customPath)
	if err != nil {
		return p, fmt.Errorf("invalid custom path %s: %w", f.customPath, err)
	}
	if err := a.ensureDir(customPath); err != nil {
		return p, err
	}
	p.CustomPath = customPath
	return p, nil
}

// categorySuffix returns " to <category>" for categorized components
func categorySuffix(category string) string {
	if category == "" || category == config.Uncategorized {
		return ""
	}
	return " to " + category
}
