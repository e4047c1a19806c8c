package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/git"
	"github.com/superscript-dev/superscript/internal/registry"
	"github.com/superscript-dev/superscript/internal/store"
	pkgsync "github.com/superscript-dev/superscript/internal/sync"
)

// gzipMagic starts every gzip stream
var gzipMagic = []byte{0x1f, 0x8b}

type restoreOptions struct {
	url         string
	installPath string
	category    string
	toolName    string
	install     bool
}

func (a *App) newRestoreCmd() *cobra.Command {
	opts := &restoreOptions{}
	cmd := &cobra.Command{
		Use:   "restore [CONFIGPATH]",
		Short: "Restore configs, categories and/or tools from a given config",
		Long: `Restore components from another superscript configuration.

The source is a local file (optionally gzip compressed, as written by export
--compress) or, with --url, a web address of such a file or a git repository
holding superconfig.yml. The selected components are merged into the local
configuration and installed. Without a local configuration one is created from
the settings of the source.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			source := opts.url
			if len(args) == 1 {
				if source != "" {
					return fmt.Errorf("either provide CONFIGPATH or --url, not both")
				}
				source = args[0]
			}
			if source == "" {
				return fmt.Errorf("provide CONFIGPATH or --url to restore from")
			}
			return a.runRestore(cmd.Context(), source, opts)
		},
	}
	cmd.Flags().StringVar(&opts.url, "url", "", "Web address of a config file or git repository holding one")
	cmd.Flags().StringVar(&opts.installPath, "installpath", "", "Install the components below this path")
	cmd.Flags().StringVar(&opts.category, "category", "", "Only restore the components of this category")
	cmd.Flags().StringVar(&opts.toolName, "toolname", "", "Only restore this component")
	cmd.Flags().BoolVar(&opts.install, "install", true, "Install the restored components")
	return cmd
}

func (a *App) runRestore(ctx context.Context, source string, opts *restoreOptions) error {
	p := a.printer
	p.Info("Restoring from %s", source)

	data, err := a.readSource(ctx, source, opts.url != "")
	if err != nil {
		return err
	}
	sourceDoc, err := config.Decode(data)
	if err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", source, err)
	}
	sourceReg := registry.New(sourceDoc)

	entries, err := restoreEntries(sourceReg, opts)
	if err != nil {
		return err
	}

	var installPath string
	if opts.installPath != "" {
		if installPath, err = filepath.Abs(opts.installPath); err != nil {
			return fmt.Errorf("invalid install path %s: %w", opts.installPath, err)
		}
		if opts.install {
			if err := a.ensureDir(installPath); err != nil {
				return err
			}
		}
	}

	if !a.store.Exists() {
		settings := sourceDoc.Config
		if installPath != "" {
			settings.DefaultPath = installPath
		}
		p.Info("No local config found, initializing it with the settings of %s", source)
		if _, err := a.store.Init(ctx, settings, store.InitOptions{}); err != nil && !errors.Is(err, store.ErrPushFailed) {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}
	}

	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return err
	}
	manager := a.syncManager(reg.Settings())

	var restored, failed int
	for i, entry := range entries {
		target := restoreTarget(reg, entry, installPath)
		if err := a.restoreComponent(ctx, manager, target, opts.install); err != nil {
			failed++
			p.Error("Failed to restore %s: %v", entry.Name, err)
		} else if err := reg.Put(target.Name, target.Category, target.Component); err != nil {
			failed++
			p.Error("Failed to restore %s: %v", entry.Name, err)
		} else {
			restored++
		}
		p.Progress("Restoring components", i+1, len(entries))
	}

	if restored > 0 {
		if err := a.save(ctx, reg, fmt.Sprintf("Restore %d components", restored)); err != nil {
			return err
		}
	}

	p.Success("Restored %d of %d components", restored, len(entries))
	if failed > 0 {
		return fmt.Errorf("%d of %d components failed to restore", failed, len(entries))
	}
	return nil
}

// restoreComponent installs a restored component unless it is already in place
func (a *App) restoreComponent(ctx context.Context, manager pkgsync.Manager, target *pkgsync.Target, install bool) error {
	if !install {
		return nil
	}
	if target.Component.Type != config.ComponentTypePip && exists(target.Dir) {
		a.printer.Info("%s is already in place at %s", target.Name, target.Dir)
		return nil
	}

	a.printer.Verbosef("Installing %s into %s", target.Name, target.Dir)
	result, syncErr := manager.Install(ctx, target)
	if syncErr != nil {
		return syncErr
	}
	if result.Version != "" {
		target.Component.Version = result.Version
	}
	return nil
}

// readSource returns the configuration found at source
func (a *App) readSource(ctx context.Context, source string, remote bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case !remote:
		data, err = os.ReadFile(source) // #nosec G304 -- path provided by the user
	case isRepositoryURL(source):
		data, err = a.gitClient.ReadRemoteFile(ctx, &git.CloneConfig{URL: source}, config.DefaultConfigFile)
	case git.IsWebURL(source):
		data, err = a.httpClient.Get(ctx, source)
	default:
		return nil, fmt.Errorf("the provided URL %s is not valid", source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	if !bytes.HasPrefix(data, gzipMagic) {
		return data, nil
	}
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", source, err)
	}
	defer func() {
		_ = reader.Close()
	}()
	return io.ReadAll(io.LimitReader(reader, config.MaxDocumentSize+1))
}

// isRepositoryURL reports whether url names a git repository rather than a file
func isRepositoryURL(url string) bool {
	return git.IsValidURL(url) && (strings.HasSuffix(strings.TrimRight(url, "/"), config.GitEnding) || !git.IsWebURL(url))
}

// restoreEntries selects the components of the source
func restoreEntries(sourceReg *registry.Registry, opts *restoreOptions) ([]registry.Entry, error) {
	switch {
	case opts.toolName != "":
		component, category, err := sourceReg.Lookup(opts.toolName)
		if err != nil {
			return nil, err
		}
		return []registry.Entry{{Name: opts.toolName, Category: category, Component: component}}, nil
	case opts.category != "":
		if !sourceReg.HasCategory(opts.category) {
			return nil, fmt.Errorf("category %s does not exist in the source, known categories: %s",
				opts.category, strings.Join(sourceReg.Categories(), ", "))
		}
		return sourceReg.List(registry.ListOptions{Category: opts.category}), nil
	default:
		return sourceReg.List(registry.ListOptions{}), nil
	}
}

// restoreTarget places a source component in the local registry. With an install
// path the component is installed below it, keeping the category subfolder, and
// the path is recorded. Otherwise the recorded custom path or the local default
// location is used.
func restoreTarget(reg *registry.Registry, entry registry.Entry, installPath string) *pkgsync.Target {
	component := *entry.Component
	target := &pkgsync.Target{Name: entry.Name, Category: entry.Category, Component: &component}
	if component.Type == config.ComponentTypePip {
		component.CustomPath = ""
		return target
	}

	switch {
	case installPath != "":
		target.Dir = reg.TargetPath(entry.Name, registry.Placement{
			Category:   entry.Category,
			Subfolder:  true,
			CustomPath: installPath,
		})
		component.CustomPath = target.Dir
	case component.CustomPath != "":
		target.Dir = component.CustomPath
	default:
		target.Dir = reg.TargetPath(entry.Name, registry.Placement{Category: entry.Category, Subfolder: true})
	}
	return target
}
