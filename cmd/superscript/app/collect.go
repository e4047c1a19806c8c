package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/git"
	"github.com/superscript-dev/superscript/internal/registry"
)

func (a *App) newCollectCmd() *cobra.Command {
	var (
		category  string
		recursive bool
	)
	cmd := &cobra.Command{
		Use:   "collect PATH",
		Short: "Collect git repositories in a path and add them to the configuration",
		Long: `Collect git repositories that are already on disk and add them to the configuration.

Without --recursive PATH itself has to be a git repository. With --recursive every
direct child of PATH that is a git repository with a remote is collected.
Repositories whose name is already registered are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCollect(cmd.Context(), args[0], category, recursive)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Category of the collected repositories")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Collect the repositories in the direct children of PATH")
	return cmd
}

func (a *App) runCollect(ctx context.Context, path, category string, recursive bool) error {
	p := a.printer
	root, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", path, err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("the provided path %s is not a directory", path)
	}

	paths := []string{root}
	if recursive {
		if paths, err = a.gitChildren(root); err != nil {
			return err
		}
	}

	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return err
	}

	var added []string
	for i, dir := range paths {
		p.Verbosef("Checking directory %s for git repository", dir)
		name, err := a.collectRepository(reg, dir, category)
		if err != nil {
			return err
		}
		if name != "" {
			added = append(added, name)
		}
		p.Progress("Processing path", i+1, len(paths))
	}

	if len(added) == 0 {
		p.Info("No new git repositories found in %s", root)
		return nil
	}

	message := "Add collected git repository " + added[0]
	if len(added) > 1 {
		message = "Add collected git repositories " + strings.Join(added, ", ")
	}
	if err := a.save(ctx, reg, message+categorySuffix(category)); err != nil {
		return err
	}

	p.Success("Collected %d git repositories", len(added))
	return nil
}

// collectRepository registers the repository in dir and returns its name, or an
// empty name when it is already registered
func (a *App) collectRepository(reg *registry.Registry, dir, category string) (string, error) {
	p := a.printer
	gitPath := filepath.Join(dir, config.GitEnding)
	if !exists(gitPath) {
		return "", fmt.Errorf("no git path found in %s", dir)
	}
	p.Verbosef("Git path %s found", gitPath)

	repoInfo, err := a.gitClient.Open(dir)
	if err != nil {
		return "", err
	}
	if repoInfo.RemoteURL == "" {
		return "", fmt.Errorf("the git repository in %s has no remote", dir)
	}

	name := git.NameFromURL(repoInfo.RemoteURL)
	if _, _, err := reg.Lookup(name); err == nil {
		p.Info("%s is already in the config, skipping", name)
		return "", nil
	}

	// Repositories outside their default location keep their path
	placement := registry.Placement{Category: category, Subfolder: true}
	if filepath.Clean(reg.TargetPath(name, placement)) != filepath.Clean(dir) {
		placement.CustomPath = dir
	}

	component := registry.NewComponent(registry.ComponentSpec{
		URL:       repoInfo.RemoteURL,
		Type:      config.ComponentTypeGit,
		Path:      dir,
		Placement: placement,
		Branch:    repoInfo.Branch,
	})
	if err := reg.Add(name, category, component); err != nil {
		return "", err
	}

	p.Info("Adding %s to config", name)
	return name, nil
}

// gitChildren returns the direct children of root that are git repositories with a remote
func (a *App) gitChildren(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", root, err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		child := filepath.Join(root, entry.Name())
		hasRemote, err := a.gitClient.HasRemote(child)
		if err != nil {
			a.printer.Verbosef("Skipping %s, not a git repository", child)
			continue
		}
		if !hasRemote {
			a.printer.Verbosef("Skipping %s, the git repository has no remote", child)
			continue
		}
		paths = append(paths, child)
	}
	return paths, nil
}
