package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/git"
	"github.com/superscript-dev/superscript/internal/registry"
	pkgsync "github.com/superscript-dev/superscript/internal/sync"
)

type cloneOptions struct {
	branch    string
	recursive bool
	placement placementFlags
}

func (a *App) newCloneCmd() *cobra.Command {
	opts := &cloneOptions{}
	cmd := &cobra.Command{
		Use:   "clone URL",
		Short: "Clone a git repository to the install path",
		Long: `Clone a git repository to the install path and track it in the configuration.

The install path is the default path, or the custom path when given, followed by
the category (unless --subfolder=false) and the repository name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runClone(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.branch, "branch", config.GitDefaultBranch, "Branch to check out")
	cmd.Flags().BoolVar(&opts.recursive, "recursive", false, "Also clone submodules")
	opts.placement.register(cmd)
	return cmd
}

func (a *App) runClone(ctx context.Context, url string, opts *cloneOptions) error {
	p := a.printer
	if !git.IsValidURL(url) {
		return fmt.Errorf("the provided Git URL %s is not valid", url)
	}

	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return err
	}

	name := git.NameFromURL(url)
	if err := ensureUnregistered(reg, name); err != nil {
		return err
	}

	placement, err := a.placement(&opts.placement)
	if err != nil {
		return err
	}
	dir := reg.TargetPath(name, placement)
	if exists(dir) {
		return fmt.Errorf("a git repository with the name %s is already in place in path %s", name, dir)
	}

	component := registry.NewComponent(registry.ComponentSpec{
		URL:       url,
		Type:      config.ComponentTypeGit,
		Path:      dir,
		Placement: placement,
		Branch:    opts.branch,
		Recursive: opts.recursive,
	})

	p.Info("Cloning repository %s into %s", name, dir)
	target := &pkgsync.Target{Name: name, Category: placement.Category, Component: component, Dir: dir}
	if err := a.installComponent(ctx, reg, target, func(*pkgsync.Result) string {
		return "Add cloned git repository " + name + categorySuffix(placement.Category)
	}); err != nil {
		return err
	}

	if suffix := categorySuffix(placement.Category); suffix != "" && placement.Subfolder {
		p.Success("Successfully cloned repository %s into %s", name, placement.Category)
	} else {
		p.Success("Successfully cloned repository %s", name)
	}
	return nil
}
