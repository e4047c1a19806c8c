package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/pip"
	"github.com/superscript-dev/superscript/internal/registry"
	pkgsync "github.com/superscript-dev/superscript/internal/sync"
)

func (a *App) newPipCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "pip PACKAGE",
		Short: "Install a python package globally, tracked via pip",
		Long: `Install a python package with pip and track it in the configuration.

The pip command line is taken from the pipcommand setting and defaults to "pip".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPip(cmd.Context(), args[0], category)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Category of the package")
	return cmd
}

func (a *App) runPip(ctx context.Context, pkg, category string) error {
	p := a.printer
	name := pip.PackageName(pkg)
	if name == "" {
		return fmt.Errorf("invalid package name '%s'", pkg)
	}

	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return err
	}
	if err := ensureUnregistered(reg, name); err != nil {
		return err
	}

	component := registry.NewComponent(registry.ComponentSpec{
		URL:       pip.PackageURL(name),
		Type:      config.ComponentTypePip,
		Placement: registry.Placement{Category: category, Subfolder: true},
	})

	p.Info("Installing python package %s with %s", name, reg.Settings().GetPipCommand())
	target := &pkgsync.Target{Name: name, Category: category, Component: component}
	if err := a.installComponent(ctx, reg, target, func(result *pkgsync.Result) string {
		component.Version = result.Version
		message := "Add pip package " + name
		if result.Version != "" {
			message += " with version " + result.Version
		}
		return message + categorySuffix(category)
	}); err != nil {
		return err
	}

	p.Success("Successfully installed %s %s", name, component.Version)
	return nil
}
