package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/superscript-dev/superscript/internal/config"
	pkgsync "github.com/superscript-dev/superscript/internal/sync"
)

func (a *App) newRemoveCmd() *cobra.Command {
	var purge bool
	cmd := &cobra.Command{
		Use:   "remove TOOL",
		Short: "Remove a component from the configuration",
		Long: `Remove a component from the configuration. With --purge its files are deleted
too and pip packages are uninstalled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRemove(cmd.Context(), args[0], purge)
		},
	}
	cmd.Flags().BoolVar(&purge, "purge", false, "Also delete the installed files")
	return cmd
}

func (a *App) runRemove(ctx context.Context, name string, purge bool) error {
	p := a.printer
	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return err
	}
	component, category, err := reg.Lookup(name)
	if err != nil {
		return err
	}

	if purge {
		target := &pkgsync.Target{Name: name, Category: category, Component: component}
		question := fmt.Sprintf("Do you want to uninstall the python package %s?", name)
		if component.Type != config.ComponentTypePip {
			if target.Dir, err = reg.InstallPath(name); err != nil {
				return err
			}
			question = fmt.Sprintf("Do you want to delete %s with all its content?", target.Dir)
		}
		if err := p.ConfirmOrAbort(question); err != nil {
			return err
		}
		if err := a.syncManager(reg.Settings()).Purge(ctx, target); err != nil {
			return fmt.Errorf("failed to purge %s: %w", name, err)
		}
		p.Verbosef("Purged files of %s", name)
	}

	if err := reg.Remove(name); err != nil {
		return err
	}
	if err := a.statusPersistence().RemoveStatus(ctx, name); err != nil {
		slog.Warn("Failed to remove update status", "component", name, "error", err)
	}

	message := "Remove " + name
	if category != "" {
		message += " from " + category
	}
	if err := a.save(ctx, reg, message); err != nil {
		return err
	}

	p.Success("Removed %s", name)
	return nil
}
