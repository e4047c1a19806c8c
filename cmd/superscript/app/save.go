package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/superscript-dev/superscript/internal/store"
)

// DefaultSaveMessage is the commit message of save
const DefaultSaveMessage = "Add changes in superscript config"

func (a *App) newSaveCmd() *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the current config to git (commit and push)",
		Long: `Commit pending changes of the configuration and push them to the git remote
configured as gitsaveurl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSave(cmd.Context(), message)
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", DefaultSaveMessage, "Commit message for pending changes")
	return cmd
}

func (a *App) runSave(ctx context.Context, message string) error {
	err := a.store.Push(ctx, message)
	switch {
	case errors.Is(err, store.ErrNoGitVCS):
		return fmt.Errorf("cannot save the configuration: %w", err)
	case errors.Is(err, store.ErrNoRemote):
		return fmt.Errorf("cannot save the configuration: %w, set one with superscript --gitsaveurl", err)
	case err != nil:
		return err
	}

	a.printer.Success("Saved configuration to the git remote")
	return nil
}

func (a *App) newExportCmd() *cobra.Command {
	var compress bool
	cmd := &cobra.Command{
		Use:   "export PATH",
		Short: "Export the local config file to another path",
		Long: `Copy the configuration file to PATH. A directory receives a file named
superconfig.yml; with --compress the copy is gzip compressed and ends in .gz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := a.store.Export(cmd.Context(), args[0], compress)
			if err != nil {
				return fmt.Errorf("failed to export configuration: %w", err)
			}
			a.printer.Success("Exported configuration to %s", dest)
			return nil
		},
	}
	cmd.Flags().BoolVar(&compress, "compress", false, "Compress the exported file with gzip")
	return cmd
}
