package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/printing"
	"github.com/superscript-dev/superscript/internal/store"
)

func addInitFlags(cmd *cobra.Command) {
	cmd.Flags().String("installpath", "", "Default path components are installed to (default <appdir>/tools)")
	cmd.Flags().Bool("gitvcs", true, "Keep the configuration under git version control")
	cmd.Flags().String("gitsaveurl", "", "Git remote the configuration is pushed to")
	cmd.Flags().Bool("autosave", true, "Push every configuration change to the git remote")
	cmd.Flags().String("pipcommand", "", "Command line used to run pip (default \"pip\")")
}

// runInit creates the configuration, asking before an existing one is overwritten
func (a *App) runInit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	p := a.printer

	p.Info("Initializing superscript")
	p.Verbosef("Using path %s", a.store.Path())

	if a.store.Exists() {
		p.Error("Config file does already exist!")
		ok, err := p.Confirm("Do you want to overwrite the existing config?")
		if err != nil {
			return err
		}
		if !ok {
			p.Info("Not overwriting, going to exit...")
			return printing.ErrAborted
		}
		p.Info("Overwriting config file")
	}

	settings, err := initSettings(cmd, a.store.Dir())
	if err != nil {
		return err
	}

	var opts store.InitOptions
	if settings.GitVCS && a.store.HasRepository() {
		p.Verbosef("Found existing git repository at %s", a.store.Dir())
		replace, err := p.Confirm("A git repository is already in place, do you want to overwrite it?")
		if err != nil {
			return err
		}
		opts.ReplaceRepository = replace
	}

	p.Info("Initialize script config")
	p.Verbosef("Installpath is set to %s", settings.DefaultPath)
	if _, err := a.store.Init(ctx, settings, opts); err != nil {
		if !errors.Is(err, store.ErrPushFailed) {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}
		p.Error("Configuration saved locally, but pushing it failed: %v", err)
	}
	if opts.ReplaceRepository {
		p.Success("Removed existing git repository successfully")
	}

	p.Success("Initialized superscript in %s", a.store.Dir())
	return nil
}

// initSettings builds the settings from the init flags
func initSettings(cmd *cobra.Command, appDir string) (config.Settings, error) {
	settings := config.DefaultSettings(appDir)
	flags := cmd.Flags()

	installPath, err := flags.GetString("installpath")
	if err != nil {
		return settings, err
	}
	if installPath != "" {
		if settings.DefaultPath, err = filepath.Abs(installPath); err != nil {
			return settings, fmt.Errorf("invalid install path %s: %w", installPath, err)
		}
	}
	if settings.GitVCS, err = flags.GetBool("gitvcs"); err != nil {
		return settings, err
	}
	if settings.AutoSave, err = flags.GetBool("autosave"); err != nil {
		return settings, err
	}
	saveURL, err := flags.GetString("gitsaveurl")
	if err != nil {
		return settings, err
	}
	settings.SetSaveURL(saveURL)
	if settings.PipCommand, err = flags.GetString("pipcommand"); err != nil {
		return settings, err
	}

	return settings, nil
}
