package app

import (
	"context"
	"fmt"
	"net/url"
	"path"

	"github.com/spf13/cobra"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/git"
	"github.com/superscript-dev/superscript/internal/registry"
	pkgsync "github.com/superscript-dev/superscript/internal/sync"
	"github.com/superscript-dev/superscript/internal/versions"
)

func (a *App) newURLFileCmd() *cobra.Command {
	placement := &placementFlags{}
	cmd := &cobra.Command{
		Use:   "urlfile URL",
		Short: "Download a file, e.g. a PoC script, to the install path",
		Long: `Download a single file and track it in the configuration.

File names of the form <name>_<version>.<ext>, such as oledump_V0_0_53.zip, record
the version so that update can look for newer releases of the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runURLFile(cmd.Context(), args[0], placement)
		},
	}
	placement.register(cmd)
	return cmd
}

func (a *App) runURLFile(ctx context.Context, fileURL string, flags *placementFlags) error {
	p := a.printer
	if !git.IsWebURL(fileURL) {
		return fmt.Errorf("the provided URL %s is not valid", fileURL)
	}
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return fmt.Errorf("the provided URL %s is not valid: %w", fileURL, err)
	}
	fileName := path.Base(parsed.Path)
	if fileName == "/" || fileName == "." {
		return fmt.Errorf("the provided URL %s does not name a file", fileURL)
	}

	name, versionString, _ := versions.SplitFileName(fileName)
	var version string
	if versionString != "" {
		if v, err := versions.Parse(versionString); err == nil {
			version = v.String()
		}
	}
	if version == "" {
		p.Verbosef("No version found in %s, updates will compare the file content", fileName)
	} else {
		p.Verbosef("Found %s with version %s", name, version)
	}

	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return err
	}
	if err := ensureUnregistered(reg, name); err != nil {
		return err
	}

	placement, err := a.placement(flags)
	if err != nil {
		return err
	}
	dir := reg.TargetPath(name, placement)
	component := registry.NewComponent(registry.ComponentSpec{
		URL:       fileURL,
		Type:      config.ComponentTypeURLFile,
		Path:      dir,
		Placement: placement,
		Version:   version,
		Filename:  fileName,
	})

	message := "Add urlfile of " + name
	if version != "" {
		message += " with version " + version
	}
	message += categorySuffix(placement.Category)

	p.Info("Downloading %s into %s", fileName, dir)
	target := &pkgsync.Target{Name: name, Category: placement.Category, Component: component, Dir: dir}
	if err := a.installComponent(ctx, reg, target, func(*pkgsync.Result) string {
		return message
	}); err != nil {
		return err
	}

	p.Success("Successfully downloaded %s", fileName)
	return nil
}
