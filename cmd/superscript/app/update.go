package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/registry"
	pkgsync "github.com/superscript-dev/superscript/internal/sync"
	"github.com/superscript-dev/superscript/internal/sync/coordinator"
)

type updateOptions struct {
	category string
	toolName string
	jobs     int
}

func (a *App) newUpdateCmd() *cobra.Command {
	opts := &updateOptions{}
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update all configured components or a selection of them",
		Long: `Update the configured components.

git repositories are pulled, versioned urlfiles are checked for newer versions
and otherwise downloaded again, gitrelease components fetch the assets of a newer
latest release and pip packages are upgraded. Failures are reported per component.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runUpdate(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.category, "category", "", "Only update the components of this category")
	cmd.Flags().StringVar(&opts.toolName, "toolname", "", "Only update this component")
	cmd.Flags().IntVar(&opts.jobs, "jobs", coordinator.DefaultJobs, "Number of components updated in parallel")
	return cmd
}

func (a *App) runUpdate(ctx context.Context, opts *updateOptions) error {
	p := a.printer
	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return err
	}

	targets, err := updateTargets(reg, opts)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		p.Info("There are no components to update")
		return nil
	}

	p.Info("Updating %d components", len(targets))
	coord := coordinator.New(a.syncManager(reg.Settings()), a.statusPersistence(),
		coordinator.WithJobs(opts.jobs),
		coordinator.WithProgress(func(done, total int) {
			p.Progress("Updating components", done, total)
		}),
	)
	outcomes := coord.Run(ctx, targets)

	var updated, recorded, failed int
	for _, outcome := range outcomes {
		name := outcome.Target.Name
		if outcome.Failed() {
			failed++
			p.Error("Failed to update %s: %s", name, outcome.Err.Message)
			continue
		}
		if outcome.Result.Changed {
			updated++
			p.Success("Updated %s: %s", name, outcome.Result.Message)
		} else {
			p.Verbosef("%s is up to date: %s", name, outcome.Result.Message)
		}
		if recordUpdate(outcome.Target.Component, outcome.Result) {
			recorded++
		}
	}

	if recorded > 0 {
		if err := a.save(ctx, reg, fmt.Sprintf("Update %d components", recorded)); err != nil {
			return err
		}
	}

	p.Info("%d of %d components updated, %d up to date", updated, len(targets), len(targets)-updated-failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d components failed to update", failed, len(targets))
	}
	return nil
}

// updateTargets selects the components to update
func updateTargets(reg *registry.Registry, opts *updateOptions) ([]*pkgsync.Target, error) {
	var entries []registry.Entry
	switch {
	case opts.toolName != "":
		component, category, err := reg.Lookup(opts.toolName)
		if err != nil {
			return nil, err
		}
		entries = []registry.Entry{{Name: opts.toolName, Category: category, Component: component}}
	case opts.category != "":
		if !reg.HasCategory(opts.category) {
			return nil, fmt.Errorf("category %s does not exist, known categories: %s",
				opts.category, strings.Join(reg.Categories(), ", "))
		}
		entries = reg.List(registry.ListOptions{Category: opts.category})
	default:
		entries = reg.List(registry.ListOptions{})
	}

	targets := make([]*pkgsync.Target, 0, len(entries))
	for _, entry := range entries {
		target := &pkgsync.Target{Name: entry.Name, Category: entry.Category, Component: entry.Component}
		if entry.Component.Type != config.ComponentTypePip {
			dir, err := reg.InstallPath(entry.Name)
			if err != nil {
				return nil, err
			}
			target.Dir = dir
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// recordUpdate copies the new version and location into the component record and
// reports whether the record changed
func recordUpdate(component *config.Component, result *pkgsync.Result) bool {
	changed := false
	if result.Version != "" && result.Version != component.Version {
		component.Version = result.Version
		changed = true
	}
	if result.URL != "" && result.URL != component.URL {
		component.URL = result.URL
		changed = true
	}
	if result.Filename != "" && result.Filename != component.Filename {
		component.Filename = result.Filename
		changed = true
	}
	return changed
}
