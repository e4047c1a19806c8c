package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/filtering"
	"github.com/superscript-dev/superscript/internal/registry"
	"github.com/superscript-dev/superscript/internal/status"
)

type listOptions struct {
	categorized bool
	category    string
	include     []string
	exclude     []string
	types       []string
	table       bool
}

func (a *App) newListCmd() *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all components in the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runList(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.categorized, "categorized", false, "Group the components by category")
	cmd.Flags().StringVar(&opts.category, "category", "", "Only list the components of this category")
	cmd.Flags().StringSliceVar(&opts.include, "include", nil, "Glob patterns of component names to list")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "Glob patterns of component names to hide")
	cmd.Flags().StringSliceVar(&opts.types, "type", nil, "Only list components of these types (git, urlfile, gitrelease, pip)")
	cmd.Flags().BoolVar(&opts.table, "table", false, "Print the components as a table")
	return cmd
}

func (a *App) runList(ctx context.Context, opts *listOptions) error {
	p := a.printer
	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return err
	}

	if err := filtering.ValidatePatterns(append(opts.include, opts.exclude...)...); err != nil {
		return err
	}

	listOpts := registry.ListOptions{
		Category: opts.category,
		Include:  opts.include,
		Exclude:  opts.exclude,
	}
	for _, t := range opts.types {
		componentType := config.ComponentType(t)
		if !componentType.IsValid() {
			return fmt.Errorf("unknown component type %s", t)
		}
		listOpts.Types = append(listOpts.Types, componentType)
	}
	entries := reg.List(listOpts)

	if opts.table {
		return a.listTable(ctx, reg, entries)
	}

	p.Info("The following tools are installed:")
	lastCategory := ""
	for i, entry := range entries {
		level := 1
		if opts.categorized {
			if entry.Category != lastCategory && opts.category == "" {
				p.Count(entry.Category, nil, 1)
			}
			lastCategory = entry.Category
			level = 2
		}
		p.Count(entry.Name, &i, level)
	}
	return nil
}

func (a *App) listTable(ctx context.Context, reg *registry.Registry, entries []registry.Entry) error {
	statuses, err := a.statusPersistence().LoadAllStatus(ctx)
	if err != nil {
		slog.Warn("Failed to load update status", "error", err)
		statuses = nil
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		path := "-"
		if entry.Component.Type != config.ComponentTypePip {
			dir, err := reg.InstallPath(entry.Name)
			if err != nil {
				return err
			}
			path = dir
		}
		version := entry.Component.Version
		if version == "" {
			version = "-"
		}
		rows = append(rows, []string{
			entry.Name, entry.Category, string(entry.Component.Type), version, lastUpdate(statuses[entry.Name]), path,
		})
	}
	return a.printer.Table([]string{"Name", "Category", "Type", "Version", "Last update", "Path"}, rows)
}

// lastUpdate summarizes the recorded update status of a component
func lastUpdate(updateStatus *status.UpdateStatus) string {
	if updateStatus == nil || updateStatus.Phase == "" {
		return "-"
	}
	summary := string(updateStatus.Phase)
	if updateStatus.LastUpdateTime != nil {
		summary += " " + updateStatus.LastUpdateTime.Format(time.DateOnly)
	}
	return summary
}

func (a *App) newSearchCmd() *cobra.Command {
	var (
		fuzzy bool
		limit int
	)
	cmd := &cobra.Command{
		Use:   "search NAME",
		Short: "Search for a component name in the configuration",
		Long: `Search for registered components with a name similar to NAME. With --fuzzy the
characters of NAME only have to appear in order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd.Context(), args[0], fuzzy, limit)
		},
	}
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "Use fuzzy subsequence matching")
	cmd.Flags().IntVar(&limit, "limit", registry.DefaultSearchLimit, "Maximum number of matches")
	return cmd
}

func (a *App) runSearch(ctx context.Context, query string, fuzzy bool, limit int) error {
	p := a.printer
	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return err
	}

	var matches []string
	if fuzzy {
		matches = reg.FuzzySearch(query, limit)
	} else {
		matches = reg.Search(query, limit)
	}
	if len(matches) == 0 {
		p.Info("There was no matching tool found")
		return nil
	}

	p.Info("Found the following tools:")
	for i, match := range matches {
		p.Count(match, &i, 1)
	}
	return nil
}
