package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/markdown"
	"github.com/superscript-dev/superscript/internal/registry"
	"github.com/superscript-dev/superscript/internal/releases"
	pkgsync "github.com/superscript-dev/superscript/internal/sync"
)

type gitReleaseOptions struct {
	showDetails bool
	download    bool
	tag         string
	asset       string
	count       int
	placement   placementFlags
}

func (a *App) newGitReleaseCmd() *cobra.Command {
	opts := &gitReleaseOptions{}
	cmd := &cobra.Command{
		Use:   "gitrelease REPOSITORY",
		Short: "Search for releases of a GitHub repository and download their assets",
		Long: `Search for releases of a GitHub repository.

REPOSITORY is owner/repo or a GitHub URL such as https://github.com/owner/repo,
optionally ending in .git or /releases. With --download the assets of the release
named by --tag, or of the latest release, matching --asset are downloaded and
tracked in the configuration.`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGitRelease(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.showDetails, "showdetails", true, "Show assets and release notes")
	cmd.Flags().BoolVar(&opts.download, "download", false, "Download the release assets")
	cmd.Flags().StringVar(&opts.tag, "tag", "", "Release tag to download (default is the latest release)")
	cmd.Flags().StringVar(&opts.asset, "asset", "", "Glob selecting the downloaded assets (default is all)")
	cmd.Flags().IntVar(&opts.count, "count", releases.DefaultListLimit, "Number of releases listed")
	opts.placement.register(cmd)
	return cmd
}

func (a *App) runGitRelease(ctx context.Context, repository string, opts *gitReleaseOptions) error {
	owner, repo, err := releases.ParseRepository(repository)
	if err != nil {
		return err
	}
	if opts.download {
		return a.downloadRelease(ctx, owner, repo, opts)
	}
	return a.listReleases(ctx, owner, repo, opts)
}

func (a *App) listReleases(ctx context.Context, owner, repo string, opts *gitReleaseOptions) error {
	p := a.printer
	list, err := a.releaseClient.List(ctx, owner, repo, opts.count)
	if err != nil {
		return fmt.Errorf("failed to list releases of %s/%s: %w", owner, repo, err)
	}
	if len(list) == 0 {
		p.Info("No releases found for %s/%s", owner, repo)
		return nil
	}

	var renderer *markdown.Renderer
	if opts.showDetails {
		if renderer, err = markdown.New(markdown.DefaultWidth); err != nil {
			return err
		}
	}

	p.Info("Found the following releases of %s/%s:", owner, repo)
	for i, release := range list {
		line := release.Title()
		if release.Title() != release.TagName {
			line += " (" + release.TagName + ")"
		}
		if !release.PublishedAt.IsZero() {
			line += ", published " + release.PublishedAt.Format("2006-01-02")
		}
		if release.Prerelease {
			line += ", prerelease"
		}
		p.Count(line, &i, 1)

		if !opts.showDetails {
			continue
		}
		for _, asset := range release.Assets {
			p.Count(fmt.Sprintf("%s (%d bytes)", asset.Name, asset.Size), nil, 2)
		}
		if release.Body != "" {
			notes, err := renderer.Render(release.Body)
			if err != nil {
				return err
			}
			p.Println(notes)
		}
	}
	return nil
}

func (a *App) downloadRelease(ctx context.Context, owner, repo string, opts *gitReleaseOptions) error {
	p := a.printer
	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return err
	}
	if err := ensureUnregistered(reg, repo); err != nil {
		return err
	}

	placement, err := a.placement(&opts.placement)
	if err != nil {
		return err
	}
	dir := reg.TargetPath(repo, placement)
	component := registry.NewComponent(registry.ComponentSpec{
		URL:       releases.RepositoryURL(owner, repo),
		Type:      config.ComponentTypeGitRelease,
		Path:      dir,
		Placement: placement,
		Version:   opts.tag,
		Asset:     opts.asset,
	})

	release := opts.tag
	if release == "" {
		release = "latest release"
	}
	p.Info("Downloading %s of %s/%s into %s", release, owner, repo, dir)

	target := &pkgsync.Target{Name: repo, Category: placement.Category, Component: component, Dir: dir}
	if err := a.installComponent(ctx, reg, target, func(result *pkgsync.Result) string {
		component.Version = result.Version
		p.Verbosef("%s", result.Message)
		return "Add release " + result.Version + " of " + repo + categorySuffix(placement.Category)
	}); err != nil {
		return err
	}
	p.Success("Successfully downloaded release %s of %s", component.Version, repo)
	return nil
}
