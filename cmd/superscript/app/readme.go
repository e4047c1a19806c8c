package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/superscript-dev/superscript/internal/config"
	"github.com/superscript-dev/superscript/internal/git"
	"github.com/superscript-dev/superscript/internal/markdown"
)

// readmeFile is the preferred readme of a component
const readmeFile = "README.md"

func (a *App) newReadmeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "readme TOOL",
		Short: "Print the readme of a component",
		Long: `Print the README.md of a component rendered for the terminal. Other readme
files are printed as they are.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReadme(cmd.Context(), args[0])
		},
	}
}

func (a *App) runReadme(ctx context.Context, name string) error {
	p := a.printer
	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return err
	}
	component, _, err := reg.Lookup(name)
	if err != nil {
		return err
	}
	p.Verbosef("Found %s in superconfig", name)
	if component.Type == config.ComponentTypePip {
		return fmt.Errorf("%s is a pip package and has no install path", name)
	}

	dir, err := reg.InstallPath(name)
	if err != nil {
		return err
	}
	path, err := findReadme(dir)
	if err != nil {
		return fmt.Errorf("no readme found for %s: %w", name, err)
	}
	p.Verbosef("README file exists for %s at %s", name, path)

	content, err := os.ReadFile(path) // #nosec G304 -- path is below the install path of a registered component
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".md") {
		p.Println(string(content))
		return nil
	}

	renderer, err := markdown.New(markdown.DefaultWidth)
	if err != nil {
		return err
	}
	rendered, err := renderer.Render(string(content))
	if err != nil {
		return err
	}
	p.Println(rendered)
	return nil
}

// findReadme returns README.md in dir, or else the first file whose name starts
// with "readme" in any case
func findReadme(dir string) (string, error) {
	preferred := filepath.Join(dir, readmeFile)
	if info, err := os.Stat(preferred); err == nil && info.Mode().IsRegular() {
		return preferred, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var candidates []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasPrefix(strings.ToLower(entry.Name()), "readme") {
			candidates = append(candidates, entry.Name())
		}
	}
	if len(candidates) == 0 {
		return "", os.ErrNotExist
	}
	sort.Strings(candidates)
	return filepath.Join(dir, candidates[0]), nil
}

func (a *App) newWikiCmd() *cobra.Command {
	var openWebPage bool
	cmd := &cobra.Command{
		Use:   "wiki TOOL",
		Short: "Check whether the repository of a component has a wiki",
		Long: `Check online whether the repository of a git or gitrelease component has a
wiki. Only GitHub style wikis at <repository>/wiki are supported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWiki(cmd.Context(), args[0], openWebPage)
		},
	}
	cmd.Flags().BoolVar(&openWebPage, "openwebpage", false, "Open the wiki in the browser")
	return cmd
}

func (a *App) runWiki(ctx context.Context, name string, openWebPage bool) error {
	p := a.printer
	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return err
	}
	component, _, err := reg.Lookup(name)
	if err != nil {
		return err
	}
	p.Verbosef("Found %s in superconfig", name)
	if component.Type != config.ComponentTypeGit && component.Type != config.ComponentTypeGitRelease {
		return fmt.Errorf("%s is of type %s, wikis are only available for repositories", name, component.Type)
	}

	p.Info("Searching for wiki of tool %s", name)
	wikiURL := git.WebURL(component.URL) + "/wiki"

	// GitHub answers 200 for an existing wiki and redirects otherwise
	code, err := a.httpClient.Status(ctx, wikiURL)
	if err != nil {
		return fmt.Errorf("failed to request wiki of %s: %w", name, err)
	}
	p.Verbosef("Wiki URL %s returned status code %d", wikiURL, code)
	if code != http.StatusOK {
		p.Info("Wiki does not exist for %s", name)
		return nil
	}

	p.Info("Wiki exists for %s", name)
	if openWebPage {
		if err := a.openURL(wikiURL); err != nil {
			return fmt.Errorf("failed to open %s: %w", wikiURL, err)
		}
	}
	return nil
}
