// Package pip installs python packages by running the configured pip command.
package pip

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// ErrEmptyCommand is returned when the pip command line is blank
var ErrEmptyCommand = errors.New("pip command is empty")

// Installer defines the interface for pip operations
type Installer interface {
	// Install installs pkg, upgrading an installed version if upgrade is set
	Install(ctx context.Context, pkg string, upgrade bool) error

	// Uninstall removes pkg without asking for confirmation
	Uninstall(ctx context.Context, pkg string) error

	// Version returns the installed version of pkg
	Version(ctx context.Context, pkg string) (string, error)
}

// Option configures an installer
type Option func(*commandInstaller)

// WithOutput sets the writers the pip output is passed through to
func WithOutput(stdout, stderr io.Writer) Option {
	return func(i *commandInstaller) {
		i.stdout = stdout
		i.stderr = stderr
	}
}

type commandInstaller struct {
	command []string
	stdout  io.Writer
	stderr  io.Writer
}

// NewInstaller parses commandLine, for example "python3 -m pip", into an installer
func NewInstaller(commandLine string, opts ...Option) (Installer, error) {
	command, err := shlex.Split(commandLine)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pip command '%s': %w", commandLine, err)
	}
	if len(command) == 0 {
		return nil, ErrEmptyCommand
	}

	i := &commandInstaller{
		command: command,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Install runs "<pip> install [--upgrade] <pkg>"
func (i *commandInstaller) Install(ctx context.Context, pkg string, upgrade bool) error {
	args := []string{"install"}
	if upgrade {
		args = append(args, "--upgrade")
	}
	args = append(args, pkg)

	cmd := i.cmd(ctx, args...)
	cmd.Stdout = i.stdout
	cmd.Stderr = i.stderr

	slog.Debug("Running pip", "args", cmd.Args)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to install %s: %w", pkg, err)
	}
	return nil
}

// Uninstall runs "<pip> uninstall --yes <pkg>"
func (i *commandInstaller) Uninstall(ctx context.Context, pkg string) error {
	cmd := i.cmd(ctx, "uninstall", "--yes", pkg)
	cmd.Stdout = i.stdout
	cmd.Stderr = i.stderr

	slog.Debug("Running pip", "args", cmd.Args)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to uninstall %s: %w", pkg, err)
	}
	return nil
}

// Version runs "<pip> show <pkg>" and reads the Version field
func (i *commandInstaller) Version(ctx context.Context, pkg string) (string, error) {
	var out bytes.Buffer
	cmd := i.cmd(ctx, "show", pkg)
	cmd.Stdout = &out
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to query %s: %w", pkg, err)
	}

	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		if version, ok := strings.CutPrefix(scanner.Text(), "Version:"); ok {
			return strings.TrimSpace(version), nil
		}
	}
	return "", fmt.Errorf("no version reported for %s", pkg)
}

func (i *commandInstaller) cmd(ctx context.Context, args ...string) *exec.Cmd {
	// #nosec G204 -- the command comes from the user's own configuration
	return exec.CommandContext(ctx, i.command[0], append(i.command[1:len(i.command):len(i.command)], args...)...)
}
