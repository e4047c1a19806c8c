package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/superscript-dev/superscript/internal/registry"
	pkgsync "github.com/superscript-dev/superscript/internal/sync"
)

// installComponent fetches a new component, registers it and saves the
// configuration. The fetched files are purged again when the component cannot be
// recorded. record may adjust target.Component with the install result and
// returns the commit message.
func (a *App) installComponent(
	ctx context.Context,
	reg *registry.Registry,
	target *pkgsync.Target,
	record func(*pkgsync.Result) string,
) error {
	manager := a.syncManager(reg.Settings())

	result, syncErr := manager.Install(ctx, target)
	if syncErr != nil {
		return syncErr
	}
	message := record(result)

	if err := reg.Add(target.Name, target.Category, target.Component); err != nil {
		a.purge(ctx, manager, target)
		return err
	}
	if err := a.save(ctx, reg, message); err != nil {
		a.purge(ctx, manager, target)
		return err
	}
	return nil
}

// purge removes the files of a component that could not be recorded
func (a *App) purge(ctx context.Context, manager pkgsync.Manager, target *pkgsync.Target) {
	if err := manager.Purge(ctx, target); err != nil {
		slog.Warn("Failed to remove component files", "component", target.Name, "error", err)
		return
	}
	a.printer.Verbosef("Removed files of %s again", target.Name)
}

// ensureUnregistered fails when name is already registered
func ensureUnregistered(reg *registry.Registry, name string) error {
	if _, category, err := reg.Lookup(name); err == nil {
		if category == "" {
			return fmt.Errorf("%w: %s", registry.ErrComponentExists, name)
		}
		return fmt.Errorf("%w: %s in category %s", registry.ErrComponentExists, name, category)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
