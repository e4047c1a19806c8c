// Package status provides update status tracking and persistence for components.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// StatusFileName is the name of the status file
	StatusFileName = "status.json"

	// DirName is the directory below the app directory holding status files
	DirName = ".status"
)

// StatusPersistence defines the interface for update status persistence
//
//nolint:revive // This name is fine
type StatusPersistence interface {
	// SaveStatus saves the update status of a component
	SaveStatus(ctx context.Context, component string, status *UpdateStatus) error

	// LoadStatus loads the update status of a component
	// Returns an empty UpdateStatus if the file doesn't exist (never updated)
	LoadStatus(ctx context.Context, component string) (*UpdateStatus, error)

	// LoadAllStatus loads the update status of all components
	LoadAllStatus(ctx context.Context) (map[string]*UpdateStatus, error)

	// RemoveStatus deletes the update status of a component
	RemoveStatus(ctx context.Context, component string) error
}

// fileStatusPersistence implements StatusPersistence using local filesystem
type fileStatusPersistence struct {
	basePath string
}

// NewFileStatusPersistence creates a new file-based status persistence
// basePath is the base directory where per-component status files will be stored
func NewFileStatusPersistence(basePath string) StatusPersistence {
	return &fileStatusPersistence{
		basePath: basePath,
	}
}

// SaveStatus saves the update status to a JSON file in a component-specific directory
func (f *fileStatusPersistence) SaveStatus(_ context.Context, component string, status *UpdateStatus) error {
	componentDir, err := f.componentDir(component)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(componentDir, 0750); err != nil {
		return fmt.Errorf("failed to create status directory for component '%s': %w", component, err)
	}

	filePath := filepath.Join(componentDir, StatusFileName)

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status data for component '%s': %w", component, err)
	}

	// Write to temporary file first for atomic operation
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary status file for component '%s': %w", component, err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename status file for component '%s': %w", component, err)
	}

	return nil
}

// LoadStatus loads the update status from a JSON file for a specific component
// Returns an empty UpdateStatus if the file doesn't exist
func (f *fileStatusPersistence) LoadStatus(_ context.Context, component string) (*UpdateStatus, error) {
	componentDir, err := f.componentDir(component)
	if err != nil {
		return nil, err
	}
	filePath := filepath.Join(componentDir, StatusFileName)

	// #nosec G304 -- filePath is basePath plus a validated component name
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &UpdateStatus{}, nil
		}
		return nil, fmt.Errorf("failed to read status file for component '%s': %w", component, err)
	}

	var status UpdateStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status data for component '%s': %w", component, err)
	}

	return &status, nil
}

// LoadAllStatus loads update status for all components
func (f *fileStatusPersistence) LoadAllStatus(ctx context.Context) (map[string]*UpdateStatus, error) {
	result := make(map[string]*UpdateStatus)

	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to read status directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		component := entry.Name()
		status, err := f.LoadStatus(ctx, component)
		if err != nil {
			// Skip unreadable entries so one corrupt file does not hide the rest
			continue
		}

		result[component] = status
	}

	return result, nil
}

// RemoveStatus deletes the status directory of a component; a missing one is fine
func (f *fileStatusPersistence) RemoveStatus(_ context.Context, component string) error {
	componentDir, err := f.componentDir(component)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(componentDir); err != nil {
		return fmt.Errorf("failed to remove status for component '%s': %w", component, err)
	}
	return nil
}

// componentDir rejects names that would escape the base directory
func (f *fileStatusPersistence) componentDir(component string) (string, error) {
	if component == "" || component == "." || component == ".." || filepath.Base(component) != component {
		return "", fmt.Errorf("invalid component name '%s'", component)
	}
	return filepath.Join(f.basePath, component), nil
}
