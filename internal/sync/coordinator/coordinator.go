package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/superscript-dev/superscript/internal/status"
	pkgsync "github.com/superscript-dev/superscript/internal/sync"
)

// DefaultJobs is the number of components updated concurrently
const DefaultJobs = 4

// Outcome is the result of updating one target
type Outcome struct {
	Target *pkgsync.Target
	Result *pkgsync.Result
	Err    *pkgsync.Error
}

// Failed reports whether the update failed
func (o *Outcome) Failed() bool {
	return o.Err != nil
}

// Coordinator runs component updates
type Coordinator interface {
	// Run updates all targets and returns their outcomes in the order given.
	// A failing target does not stop the others.
	Run(ctx context.Context, targets []*pkgsync.Target) []Outcome
}

// ProgressFunc is called after each finished target
type ProgressFunc func(done, total int)

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithJobs sets the number of concurrent updates
func WithJobs(jobs int) Option {
	return func(c *defaultCoordinator) {
		if jobs > 0 {
			c.jobs = jobs
		}
	}
}

// WithProgress sets a callback invoked after every finished target
func WithProgress(progress ProgressFunc) Option {
	return func(c *defaultCoordinator) {
		c.progress = progress
	}
}

// WithClock replaces time.Now for status timestamps
func WithClock(now func() time.Time) Option {
	return func(c *defaultCoordinator) {
		c.now = now
	}
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	manager           pkgsync.Manager
	statusPersistence status.StatusPersistence
	jobs              int
	progress          ProgressFunc
	now               func() time.Time

	mu   sync.Mutex
	done int
}

// New creates a new coordinator with injected dependencies
func New(manager pkgsync.Manager, statusPersistence status.StatusPersistence, opts ...Option) Coordinator {
	c := &defaultCoordinator{
		manager:           manager,
		statusPersistence: statusPersistence,
		jobs:              DefaultJobs,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run updates all targets with at most jobs updates in flight
func (c *defaultCoordinator) Run(ctx context.Context, targets []*pkgsync.Target) []Outcome {
	outcomes := make([]Outcome, len(targets))
	c.mu.Lock()
	c.done = 0
	c.mu.Unlock()

	var group errgroup.Group
	group.SetLimit(c.jobs)
	for i, target := range targets {
		group.Go(func() error {
			outcomes[i] = c.update(ctx, target)
			c.finished(len(targets))
			return nil
		})
	}
	_ = group.Wait()

	return outcomes
}

// update performs the update of one target and persists its status
func (c *defaultCoordinator) update(ctx context.Context, target *pkgsync.Target) Outcome {
	updateStatus, err := c.statusPersistence.LoadStatus(ctx, target.Name)
	if err != nil {
		slog.Warn("Failed to load update status, starting fresh", "component", target.Name, "error", err)
		updateStatus = &status.UpdateStatus{}
	}

	// Ensure status is persisted at the end, whatever the result
	defer func() {
		if err := c.statusPersistence.SaveStatus(ctx, target.Name, updateStatus); err != nil {
			slog.Error("Failed to persist update status", "component", target.Name, "error", err)
		}
	}()

	updateStatus.Phase = status.UpdatePhaseUpdating
	updateStatus.Message = "Update in progress"
	if err := c.statusPersistence.SaveStatus(ctx, target.Name, updateStatus); err != nil {
		slog.Warn("Failed to persist updating status", "component", target.Name, "error", err)
	}

	if target.LastDigest == "" {
		target.LastDigest = updateStatus.LastDigest
	}

	slog.Debug("Updating component", "component", target.Name, "type", target.Component.Type)
	result, syncErr := c.manager.Update(ctx, target)
	now := c.now()
	if syncErr != nil {
		updateStatus.RecordFailure(now, syncErr)
		slog.Debug("Update failed", "component", target.Name, "reason", syncErr.Reason, "error", syncErr.Err)
		return Outcome{Target: target, Err: syncErr}
	}

	updateStatus.RecordSuccess(now, result.Changed, result.Message)
	if result.Version != "" {
		updateStatus.Version = result.Version
	}
	if result.Digest != "" {
		updateStatus.LastDigest = result.Digest
	}
	return Outcome{Target: target, Result: result}
}

func (c *defaultCoordinator) finished(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done++
	if c.progress != nil {
		c.progress(c.done, total)
	}
}
