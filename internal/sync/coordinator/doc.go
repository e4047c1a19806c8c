// Package coordinator runs the updates of many components.
//
// It sits on top of sync.Manager and handles:
//
//   - bounded concurrency through an errgroup limit
//   - per component status persistence (Updating, then Updated, UpToDate or Failed)
//   - progress reporting after every finished component
//
// # Usage Example
//
//	coord := coordinator.New(manager, status.NewFileStatusPersistence(dir),
//		coordinator.WithJobs(4),
//		coordinator.WithProgress(func(done, total int) { printer.Progress("Updating", done, total) }),
//	)
//	for _, outcome := range coord.Run(ctx, targets) {
//		if outcome.Failed() {
//			// report outcome.Err
//		}
//	}
package coordinator
