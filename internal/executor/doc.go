// Package executor fans a task out across Docker endpoints with bounded
// concurrency.
//
// Each task is bound to one endpoint and returns a typed value. Results come
// back in submission order, one per task, with failures captured in the
// result instead of stopping the other tasks:
//
//	results := executor.Run(ctx, 5, []string{"prod", "staging"}, logger,
//	    func(ctx context.Context, endpoint string) (monitor.Snapshot, error) {
//	        return snapshotOf(ctx, endpoint)
//	    })
//
//	for _, r := range results {
//	    if r.Error != nil {
//	        logger.Warn("endpoint failed", "endpoint", r.Endpoint, "error", r.Error)
//	    }
//	}
//
// Tasks that never started because the context was cancelled are reported
// with a wrapped ctx.Err().
package executor
