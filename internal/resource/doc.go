// Package resource implements the admission controller behind sparse.Archive.
//
// The Controller manages three budgets for store requests:
//
//   - Memory: encoded bytes held by in-flight requests (weighted semaphore)
//   - Concurrency: store requests in flight, plus a request rate limit
//   - IO: bytes per second moved to and from the store (token bucket)
//
// # Memory Management
//
// AcquireMemory blocks until the reservation fits. A reservation larger
// than the whole limit is clamped to it, so the request runs alone:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//
//	n, err := rc.AcquireMemory(ctx, int64(len(blob)))
//	if err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(n)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
