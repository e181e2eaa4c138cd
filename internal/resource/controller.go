package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits. Zero values disable the respective limit.
type Config struct {
	// MemoryLimitBytes bounds the encoded bytes held by in-flight requests.
	MemoryLimitBytes int64

	// MaxConcurrentRequests bounds the number of store requests in flight.
	MaxConcurrentRequests int64

	// RequestsPerSec and RequestBurst throttle store requests.
	RequestsPerSec float64
	RequestBurst   int

	// IOLimitBytesPerSec throttles the bytes moved to and from the store.
	IOLimitBytesPerSec int64
}

// Controller manages the memory, concurrency and IO budget of store
// requests.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Concurrency
	reqSem *semaphore.Weighted // nil if unlimited

	// Rate
	reqLimiter *rate.Limiter
	ioLimiter  *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.MaxConcurrentRequests > 0 {
		c.reqSem = semaphore.NewWeighted(cfg.MaxConcurrentRequests)
	}
	if cfg.RequestsPerSec > 0 {
		c.reqLimiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), max(cfg.RequestBurst, 1))
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// clampMemory caps a reservation at the limit so a single request larger
// than the whole budget runs alone instead of blocking forever.
func (c *Controller) clampMemory(bytes int64) int64 {
	if c.memSem != nil && bytes > c.cfg.MemoryLimitBytes {
		return c.cfg.MemoryLimitBytes
	}
	return bytes
}

// AcquireMemory blocks until bytes can be reserved or ctx is done. It
// returns the reserved amount, which must be passed to ReleaseMemory.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) (int64, error) {
	if c == nil || bytes <= 0 {
		return 0, nil
	}
	bytes = c.clampMemory(bytes)
	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return 0, err
		}
	}
	c.memUsed.Add(bytes)
	return bytes, nil
}

// TryAcquireMemory reserves bytes without blocking.
func (c *Controller) TryAcquireMemory(bytes int64) (int64, bool) {
	if c == nil || bytes <= 0 {
		return 0, true
	}
	bytes = c.clampMemory(bytes)
	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return 0, false
	}
	c.memUsed.Add(bytes)
	return bytes, true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AcquireRequest waits for a request slot and a rate token. The returned
// release function must be called when the request completes.
func (c *Controller) AcquireRequest(ctx context.Context) (release func(), err error) {
	if c == nil {
		return func() {}, nil
	}
	if c.reqLimiter != nil {
		if err := c.reqLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if c.reqSem == nil {
		return func() {}, nil
	}
	if err := c.reqSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { c.reqSem.Release(1) }, nil
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests larger than one second of budget are split.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return ctx.Err()
}
