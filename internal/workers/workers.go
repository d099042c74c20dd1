package workers

import (
	"context"
	"os"
	"runtime"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// OverrideEnv names the environment variable that pins the worker count.
const OverrideEnv = "GALLERY_THUMBNAIL_WORKERS"

// Count returns the number of workers for a task type, based on GOMAXPROCS
// so that container CPU limits are respected.
//
// multiplier scales the CPU count (1.0 for CPU-bound work, more for work that
// waits on I/O). limit caps the result; 0 means no cap. A positive integer in
// GALLERY_THUMBNAIL_WORKERS replaces the computed value, still subject to limit.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(OverrideEnv); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			return capAt(count, limit)
		}
	}

	workers := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if workers < 1 {
		workers = 1
	}
	return capAt(workers, limit)
}

func capAt(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

// ForCPU returns the worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// Limiter bounds how many callers may run a section of code at once.
// Request handlers use it to keep image decoding from saturating the CPU.
type Limiter struct {
	sem   *semaphore.Weighted
	size  int
	inUse atomic.Int64
}

// NewLimiter returns a Limiter admitting at most size concurrent holders.
// A size below 1 is treated as 1.
func NewLimiter(size int) *Limiter {
	if size < 1 {
		size = 1
	}
	return &Limiter{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// Acquire blocks until a slot is free or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	l.inUse.Add(1)
	return nil
}

// TryAcquire takes a slot without blocking and reports whether it succeeded.
func (l *Limiter) TryAcquire() bool {
	if !l.sem.TryAcquire(1) {
		return false
	}
	l.inUse.Add(1)
	return true
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *Limiter) Release() {
	l.inUse.Add(-1)
	l.sem.Release(1)
}

// Size returns the maximum number of concurrent holders.
func (l *Limiter) Size() int {
	return l.size
}

// InUse returns the number of slots currently held.
func (l *Limiter) InUse() int {
	return int(l.inUse.Load())
}
