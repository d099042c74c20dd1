/*
Package workers sizes and bounds concurrent work.

Container CPU limits are reflected in GOMAXPROCS (Go 1.19+) but not in
runtime.NumCPU, which reports the host. Count and ForCPU derive worker
counts from GOMAXPROCS:

	// Pod limited to 2 CPUs on a 64-core node: returns 2, not 64.
	n := workers.ForCPU(4)

Set GALLERY_THUMBNAIL_WORKERS to pin the count explicitly.

Limiter is a counting semaphore built on golang.org/x/sync/semaphore. The
thumbnail handler acquires a slot per request so that at most Size images
are decoded at once; waiting requests give up when their context ends:

	lim := workers.NewLimiter(workers.ForCPU(4))
	if err := lim.Acquire(r.Context()); err != nil {
		return err
	}
	defer lim.Release()
*/
package workers
