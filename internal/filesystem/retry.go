// Package filesystem provides directory traversal and filesystem operations with retry logic for NFS
package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"project-gallery/internal/logging"
)

// VolumeResolver maps file paths to known volume names for metric labeling.
// It uses longest-prefix matching on absolute paths.
type VolumeResolver struct {
	// mounts is sorted by path length descending for longest-prefix matching
	mounts []volumeMount
}

type volumeMount struct {
	path string // absolute path with trailing slash (e.g., "/srv/img/")
	name string // volume label (e.g., "media")
}

// NewVolumeResolver creates a resolver from a map of volume name → absolute path.
// Example:
//
//	NewVolumeResolver(map[string]string{
//	    "media": "/srv/img",
//	})
func NewVolumeResolver(volumes map[string]string) *VolumeResolver {
	mounts := make([]volumeMount, 0, len(volumes))
	for name, path := range volumes {
		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}
		if !strings.HasSuffix(absPath, "/") {
			absPath += "/"
		}
		mounts = append(mounts, volumeMount{path: absPath, name: name})
	}

	// Longest (most specific) prefix first
	sort.Slice(mounts, func(i, j int) bool {
		return len(mounts[i].path) > len(mounts[j].path)
	})

	return &VolumeResolver{mounts: mounts}
}

// Resolve returns the volume name for a given file path.
// Returns "unknown" if the path doesn't match any configured volume.
func (vr *VolumeResolver) Resolve(path string) string {
	if vr == nil {
		return "unknown"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "unknown"
	}

	for _, mount := range vr.mounts {
		if strings.HasPrefix(absPath+"/", mount.path) {
			return mount.name
		}
	}

	return "unknown"
}

// defaultResolver is the package-level resolver set at startup
var defaultResolver *VolumeResolver

// SetDefaultVolumeResolver sets the package-level volume resolver.
// Call this once at startup after loading configuration.
func SetDefaultVolumeResolver(vr *VolumeResolver) {
	defaultResolver = vr
}

// RetryConfig bounds how often an operation that hit a stale file handle is
// retried, and how long to wait in between. Backoff doubles per attempt.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// VolumeResolver labels metrics for this call; nil uses the default.
	VolumeResolver *VolumeResolver
}

// DefaultRetryConfig allows three retries, 50ms to 500ms apart.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

func (c *RetryConfig) resolveVolume(path string) string {
	if c.VolumeResolver != nil {
		return c.VolumeResolver.Resolve(path)
	}
	return defaultResolver.Resolve(path)
}

// backoff returns the wait before retry number attempt (0-based).
func (c *RetryConfig) backoff(attempt int) time.Duration {
	d := c.InitialBackoff
	for i := 0; i < attempt && d < c.MaxBackoff; i++ {
		d *= 2
	}
	return min(d, c.MaxBackoff)
}

// isStale reports whether err is ESTALE, which a media directory on NFS
// returns when a file was replaced on the server after we looked it up.
func isStale(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.ESTALE
}

// withRetry calls fn until it succeeds, fails with anything but ESTALE, or
// the retries are used up. op labels logs and metrics.
func withRetry[T any](op, path string, config RetryConfig, fn func() (T, error)) (T, error) {
	start := time.Now()
	volume := config.resolveVolume(path)
	obs := observe()

	result, err := fn()
	for attempt := 0; err != nil && isStale(err); attempt++ {
		obs.ObserveStaleError(op, volume)
		if attempt == config.MaxRetries {
			logging.Warn("%s %s: still stale after %d retries: %v", op, path, attempt, err)
			obs.ObserveRetryFailure(op, volume)
			obs.ObserveRetryDuration(op, volume, time.Since(start).Seconds())
			break
		}

		wait := config.backoff(attempt)
		obs.ObserveRetryAttempt(op, volume)
		logging.Debug("%s %s: stale file handle, retry %d/%d in %v", op, path, attempt+1, config.MaxRetries, wait)
		time.Sleep(wait)

		result, err = fn()
		if err == nil {
			logging.Info("%s %s: succeeded on retry %d", op, path, attempt+1)
			obs.ObserveRetrySuccess(op, volume)
		}
	}

	obs.ObserveOperation(volume, op, time.Since(start).Seconds(), err)
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// StatWithRetry performs os.Stat with retry logic for NFS stale file handle errors
func StatWithRetry(path string, config RetryConfig) (os.FileInfo, error) {
	return withRetry("stat", path, config, func() (os.FileInfo, error) {
		return os.Stat(path)
	})
}

// OpenWithRetry performs os.Open with retry logic for NFS stale file handle errors
func OpenWithRetry(path string, config RetryConfig) (*os.File, error) {
	return withRetry("open", path, config, func() (*os.File, error) {
		return os.Open(path)
	})
}

// ReadDirWithRetry performs os.ReadDir with retry logic for NFS stale file handle errors.
// Like os.ReadDir, it returns the entries read before a non-retryable failure
// together with the error.
func ReadDirWithRetry(path string, config RetryConfig) ([]os.DirEntry, error) {
	var partial []os.DirEntry
	entries, err := withRetry("readdir", path, config, func() ([]os.DirEntry, error) {
		entries, err := os.ReadDir(path)
		if err != nil {
			partial = entries
		}
		return entries, err
	})
	if err != nil {
		return partial, err
	}
	return entries, nil
}
