/*
Package filesystem provides directory traversal and resilient filesystem
operations with automatic retry logic for NFS stale file handle errors.

# Traversal

Walk yields the directories and regular files below a root as a lazy
sequence. It has two explicit modes:

	for e := range filesystem.Walk(dir, filesystem.DirectChildren) {
	    // depth exactly 1
	}

	for e := range filesystem.Walk(dir, filesystem.AllDescendants) {
	    // every entry at any depth
	}

Symbolic links are followed, with a guard against links that point back at
one of their own ancestors. Entries that cannot be read (permission errors,
broken links, files removed mid-walk) are left out of the sequence and
reported to the Observer; a walk never fails as a whole. A root that does not
exist yields nothing.

# Retry Behavior

StatWithRetry, OpenWithRetry and ReadDirWithRetry wrap the os functions with
exponential backoff for ESTALE (errno 116):
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

All other errors fail immediately without retry attempts.

# Metrics

The package does not import the metrics package. Call SetObserver once at
startup with metrics.NewFilesystemObserver(), and SetDefaultVolumeResolver
with the configured media directory so that metrics carry a volume label.
*/
package filesystem
