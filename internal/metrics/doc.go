// Package metrics provides Prometheus instrumentation for the project gallery.
//
// All metrics are prefixed with "media_gallery_" and registered with the
// default Prometheus registry through promauto.
//
// # Metric Categories
//
// ## HTTP Metrics
//
// Track request rates, latency and concurrency:
//   - HTTPRequestsTotal: Counter by method, route template, and status
//   - HTTPRequestDuration: Histogram by method and route template
//   - HTTPRequestsInFlight: Gauge of requests currently being served
//
// ## Scanner Metrics
//
// Every project listing and detail resolution walks the media directory
// from scratch, so these are the main signal for slow or oversized trees:
//   - ScannerOperationsTotal: Counter by operation ("scan" or "detail")
//   - ScannerOperationDuration: Histogram by operation
//   - ScannerItemsReturned: Histogram of projects or files per operation
//   - ScannerEntriesVisited: Counter of filesystem entries visited
//   - ProjectsFound: Gauge of projects in the most recent scan
//
// ## Filesystem Metrics
//
// Recorded through the filesystem.Observer returned by NewFilesystemObserver:
//   - FilesystemOperationDuration / FilesystemOperationErrors
//   - FilesystemSkippedEntries: entries dropped during a walk, by reason
//   - FilesystemRetry*: NFS stale handle retry activity
//   - FilesystemStaleErrors: stale handle errors seen
//
// ## Thumbnail Metrics
//
//   - ThumbnailGenerationsTotal: Counter by status
//   - ThumbnailGenerationDuration: Histogram of generation time
//   - ThumbnailsInProgress: Gauge of in-flight generations
//   - ThumbnailNotModified: Counter of 304 responses
//
// ## Memory Metrics
//
// Set by memory.Monitor:
//   - MemoryUsageRatio: heap allocation relative to the memory limit
//   - MemoryPaused: 1 while thumbnail generation is held back
//   - MemoryGCPauses: Counter of pauses
//
// ## Application Info
//
//   - AppInfo: Gauge with version, commit, Go version, and video toggle labels
//
// # Usage
//
// Mount promhttp.Handler() on the metrics listener:
//
//	mux.Handle("/metrics", promhttp.Handler())
package metrics
