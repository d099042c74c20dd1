package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, op := range []string{"scan", "detail"} {
		ScannerOperationsTotal.WithLabelValues(op)
		ScannerOperationDuration.WithLabelValues(op)
		ScannerItemsReturned.WithLabelValues(op)
		ScannerEntriesVisited.WithLabelValues(op)
	}

	volumes := []string{"media", "unknown"}
	fsOps := []string{"stat", "open", "readdir"}

	for _, vol := range volumes {
		for _, op := range fsOps {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
		for _, reason := range []string{"readdir", "stat", "cycle"} {
			FilesystemSkippedEntries.WithLabelValues(vol, reason)
		}
	}

	for _, status := range []string{"success", "error", "error_not_found", "error_unsupported", "error_decode"} {
		ThumbnailGenerationsTotal.WithLabelValues(status)
	}
}
