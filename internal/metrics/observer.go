package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"project-gallery/internal/filesystem"
)

// filesystemObserver feeds filesystem events into a set of metric vectors.
// Operation metrics are labelled (volume, operation); retry metrics are
// labelled (operation, volume) like the declarations in metrics.go.
type filesystemObserver struct {
	duration  *prometheus.HistogramVec
	errors    *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	retryTime *prometheus.HistogramVec
	stale     *prometheus.CounterVec
}

// NewFilesystemObserver returns an observer that records into the default
// registry's filesystem metrics. Install it with filesystem.SetObserver.
func NewFilesystemObserver() filesystem.Observer {
	return &filesystemObserver{
		duration:  FilesystemOperationDuration,
		errors:    FilesystemOperationErrors,
		skipped:   FilesystemSkippedEntries,
		attempts:  FilesystemRetryAttempts,
		successes: FilesystemRetrySuccess,
		failures:  FilesystemRetryFailures,
		retryTime: FilesystemRetryDuration,
		stale:     FilesystemStaleErrors,
	}
}

func (o *filesystemObserver) ObserveOperation(volume, operation string, seconds float64, err error) {
	o.duration.WithLabelValues(volume, operation).Observe(seconds)
	if err != nil {
		o.errors.WithLabelValues(volume, operation).Inc()
	}
}

func (o *filesystemObserver) ObserveSkippedEntry(volume, reason string) {
	o.skipped.WithLabelValues(volume, reason).Inc()
}

func (o *filesystemObserver) ObserveRetryAttempt(op, volume string) {
	o.attempts.WithLabelValues(op, volume).Inc()
}

func (o *filesystemObserver) ObserveRetrySuccess(op, volume string) {
	o.successes.WithLabelValues(op, volume).Inc()
}

func (o *filesystemObserver) ObserveRetryFailure(op, volume string) {
	o.failures.WithLabelValues(op, volume).Inc()
}

func (o *filesystemObserver) ObserveRetryDuration(op, volume string, seconds float64) {
	o.retryTime.WithLabelValues(op, volume).Observe(seconds)
}

func (o *filesystemObserver) ObserveStaleError(op, volume string) {
	o.stale.WithLabelValues(op, volume).Inc()
}
