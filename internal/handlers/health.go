package handlers

import (
	"net/http"
	"runtime"
	"time"

	"project-gallery/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Ready      bool   `json:"ready"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	MediaDir   string `json:"mediaDir"`
	MediaError string `json:"mediaError,omitempty"`

	VideoEnabled      bool `json:"videoEnabled"`
	ThumbnailsEnabled bool `json:"thumbnailsEnabled"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports the service state. A missing media directory makes the
// service degraded, not unhealthy: it still serves an empty gallery.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:            statusHealthy,
		Ready:             true,
		Version:           h.version,
		Uptime:            time.Since(h.started).Round(time.Second).String(),
		MediaDir:          h.gallery.BaseDir,
		VideoEnabled:      h.videoEnabled,
		ThumbnailsEnabled: h.thumbGen != nil && h.thumbGen.IsEnabled(),
		GoVersion:         runtime.Version(),
		NumCPU:            runtime.NumCPU(),
		NumGoroutine:      runtime.NumGoroutine(),
	}

	if err := startup.CheckMediaDir(h.gallery.BaseDir); err != nil {
		response.Status = statusDegraded
		response.Ready = false
		response.MediaError = err.Error()
	}

	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSONResponse(w, http.StatusOK, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSONStatus(w, http.StatusOK, "alive")
}

// ReadinessCheck returns 200 only when the media directory can be read.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if err := startup.CheckMediaDir(h.gallery.BaseDir); err != nil {
		writeJSONStatus(w, http.StatusServiceUnavailable, "not_ready")
		return
	}
	writeJSONStatus(w, http.StatusOK, "ready")
}
