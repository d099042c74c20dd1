package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"project-gallery/internal/logging"
	"project-gallery/internal/media"
	"project-gallery/internal/metrics"
)

const thumbnailCacheControl = "public, max-age=86400, must-revalidate"

// GetThumbnail serves a JPEG thumbnail of the image at {path}, relative to
// the media directory.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	rel := mux.Vars(r)["path"]
	logging.Debug("Thumbnail requested: %s", rel)

	if h.thumbGen == nil {
		http.Error(w, "Thumbnails disabled", http.StatusServiceUnavailable)
		return
	}

	src, err := h.thumbGen.Resolve(rel)
	switch {
	case errors.Is(err, media.ErrDisabled):
		http.Error(w, "Thumbnails disabled", http.StatusServiceUnavailable)
		return
	case errors.Is(err, media.ErrNotFound):
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error_not_found").Inc()
		http.Error(w, "File not found", http.StatusNotFound)
		return
	case errors.Is(err, media.ErrUnsupported):
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error_unsupported").Inc()
		http.Error(w, "Thumbnails are only available for images", http.StatusUnsupportedMediaType)
		return
	case err != nil:
		logging.Error("Thumbnail %s: %v", rel, err)
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", src.ETag)
	w.Header().Set("Cache-Control", thumbnailCacheControl)

	if etagMatches(r.Header.Get("If-None-Match"), src.ETag) {
		metrics.ThumbnailNotModified.Inc()
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := h.thumbGen.Generate(r.Context(), src)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logging.Debug("Thumbnail %s abandoned: %v", rel, err)
			http.Error(w, "Request cancelled", http.StatusServiceUnavailable)
			return
		}
		logging.Warn("Thumbnail %s: %v", rel, err)
		w.Header().Del("ETag")
		w.Header().Del("Cache-Control")
		http.Error(w, "Failed to generate thumbnail", http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		if _, err := w.Write(data); err != nil {
			logging.Debug("Thumbnail %s: write failed: %v", rel, err)
		}
	}
}

// etagMatches implements the weak comparison If-None-Match uses.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == strings.TrimPrefix(etag, "W/") {
			return true
		}
	}
	return false
}
