package handlers

import (
	"bytes"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"project-gallery/internal/gallery"
	"project-gallery/internal/logging"
)

// MediaPrefix is the URL prefix media files are served under.
const MediaPrefix = "/img"

// ServeMedia serves files from the media directory under MediaPrefix, with
// directory listings. A request for the placeholder preview that has no file
// of that name on disk gets a generated gray image instead of a 404.
func (h *Handlers) ServeMedia() http.Handler {
	files := http.StripPrefix(MediaPrefix, h.files)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(r.URL.Path, MediaPrefix+"/")
		if path.Clean(rel) == gallery.PlaceholderPreview && h.thumbGen != nil {
			full := filepath.Join(h.gallery.BaseDir, gallery.PlaceholderPreview)
			if _, err := os.Stat(full); errors.Is(err, fs.ErrNotExist) {
				h.servePlaceholder(w, r)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

func (h *Handlers) servePlaceholder(w http.ResponseWriter, r *http.Request) {
	data, err := h.thumbGen.Placeholder()
	if err != nil {
		logging.Error("placeholder: %v", err)
		http.Error(w, "Failed to render placeholder", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, gallery.PlaceholderPreview, time.Time{}, bytes.NewReader(data))
}

// ServeStatic serves the embedded stylesheet and other assets from fsys.
func ServeStatic(prefix string, fsys fs.FS) http.Handler {
	return http.StripPrefix(prefix, http.FileServerFS(fsys))
}
