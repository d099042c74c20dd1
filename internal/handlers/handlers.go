package handlers

import (
	"net/http"
	"time"

	"project-gallery/internal/gallery"
	"project-gallery/internal/media"
	"project-gallery/internal/startup"
	"project-gallery/web"
)

// Handlers carries the dependencies shared by every handler.
type Handlers struct {
	gallery      gallery.Config
	thumbGen     *media.ThumbnailGenerator
	templates    *web.Templates
	files        http.Handler
	started      time.Time
	version      string
	videoEnabled bool
}

// New creates the handlers for cfg.
func New(cfg *startup.Config, thumbGen *media.ThumbnailGenerator, templates *web.Templates) *Handlers {
	g := cfg.Gallery()
	return &Handlers{
		gallery:      g,
		thumbGen:     thumbGen,
		templates:    templates,
		files:        http.FileServer(http.Dir(g.BaseDir)),
		started:      time.Now(),
		version:      startup.Version,
		videoEnabled: g.VideoEnabled,
	}
}
