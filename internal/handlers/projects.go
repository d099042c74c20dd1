package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"project-gallery/internal/filesystem"
	"project-gallery/internal/gallery"
	"project-gallery/internal/logging"
	"project-gallery/web"
)

// IndexPage is the data of the listing page.
type IndexPage struct {
	Projects   []gallery.Project
	Thumbnails bool
	Version    string
}

// ProjectPage is the data of the project detail page.
type ProjectPage struct {
	Detail       gallery.ProjectDetail
	Images       int
	Videos       int
	VideoEnabled bool
	Version      string
}

// validProjectName reports whether name can address a project: the root
// sentinel or a relative path that stays inside the media directory.
func validProjectName(name string) bool {
	if name == gallery.RootName {
		return true
	}
	_, _, ok := filesystem.Join("/", name)
	return ok
}

// projectName returns the decoded {name} route variable, writing a 400 and
// returning false when it cannot name a project.
func projectName(w http.ResponseWriter, r *http.Request, jsonErrors bool) (string, bool) {
	name := mux.Vars(r)["name"]
	if validProjectName(name) {
		return name, true
	}
	logging.Debug("Rejected project name %q", name)
	if jsonErrors {
		writeJSONError(w, "invalid project name", http.StatusBadRequest)
	} else {
		http.Error(w, "Invalid project name", http.StatusBadRequest)
	}
	return "", false
}

func (h *Handlers) thumbnailsEnabled() bool {
	return h.thumbGen != nil && h.thumbGen.IsEnabled()
}

// Index renders the project listing.
func (h *Handlers) Index(w http.ResponseWriter, _ *http.Request) {
	page := IndexPage{
		Projects:   gallery.Scan(h.gallery),
		Thumbnails: h.thumbnailsEnabled(),
		Version:    h.version,
	}
	if err := h.templates.Render(w, http.StatusOK, web.IndexTemplate, page); err != nil {
		logging.Error("Index: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// Project renders the media of one project. A project without media still
// renders, showing an empty state.
func (h *Handlers) Project(w http.ResponseWriter, r *http.Request) {
	name, ok := projectName(w, r, false)
	if !ok {
		return
	}

	detail := gallery.Detail(h.gallery, name)
	images, videos := detail.Counts()
	page := ProjectPage{
		Detail:       detail,
		Images:       images,
		Videos:       videos,
		VideoEnabled: h.videoEnabled,
		Version:      h.version,
	}
	if err := h.templates.Render(w, http.StatusOK, web.ProjectTemplate, page); err != nil {
		logging.Error("Project %q: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// ListProjects returns the project listing as JSON.
func (h *Handlers) ListProjects(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSONResponse(w, http.StatusOK, gallery.Scan(h.gallery))
}

// GetProject returns the media of one project as JSON. Unknown projects
// yield an empty file list, the same as the detail page.
func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	name, ok := projectName(w, r, true)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	writeJSONResponse(w, http.StatusOK, gallery.Detail(h.gallery, name))
}
