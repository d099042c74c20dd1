// Package web holds the embedded HTML templates and static assets of the
// gallery and the helpers used to render them.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"project-gallery/internal/mediatypes"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Template names.
const (
	IndexTemplate   = "index.html"
	ProjectTemplate = "project.html"
)

var titleCaser = cases.Title(language.English)

// AssetURL joins a slash-separated relative path onto prefix, escaping each
// segment so names with spaces, '#' or '?' survive as a single path.
func AssetURL(prefix, rel string) string {
	segments := strings.Split(strings.Trim(rel, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.Join(segments, "/")
}

// Title turns a project name into a display title: the last path element
// with separators replaced by spaces, in title case.
func Title(name string) string {
	base := path.Base(name)
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return titleCaser.String(strings.Join(strings.Fields(base), " "))
}

// FuncMap returns the functions available to the templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"assetURL": AssetURL,
		"title":    Title,
		"mime": func(rel string) string {
			return mediatypes.MimeType(path.Ext(rel))
		},
		"parent": func(name string) string {
			dir := path.Dir(name)
			if dir == "." {
				return ""
			}
			return dir
		},
	}
}

// Templates renders the embedded page templates.
type Templates struct {
	t *template.Template
}

// ParseTemplates parses the embedded templates.
func ParseTemplates() (*Templates, error) {
	t, err := template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Templates{t: t}, nil
}

// Render executes the named template into a buffer and, only if that
// succeeds, writes it to w as HTML with the given status.
func (t *Templates) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := t.t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static returns the embedded static assets rooted at their directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return sub
}
