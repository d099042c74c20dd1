package web

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetURL(t *testing.T) {
	tests := []struct {
		prefix string
		rel    string
		want   string
	}{
		{"/img", "a/x.jpg", "/img/a/x.jpg"},
		{"/img/", "a/x.jpg", "/img/a/x.jpg"},
		{"/img", "my trip/day 1.jpg", "/img/my%20trip/day%201.jpg"},
		{"/project", "50%/#1?", "/project/50%25/%231%3F"},
		{"/project", "root", "/project/root"},
		{"/img", "café/ü.png", "/img/caf%C3%A9/%C3%BC.png"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AssetURL(tt.prefix, tt.rel), "AssetURL(%q, %q)", tt.prefix, tt.rel)
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"root":               "Root",
		"summer-trip":        "Summer Trip",
		"2024/beach_day":     "Beach Day",
		"a/sub":              "Sub",
		"  spaced--out  ":    "Spaced Out",
		"already Title Case": "Already Title Case",
	}

	for in, want := range tests {
		assert.Equal(t, want, Title(in), "Title(%q)", in)
	}
}

func TestFuncMap(t *testing.T) {
	fm := FuncMap()

	mime := fm["mime"].(func(string) string)
	assert.Equal(t, "video/mp4", mime("a/clip.MP4"))
	assert.Equal(t, "image/webp", mime("x.webp"))

	parent := fm["parent"].(func(string) string)
	assert.Equal(t, "", parent("a"))
	assert.Equal(t, "a/b", parent("a/b/c"))
}

type project struct {
	Name    string
	Preview string
	preview bool
}

func (p project) HasPreviewImage() bool { return p.preview }

type file struct {
	Path    string
	IsVideo bool
}

func TestRenderIndex(t *testing.T) {
	tpl, err := ParseTemplates()
	require.NoError(t, err)

	data := map[string]interface{}{
		"Projects": []project{
			{Name: "a b", Preview: "a b/x.jpg", preview: true},
			{Name: "clips", Preview: "placeholder.jpg"},
		},
		"Thumbnails": true,
		"Version":    "test",
	}

	w := httptest.NewRecorder()
	require.NoError(t, tpl.Render(w, http.StatusOK, IndexTemplate, data))

	body := w.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, body, `href="/project/a%20b"`)
	assert.Contains(t, body, `src="/thumbnail/a%20b/x.jpg"`)
	assert.Contains(t, body, `src="/img/placeholder.jpg"`)
	assert.Contains(t, body, "2 projects")
}

func TestRenderIndexEmpty(t *testing.T) {
	tpl, err := ParseTemplates()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, tpl.Render(w, http.StatusOK, IndexTemplate, map[string]interface{}{
		"Projects": []project{},
	}))

	assert.Contains(t, w.Body.String(), "No projects found.")
}

func TestRenderProject(t *testing.T) {
	tpl, err := ParseTemplates()
	require.NoError(t, err)

	data := map[string]interface{}{
		"Detail": map[string]interface{}{
			"Name": "trip",
			"Files": []file{
				{Path: "trip/a.jpg"},
				{Path: "trip/b.mp4", IsVideo: true},
			},
		},
		"Images":       1,
		"Videos":       1,
		"VideoEnabled": true,
	}

	w := httptest.NewRecorder()
	require.NoError(t, tpl.Render(w, http.StatusOK, ProjectTemplate, data))

	body := w.Body.String()
	assert.Contains(t, body, "<title>Trip</title>")
	assert.Contains(t, body, `<img src="/img/trip/a.jpg"`)
	assert.Contains(t, body, `<source src="/img/trip/b.mp4" type="video/mp4">`)
	assert.Contains(t, body, "1 images, 1 videos")
}

func TestRenderEscapesNames(t *testing.T) {
	tpl, err := ParseTemplates()
	require.NoError(t, err)

	data := map[string]interface{}{
		"Detail": map[string]interface{}{
			"Name":  "<script>",
			"Files": []file{{Path: "<script>/x.jpg"}},
		},
	}

	w := httptest.NewRecorder()
	require.NoError(t, tpl.Render(w, http.StatusOK, ProjectTemplate, data))

	assert.NotContains(t, w.Body.String(), "<script>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	tpl, err := ParseTemplates()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	err = tpl.Render(w, http.StatusOK, "missing.html", nil)

	assert.Error(t, err)
	assert.Zero(t, w.Body.Len(), "nothing should be written on failure")
}

func TestStatic(t *testing.T) {
	data, err := fs.ReadFile(Static(), "style.css")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), ".grid"))
}
