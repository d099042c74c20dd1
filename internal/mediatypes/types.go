package mediatypes

import (
	"path/filepath"
	"strings"
)

// Kind is the media classification of a file.
type Kind string

const (
	// KindImage is a recognized image format.
	KindImage Kind = "image"
	// KindVideo is a recognized video format, reported only when video support is enabled.
	KindVideo Kind = "video"
	// KindUnsupported is anything else, including disabled video formats.
	KindUnsupported Kind = "unsupported"
)

// ImageExtensions maps lowercase extensions (with leading dot) to whether they are images.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// VideoExtensions maps lowercase extensions (with leading dot) to whether they are videos.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".ogg":  true,
	".mov":  true,
}

// MimeTypes maps recognized extensions to their MIME types.
var MimeTypes = map[string]string{
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",

	// Videos
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".ogg":  "video/ogg",
	".mov":  "video/quicktime",
}

// normalizeExt lowercases ext and makes sure it carries a leading dot.
// An empty extension stays empty.
func normalizeExt(ext string) string {
	if ext == "" {
		return ""
	}
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Classify returns the Kind for a file extension. The extension may be given
// with or without its leading dot and is compared case-insensitively.
// Video extensions are KindUnsupported unless videoEnabled is set.
func Classify(ext string, videoEnabled bool) Kind {
	ext = normalizeExt(ext)
	if ImageExtensions[ext] {
		return KindImage
	}
	if videoEnabled && VideoExtensions[ext] {
		return KindVideo
	}
	return KindUnsupported
}

// ClassifyName classifies a file by the final extension of its name.
func ClassifyName(name string, videoEnabled bool) Kind {
	return Classify(filepath.Ext(name), videoEnabled)
}

// IsMedia reports whether k is an image or a video.
func IsMedia(k Kind) bool {
	return k == KindImage || k == KindVideo
}

// MimeType returns the MIME type for an extension, or
// "application/octet-stream" if the extension is not recognized.
func MimeType(ext string) string {
	if mime, ok := MimeTypes[normalizeExt(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}
