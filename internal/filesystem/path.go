package filesystem

import (
	"path"
	"path/filepath"
	"strings"
)

// Join resolves the slash-separated relative path rel against base. It
// returns the OS path and the cleaned form of rel, or ok=false when rel is
// empty, absolute, or climbs out of base through ".." segments.
//
// Only the names are checked. A symlink inside base may still point
// elsewhere; the gallery follows symlinks deliberately.
func Join(base, rel string) (full, clean string, ok bool) {
	if rel == "" || path.IsAbs(rel) || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", "", false
	}
	if strings.ContainsRune(rel, '\x00') {
		return "", "", false
	}

	clean = path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", "", false
	}

	return filepath.Join(base, filepath.FromSlash(clean)), clean, true
}
