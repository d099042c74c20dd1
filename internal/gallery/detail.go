package gallery

import (
	"path"
	"sort"
	"time"

	"project-gallery/internal/filesystem"
	"project-gallery/internal/logging"
	"project-gallery/internal/mediatypes"
	"project-gallery/internal/metrics"
)

// Detail lists the media files of the named project, sorted by path.
//
// The "root" project covers only files placed directly in the base directory.
// Any other name is a slash-separated directory path relative to the base
// directory and covers every media file below it, at any depth. Names that
// do not resolve to a directory inside the base directory yield an empty list.
func Detail(cfg Config, name string) ProjectDetail {
	start := time.Now()

	detail := ProjectDetail{Name: name, Files: make([]MediaFile, 0)}

	dir, prefix, mode, ok := resolveProject(cfg.BaseDir, name)
	if !ok {
		logging.Debug("Rejected project name %q: outside media directory", name)
		recordDetail(start, 0, 0)
		return detail
	}

	var visited int
	for entry := range filesystem.Walk(dir, mode) {
		visited++
		if entry.IsDir {
			continue
		}
		kind := mediatypes.ClassifyName(entry.Name, cfg.VideoEnabled)
		if !mediatypes.IsMedia(kind) {
			continue
		}
		detail.Files = append(detail.Files, MediaFile{
			Path:    path.Join(prefix, entry.Rel),
			IsVideo: kind == mediatypes.KindVideo,
		})
	}

	sort.SliceStable(detail.Files, func(i, j int) bool {
		return detail.Files[i].Path < detail.Files[j].Path
	})

	recordDetail(start, len(detail.Files), visited)
	logging.Debug("Resolved project %q: %d files, %d entries in %v", name, len(detail.Files), visited, time.Since(start))

	return detail
}

// resolveProject maps a project name to the directory to walk, the slash
// prefix that makes walk entries relative to baseDir, and the walk depth.
func resolveProject(baseDir, name string) (dir, prefix string, mode filesystem.Mode, ok bool) {
	if name == RootName {
		return baseDir, "", filesystem.DirectChildren, true
	}

	dir, prefix, ok = filesystem.Join(baseDir, name)
	if !ok {
		return "", "", 0, false
	}
	return dir, prefix, filesystem.AllDescendants, true
}

func recordDetail(start time.Time, files, visited int) {
	metrics.ScannerOperationsTotal.WithLabelValues("detail").Inc()
	metrics.ScannerOperationDuration.WithLabelValues("detail").Observe(time.Since(start).Seconds())
	metrics.ScannerItemsReturned.WithLabelValues("detail").Observe(float64(files))
	metrics.ScannerEntriesVisited.WithLabelValues("detail").Add(float64(visited))
}
