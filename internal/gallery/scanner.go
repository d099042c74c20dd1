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

// Scan walks cfg.BaseDir and returns every project it finds, sorted by name.
//
// The base directory is reported as the "root" project when it directly holds
// media. Every directory below it, at any depth, becomes a project of its own
// when it directly holds media, so a directory and its descendants can all
// appear. A missing base directory yields an empty list.
func Scan(cfg Config) []Project {
	start := time.Now()
	var visited int

	projects := make([]Project, 0)

	preview, ok, n := inspectDir(cfg.BaseDir, "", cfg.VideoEnabled)
	visited += n
	if ok {
		projects = append(projects, Project{Name: RootName, Preview: preview})
	}

	for entry := range filesystem.Walk(cfg.BaseDir, filesystem.AllDescendants) {
		visited++
		if !entry.IsDir {
			continue
		}
		preview, ok, n := inspectDir(entry.Path, entry.Rel, cfg.VideoEnabled)
		visited += n
		if ok {
			projects = append(projects, Project{Name: entry.Rel, Preview: preview})
		}
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Name < projects[j].Name
	})

	duration := time.Since(start)
	metrics.ScannerOperationsTotal.WithLabelValues("scan").Inc()
	metrics.ScannerOperationDuration.WithLabelValues("scan").Observe(duration.Seconds())
	metrics.ScannerItemsReturned.WithLabelValues("scan").Observe(float64(len(projects)))
	metrics.ScannerEntriesVisited.WithLabelValues("scan").Add(float64(visited))
	metrics.ProjectsFound.Set(float64(len(projects)))

	logging.Debug("Scanned %s: %d projects, %d entries in %v", cfg.BaseDir, len(projects), visited, duration)

	return projects
}

// inspectDir looks at the direct children of dir. It reports whether any of
// them is media and returns the preview: the smallest image file name joined
// onto rel, or the placeholder when dir holds only videos. The third result
// is the number of entries visited.
func inspectDir(dir, rel string, videoEnabled bool) (string, bool, int) {
	var (
		hasMedia bool
		smallest string
		visited  int
	)

	for entry := range filesystem.Walk(dir, filesystem.DirectChildren) {
		visited++
		if entry.IsDir {
			continue
		}
		kind := mediatypes.ClassifyName(entry.Name, videoEnabled)
		if !mediatypes.IsMedia(kind) {
			continue
		}
		hasMedia = true
		if kind == mediatypes.KindImage && (smallest == "" || entry.Name < smallest) {
			smallest = entry.Name
		}
	}

	if !hasMedia {
		return "", false, visited
	}
	if smallest == "" {
		return PlaceholderPreview, true, visited
	}
	return path.Join(rel, smallest), true, visited
}
