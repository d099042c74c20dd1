package filesystem

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"project-gallery/internal/logging"
)

// Mode selects how far Walk descends below its root.
type Mode int

const (
	// DirectChildren yields only entries at depth exactly 1.
	DirectChildren Mode = iota
	// AllDescendants yields every entry below the root, at any depth.
	AllDescendants
)

// String returns the name of the walk mode.
func (m Mode) String() string {
	switch m {
	case DirectChildren:
		return "direct"
	case AllDescendants:
		return "recursive"
	default:
		return "unknown"
	}
}

// Entry is a directory or regular file found by Walk.
type Entry struct {
	// Path is the OS path of the entry, built by joining names onto the walk root.
	Path string
	// Rel is the slash-separated path of the entry relative to the walk root.
	Rel string
	// Name is the final path element.
	Name string
	// IsDir is true for directories, including symlinks that resolve to one.
	IsDir bool
}

// Walk returns a lazy sequence of the directories and regular files below root.
//
// Symbolic links are followed. A symlinked directory that resolves to one of
// its own ancestors is skipped rather than descended into again. Entries that
// cannot be read are skipped and reported to the Observer; the walk itself never
// fails. A root that is missing or is not a directory yields nothing.
//
// Within a directory, entries are produced in name order.
func Walk(root string, mode Mode) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		w := &walker{
			mode:  mode,
			retry: DefaultRetryConfig(),
		}

		info, err := StatWithRetry(root, w.retry)
		if err != nil || !info.IsDir() {
			return
		}

		w.walkDir(root, "", []os.FileInfo{info}, yield)
	}
}

type walker struct {
	mode  Mode
	retry RetryConfig
}

// walkDir yields the entries of dir and, in AllDescendants mode, recurses into
// subdirectories. ancestors holds the resolved info of dir and every directory
// above it. It returns false once the consumer has stopped iterating.
func (w *walker) walkDir(dir, rel string, ancestors []os.FileInfo, yield func(Entry) bool) bool {
	entries, err := ReadDirWithRetry(dir, w.retry)
	if err != nil {
		// Keep whatever was read before the failure.
		logging.Debug("walk: skipping unreadable directory %s: %v", dir, err)
		observe().ObserveSkippedEntry(w.retry.resolveVolume(dir), "readdir")
	}

	for _, de := range entries {
		path := filepath.Join(dir, de.Name())
		entryRel := de.Name()
		if rel != "" {
			entryRel = rel + "/" + de.Name()
		}

		info, ok := w.resolve(path, de)
		if !ok {
			continue
		}

		switch {
		case info.IsDir():
			if isAncestor(info, ancestors) {
				logging.Debug("walk: skipping symlink cycle at %s", path)
				observe().ObserveSkippedEntry(w.retry.resolveVolume(path), "cycle")
				continue
			}
			if !yield(Entry{Path: path, Rel: entryRel, Name: de.Name(), IsDir: true}) {
				return false
			}
			if w.mode == AllDescendants {
				if !w.walkDir(path, entryRel, append(ancestors, info), yield) {
					return false
				}
			}

		case info.Mode().IsRegular():
			if !yield(Entry{Path: path, Rel: entryRel, Name: de.Name()}) {
				return false
			}
		}
	}

	return true
}

// resolve returns the info of the entry, following symlinks.
func (w *walker) resolve(path string, de fs.DirEntry) (os.FileInfo, bool) {
	var (
		info os.FileInfo
		err  error
	)
	if de.Type()&fs.ModeSymlink != 0 {
		info, err = StatWithRetry(path, w.retry)
	} else {
		info, err = de.Info()
	}
	if err != nil {
		logging.Debug("walk: skipping unreadable entry %s: %v", path, err)
		observe().ObserveSkippedEntry(w.retry.resolveVolume(path), "stat")
		return nil, false
	}
	return info, true
}

func isAncestor(info os.FileInfo, ancestors []os.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(info, a) {
			return true
		}
	}
	return false
}
