package gallery

const (
	// RootName is the project name used for media placed directly in the base directory.
	RootName = "root"
	// PlaceholderPreview is the preview of a project that has no image of its own.
	PlaceholderPreview = "placeholder.jpg"
)

// Config is the immutable scanner configuration passed into every call.
type Config struct {
	// BaseDir is the root of the scanned tree.
	BaseDir string
	// VideoEnabled makes video files count as media.
	VideoEnabled bool
}

// Project is a directory that directly holds at least one media file.
type Project struct {
	Name    string `json:"name"`
	Preview string `json:"preview"`
}

// MediaFile is a single image or video belonging to a project.
type MediaFile struct {
	Path    string `json:"path"`
	IsVideo bool   `json:"isVideo"`
}

// ProjectDetail lists the media files of one project.
type ProjectDetail struct {
	Name  string      `json:"name"`
	Files []MediaFile `json:"files"`
}

// IsRoot reports whether the project is the base directory itself.
func (p Project) IsRoot() bool {
	return p.Name == RootName
}

// HasPreviewImage reports whether the preview points at a real image rather
// than the placeholder.
func (p Project) HasPreviewImage() bool {
	return p.Preview != PlaceholderPreview
}

// Counts returns the number of images and videos in the listing.
func (d ProjectDetail) Counts() (images, videos int) {
	for _, f := range d.Files {
		if f.IsVideo {
			videos++
		} else {
			images++
		}
	}
	return images, videos
}
