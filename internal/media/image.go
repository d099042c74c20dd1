package media

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support

	"project-gallery/internal/filesystem"
	"project-gallery/internal/logging"
)

const (
	// MaxImageDimension is the largest width or height kept after decoding.
	// Larger images are downscaled before thumbnailing.
	MaxImageDimension = 4096

	// MaxImagePixels is the pixel budget for a decoded image (~80MB as RGBA).
	MaxImagePixels = 20_000_000

	// MaxDecodePixels is the largest image that is decoded at all. Anything
	// bigger is rejected from its header alone.
	MaxDecodePixels = 150_000_000
)

// ErrTooLarge is returned for images whose header exceeds MaxDecodePixels.
var ErrTooLarge = errors.New("image too large to decode")

// ImageDimensions holds image width and height
type ImageDimensions struct {
	Width  int
	Height int
}

// Pixels returns the total pixel count.
func (d ImageDimensions) Pixels() int {
	return d.Width * d.Height
}

// constrain returns the size d should be scaled to so that neither side
// exceeds maxDimension and the area stays within maxPixels. The aspect ratio
// is kept; the result equals d when no scaling is needed.
func (d ImageDimensions) constrain(maxDimension, maxPixels int) ImageDimensions {
	w, h := d.Width, d.Height
	if w > maxDimension || h > maxDimension {
		if w >= h {
			h = h * maxDimension / w
			w = maxDimension
		} else {
			w = w * maxDimension / h
			h = maxDimension
		}
	}
	if w*h > maxPixels {
		scale := float64(maxPixels) / float64(w*h)
		// Area scales with the square of each side.
		side := math.Sqrt(scale)
		w = int(float64(w) * side)
		h = int(float64(h) * side)
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return ImageDimensions{Width: w, Height: h}
}

// LoadImageConstrained decodes the image at path, applying EXIF orientation,
// and downscales it when it exceeds maxDimension or maxPixels.
func LoadImageConstrained(path string, maxDimension, maxPixels int) (image.Image, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("reading image header: %w", err)
	}
	dims := ImageDimensions{Width: cfg.Width, Height: cfg.Height}
	logging.Debug("Image %s: %s %dx%d (%d pixels)", path, format, dims.Width, dims.Height, dims.Pixels())

	if dims.Pixels() > MaxDecodePixels {
		return nil, fmt.Errorf("%s is %dx%d: %w", path, dims.Width, dims.Height, ErrTooLarge)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding image: %w", err)
	}

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	// Orientation may have swapped the sides, so constrain the decoded bounds.
	b := img.Bounds()
	decoded := ImageDimensions{Width: b.Dx(), Height: b.Dy()}
	target := decoded.constrain(maxDimension, maxPixels)
	if target == decoded {
		return img, nil
	}

	logging.Debug("Constraining large image %s from %dx%d to %dx%d", path, decoded.Width, decoded.Height, target.Width, target.Height)
	return imaging.Resize(img, target.Width, target.Height, imaging.Lanczos), nil
}

// GetImageDimensions returns image dimensions without fully decoding the image
func GetImageDimensions(path string) (ImageDimensions, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return ImageDimensions{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return ImageDimensions{}, err
	}
	return ImageDimensions{Width: cfg.Width, Height: cfg.Height}, nil
}
