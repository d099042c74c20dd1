package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"image/jpeg"
	"os"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/crypto/blake2b"

	"project-gallery/internal/filesystem"
	"project-gallery/internal/logging"
	"project-gallery/internal/mediatypes"
	"project-gallery/internal/memory"
	"project-gallery/internal/metrics"
	"project-gallery/internal/workers"
)

// Thumbnail errors, mapped to HTTP statuses by the handlers.
var (
	ErrDisabled    = errors.New("thumbnails disabled")
	ErrNotFound    = errors.New("source image not found")
	ErrUnsupported = errors.New("not a thumbnailable image")
)

const jpegQuality = 80

// placeholderColor is the neutral gray used for the placeholder preview.
var placeholderColor = color.NRGBA{R: 0xd9, G: 0xd9, B: 0xd9, A: 0xff}

// ThumbnailOptions configures a ThumbnailGenerator.
type ThumbnailOptions struct {
	BaseDir string
	// Size is the edge of the square thumbnails fit into.
	Size    int
	Enabled bool
	// Workers bounds concurrent generations; 0 picks workers.ForCPU(4).
	Workers int
	// Memory, if set, holds generations back under memory pressure.
	Memory *memory.Monitor
}

// Source is a resolved thumbnail source file.
type Source struct {
	Path    string
	Rel     string
	ModTime time.Time
	ETag    string
}

// ThumbnailGenerator renders JPEG thumbnails of gallery images on demand.
// Nothing is cached: clients revalidate with the ETag instead.
type ThumbnailGenerator struct {
	baseDir string
	size    int
	enabled bool
	limiter *workers.Limiter
	memory  *memory.Monitor

	placeholderOnce sync.Once
	placeholder     []byte
	placeholderErr  error
}

// NewThumbnailGenerator creates a generator for images below opts.BaseDir.
func NewThumbnailGenerator(opts ThumbnailOptions) *ThumbnailGenerator {
	n := opts.Workers
	if n <= 0 {
		n = workers.ForCPU(4)
	}
	if opts.Enabled {
		logging.Debug("ThumbnailGenerator: enabled, size %d, %d workers", opts.Size, n)
	} else {
		logging.Debug("ThumbnailGenerator: disabled")
	}
	return &ThumbnailGenerator{
		baseDir: opts.BaseDir,
		size:    opts.Size,
		enabled: opts.Enabled,
		limiter: workers.NewLimiter(n),
		memory:  opts.Memory,
	}
}

// IsEnabled reports whether thumbnails are generated.
func (t *ThumbnailGenerator) IsEnabled() bool {
	return t.enabled
}

// Size returns the thumbnail edge length in pixels.
func (t *ThumbnailGenerator) Size() int {
	return t.size
}

// Workers returns the maximum number of concurrent generations.
func (t *ThumbnailGenerator) Workers() int {
	return t.limiter.Size()
}

// Resolve checks that rel names an existing image below the base directory
// and computes its ETag. It does not decode anything.
func (t *ThumbnailGenerator) Resolve(rel string) (*Source, error) {
	if !t.enabled {
		return nil, ErrDisabled
	}

	full, clean, ok := filesystem.Join(t.baseDir, rel)
	if !ok {
		return nil, ErrNotFound
	}

	// Thumbnails are only produced for images, even when video is enabled.
	if mediatypes.ClassifyName(clean, false) != mediatypes.KindImage {
		return nil, ErrUnsupported
	}

	info, err := filesystem.StatWithRetry(full, filesystem.DefaultRetryConfig())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", clean, err)
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotFound
	}

	return &Source{
		Path:    full,
		Rel:     clean,
		ModTime: info.ModTime(),
		ETag:    ETag(clean, info.Size(), info.ModTime(), t.size),
	}, nil
}

// Generate decodes src and returns it as a JPEG fitting in a Size x Size
// square. It waits for memory pressure to clear and for a free worker slot,
// or for ctx to end.
func (t *ThumbnailGenerator) Generate(ctx context.Context, src *Source) ([]byte, error) {
	if t.memory != nil {
		if err := t.memory.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if err := t.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer t.limiter.Release()

	metrics.ThumbnailsInProgress.Inc()
	defer metrics.ThumbnailsInProgress.Dec()

	start := time.Now()
	data, err := t.render(src)
	metrics.ThumbnailGenerationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error_decode").Inc()
		return nil, err
	}
	metrics.ThumbnailGenerationsTotal.WithLabelValues("success").Inc()
	logging.Debug("Thumbnail generated: %s (%d bytes in %v)", src.Rel, len(data), time.Since(start))
	return data, nil
}

func (t *ThumbnailGenerator) render(src *Source) ([]byte, error) {
	img, err := LoadImageConstrained(src.Path, MaxImageDimension, MaxImagePixels)
	if err != nil {
		return nil, fmt.Errorf("thumbnail %s: %w", src.Rel, err)
	}

	thumb := imaging.Fit(img, t.size, t.size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// Placeholder returns the placeholder preview image at the thumbnail size.
// It is rendered once per generator.
func (t *ThumbnailGenerator) Placeholder() ([]byte, error) {
	t.placeholderOnce.Do(func() {
		t.placeholder, t.placeholderErr = Placeholder(t.size)
	})
	return t.placeholder, t.placeholderErr
}

// Placeholder renders a size x size neutral gray JPEG.
func Placeholder(size int) ([]byte, error) {
	if size < 1 {
		return nil, fmt.Errorf("invalid placeholder size %d", size)
	}
	img := imaging.New(size, size, placeholderColor)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

// ETag derives a strong entity tag for the thumbnail of rel. It changes
// whenever the source file's size or modification time changes, or the
// thumbnail size does.
func ETag(rel string, fileSize int64, modTime time.Time, thumbSize int) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(rel))
	h.Write([]byte{0})

	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(fileSize))
	h.Write(b[:])
	binary.BigEndian.PutUint64(b[:], uint64(modTime.UnixNano()))
	h.Write(b[:])
	binary.BigEndian.PutUint64(b[:], uint64(thumbSize))
	h.Write(b[:])

	return `"` + hex.EncodeToString(h.Sum(nil)[:16]) + `"`
}
