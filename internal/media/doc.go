// Package media renders thumbnails of gallery images.
//
// ThumbnailGenerator decodes JPEG, PNG, GIF and WebP sources with
// disintegration/imaging, honouring EXIF orientation and downscaling very
// large images before fitting them into a square. Generation is bounded by a
// workers.Limiter. Results are not cached; each thumbnail carries a strong
// ETag derived from the source file's name, size and modification time so
// that clients can revalidate cheaply.
//
// Placeholder renders the gray image served for projects without a preview.
package media
