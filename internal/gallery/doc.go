// Package gallery discovers projects in a media directory tree.
//
// A project is a directory that directly contains at least one recognized
// media file. The base directory itself takes part under the name "root".
// Scan produces the listing of projects with a preview image for each, and
// Detail produces the sorted media listing of a single project.
//
// Both functions read the filesystem from scratch on every call and keep no
// state between calls, so they are safe to call concurrently. Filesystem
// problems never surface as errors: unreadable entries are skipped, a missing
// directory is treated as empty, and a project without images gets the
// "placeholder.jpg" preview.
//
// A real subdirectory named "root" cannot be addressed through Detail, since
// the name always refers to the base directory. Scan still lists it.
package gallery
