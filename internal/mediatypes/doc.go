// Package mediatypes classifies files by extension for the gallery.
//
// It has no dependencies beyond the standard library so that every other
// package can import it without creating cycles.
//
// # Classification
//
// Classify maps an extension to a Kind. Comparison is case-insensitive and
// the leading dot is optional:
//
//	mediatypes.Classify(".JPG", false) // KindImage
//	mediatypes.Classify("mp4", false)  // KindUnsupported
//	mediatypes.Classify("mp4", true)   // KindVideo
//
// Recognized images are jpg, jpeg, png, gif and webp. Recognized videos are
// mp4, webm, ogg and mov, and only count as media when video support is on.
//
// # MIME Types
//
// MimeType returns the Content-Type used when a file is served or referenced
// from a <source> element:
//
//	mediatypes.MimeType(".webm") // "video/webm"
package mediatypes
