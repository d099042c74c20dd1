// Package startup loads the gallery configuration and writes the structured
// startup and shutdown log.
//
// Configuration is read through viper from, in order of precedence, bound
// command-line flags, GALLERY_* environment variables, an optional YAML file
// and built-in defaults. LoadConfig validates the result and resolves the
// media directory to an absolute path.
//
// Build metadata (Version, Commit, BuildTime) is injected with -ldflags:
//
//	go build -ldflags "-X project-gallery/internal/startup.Version=1.0.0"
package startup
