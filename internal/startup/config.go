package startup

import (
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"project-gallery/internal/gallery"
	"project-gallery/internal/logging"
)

// EnvPrefix is prepended to every configuration key when read from the
// environment, e.g. GALLERY_MEDIA_DIR.
const EnvPrefix = "GALLERY"

// Configuration keys.
const (
	KeyMediaDir          = "media_dir"
	KeyVideoEnabled      = "video_enabled"
	KeyBind              = "bind"
	KeyPort              = "port"
	KeyMetricsPort       = "metrics_port"
	KeyMetricsEnabled    = "metrics_enabled"
	KeyThumbnailsEnabled = "thumbnails_enabled"
	KeyThumbnailSize     = "thumbnail_size"
	KeyLogStaticFiles    = "log_static_files"
	KeyLogHealthChecks   = "log_health_checks"
	KeyLogLevel          = "log_level"
	KeyMemoryLimit       = "memory_limit"
	KeyMemoryRatio       = "memory_ratio"
)

const (
	minThumbnailSize = 16
	maxThumbnailSize = 2048
)

// Config holds all application configuration
type Config struct {
	MediaDir          string
	VideoEnabled      bool
	Bind              string
	Port              string
	MetricsPort       string
	MetricsEnabled    bool
	ThumbnailsEnabled bool
	ThumbnailSize     int
	LogStaticFiles    bool
	LogHealthChecks   bool
	LogLevel          string

	// MemoryLimit is the container memory limit in bytes, 0 if unknown.
	MemoryLimit int64
	MemoryRatio float64

	// ConfigFile is the file the values were read from, if any.
	ConfigFile string
}

// Gallery returns the scanner configuration derived from c.
func (c *Config) Gallery() gallery.Config {
	return gallery.Config{
		BaseDir:      c.MediaDir,
		VideoEnabled: c.VideoEnabled,
	}
}

// Addr is the listen address of the application server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Bind, c.Port)
}

// MetricsAddr is the listen address of the metrics server.
func (c *Config) MetricsAddr() string {
	return net.JoinHostPort(c.Bind, c.MetricsPort)
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyMediaDir, "img")
	v.SetDefault(KeyVideoEnabled, false)
	v.SetDefault(KeyBind, "0.0.0.0")
	v.SetDefault(KeyPort, "3030")
	v.SetDefault(KeyMetricsPort, "9090")
	v.SetDefault(KeyMetricsEnabled, true)
	v.SetDefault(KeyThumbnailsEnabled, true)
	v.SetDefault(KeyThumbnailSize, 400)
	v.SetDefault(KeyLogStaticFiles, false)
	v.SetDefault(KeyLogHealthChecks, true)
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyMemoryLimit, "0")
	v.SetDefault(KeyMemoryRatio, 0.85)
}

// NewViper returns a viper instance with defaults and environment binding
// in place. When configFile is non-empty it is read as well; a missing or
// malformed file is an error.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	return v, nil
}

// LoadConfig builds a Config from v and validates it.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		MediaDir:          v.GetString(KeyMediaDir),
		VideoEnabled:      v.GetBool(KeyVideoEnabled),
		Bind:              v.GetString(KeyBind),
		Port:              strings.TrimSpace(v.GetString(KeyPort)),
		MetricsPort:       strings.TrimSpace(v.GetString(KeyMetricsPort)),
		MetricsEnabled:    v.GetBool(KeyMetricsEnabled),
		ThumbnailsEnabled: v.GetBool(KeyThumbnailsEnabled),
		ThumbnailSize:     v.GetInt(KeyThumbnailSize),
		LogStaticFiles:    v.GetBool(KeyLogStaticFiles),
		LogHealthChecks:   v.GetBool(KeyLogHealthChecks),
		LogLevel:          v.GetString(KeyLogLevel),
		MemoryRatio:       v.GetFloat64(KeyMemoryRatio),
		ConfigFile:        v.ConfigFileUsed(),
	}

	// Accepts plain byte counts as well as sizes such as "512mb".
	if limit := uint64(v.GetSizeInBytes(KeyMemoryLimit)); limit <= math.MaxInt64 {
		cfg.MemoryLimit = int64(limit)
	}
	if cfg.MemoryRatio <= 0 || cfg.MemoryRatio > 1 {
		return nil, fmt.Errorf("memory_ratio must be in (0, 1], got %v", cfg.MemoryRatio)
	}

	if cfg.MediaDir == "" {
		return nil, errors.New("media_dir must not be empty")
	}
	abs, err := filepath.Abs(cfg.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media directory path: %w", err)
	}
	cfg.MediaDir = abs

	if err := validatePort(KeyPort, cfg.Port); err != nil {
		return nil, err
	}
	if cfg.MetricsEnabled {
		if err := validatePort(KeyMetricsPort, cfg.MetricsPort); err != nil {
			return nil, err
		}
		if cfg.MetricsPort == cfg.Port {
			return nil, fmt.Errorf("metrics_port must differ from port (both %s)", cfg.Port)
		}
	}

	if cfg.ThumbnailSize < minThumbnailSize || cfg.ThumbnailSize > maxThumbnailSize {
		return nil, fmt.Errorf("thumbnail_size must be between %d and %d, got %d",
			minThumbnailSize, maxThumbnailSize, cfg.ThumbnailSize)
	}

	if cfg.LogLevel != "" {
		lvl, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log_level: %w", err)
		}
		logging.SetLevel(lvl)
	}

	return cfg, nil
}

func validatePort(key, port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s must be a number between 1 and 65535, got %q", key, port)
	}
	return nil
}

// CheckMediaDir reports problems with the media directory. A missing
// directory is not fatal, the gallery is simply empty, so callers log the
// result as a warning.
func CheckMediaDir(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("media directory %s does not exist; no projects will be found", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat media directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("media directory %s is not a directory", path)
	}
	return nil
}

// LogConfig writes the CONFIGURATION section of the startup log.
func LogConfig(cfg *Config) {
	section("CONFIGURATION")
	if cfg.ConfigFile != "" {
		logging.Info("  Config file:         %s", cfg.ConfigFile)
	}
	logging.Info("  MEDIA_DIR:           %s", cfg.MediaDir)
	logging.Info("  VIDEO_ENABLED:       %v", cfg.VideoEnabled)
	logging.Info("  BIND:                %s", cfg.Bind)
	logging.Info("  PORT:                %s", cfg.Port)
	logging.Info("  METRICS_PORT:        %s", cfg.MetricsPort)
	logging.Info("  METRICS_ENABLED:     %v", cfg.MetricsEnabled)
	logging.Info("  THUMBNAILS_ENABLED:  %v", cfg.ThumbnailsEnabled)
	logging.Info("  THUMBNAIL_SIZE:      %d", cfg.ThumbnailSize)
	logging.Info("  LOG_STATIC_FILES:    %v", cfg.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", cfg.LogHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())
	if cfg.MemoryLimit > 0 {
		logging.Info("  MEMORY_LIMIT:        %d bytes (ratio %.2f)", cfg.MemoryLimit, cfg.MemoryRatio)
	}

	if err := CheckMediaDir(cfg.MediaDir); err != nil {
		logging.Warn("  %v", err)
	} else if logging.IsDebugEnabled() {
		if entries, err := os.ReadDir(cfg.MediaDir); err == nil {
			var files, dirs int
			for _, e := range entries {
				if e.IsDir() {
					dirs++
				} else {
					files++
				}
			}
			logging.Debug("  Media contents: %d files, %d directories (top level)", files, dirs)
		}
	}

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Video:       %s", enabledString(cfg.VideoEnabled))
	logging.Info("    Thumbnails:  %s", enabledString(cfg.ThumbnailsEnabled))
	logging.Info("    Metrics:     %s", enabledString(cfg.MetricsEnabled))
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}
