package startup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"project-gallery/internal/logging"
)

// clearEnv blanks every GALLERY_ variable the test process inherited.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, EnvPrefix+"_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	wantDir, _ := filepath.Abs("img")
	if cfg.MediaDir != wantDir {
		t.Errorf("MediaDir = %q, want %q", cfg.MediaDir, wantDir)
	}
	if cfg.Addr() != "0.0.0.0:3030" {
		t.Errorf("Addr() = %q, want 0.0.0.0:3030", cfg.Addr())
	}
	if cfg.MetricsAddr() != "0.0.0.0:9090" {
		t.Errorf("MetricsAddr() = %q", cfg.MetricsAddr())
	}
	if cfg.VideoEnabled {
		t.Error("VideoEnabled should default to false")
	}
	if !cfg.MetricsEnabled || !cfg.ThumbnailsEnabled {
		t.Error("metrics and thumbnails should default to enabled")
	}
	if cfg.ThumbnailSize != 400 {
		t.Errorf("ThumbnailSize = %d, want 400", cfg.ThumbnailSize)
	}
	if cfg.LogStaticFiles || !cfg.LogHealthChecks {
		t.Error("unexpected log filter defaults")
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want empty", cfg.ConfigFile)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("GALLERY_MEDIA_DIR", dir)
	t.Setenv("GALLERY_VIDEO_ENABLED", "true")
	t.Setenv("GALLERY_PORT", "8080")
	t.Setenv("GALLERY_THUMBNAIL_SIZE", "256")
	t.Setenv("GALLERY_METRICS_ENABLED", "false")

	v, err := NewViper("")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.MediaDir != dir {
		t.Errorf("MediaDir = %q, want %q", cfg.MediaDir, dir)
	}
	if !cfg.VideoEnabled {
		t.Error("VideoEnabled = false, want true")
	}
	if cfg.Port != "8080" || cfg.ThumbnailSize != 256 || cfg.MetricsEnabled {
		t.Errorf("unexpected config: %+v", cfg)
	}

	g := cfg.Gallery()
	if g.BaseDir != dir || !g.VideoEnabled {
		t.Errorf("Gallery() = %+v", g)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "gallery.yaml")
	content := "media_dir: " + filepath.ToSlash(filepath.Join(dir, "media")) + "\nport: \"4000\"\nvideo_enabled: true\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GALLERY_PORT", "5000")

	v, err := NewViper(file)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want env value 5000 to override file", cfg.Port)
	}
	if !cfg.VideoEnabled {
		t.Error("VideoEnabled from file not applied")
	}
	if cfg.ConfigFile != file {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, file)
	}
}

func TestNewViperMissingFile(t *testing.T) {
	if _, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"non-numeric port", map[string]string{"GALLERY_PORT": "http"}, "port must be"},
		{"port out of range", map[string]string{"GALLERY_PORT": "70000"}, "port must be"},
		{"zero metrics port", map[string]string{"GALLERY_METRICS_PORT": "0"}, "metrics_port must be"},
		{"same ports", map[string]string{"GALLERY_PORT": "9000", "GALLERY_METRICS_PORT": "9000"}, "must differ"},
		{"thumbnail too small", map[string]string{"GALLERY_THUMBNAIL_SIZE": "8"}, "thumbnail_size"},
		{"thumbnail too large", map[string]string{"GALLERY_THUMBNAIL_SIZE": "10000"}, "thumbnail_size"},
		{"bad log level", map[string]string{"GALLERY_LOG_LEVEL": "loud"}, "log_level"},
		{"memory ratio above one", map[string]string{"GALLERY_MEMORY_RATIO": "1.5"}, "memory_ratio"},
		{"zero memory ratio", map[string]string{"GALLERY_MEMORY_RATIO": "0"}, "memory_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, val := range tt.env {
				t.Setenv(k, val)
			}
			v, err := NewViper("")
			if err != nil {
				t.Fatal(err)
			}

			_, err = LoadConfig(v)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigMetricsPortIgnoredWhenDisabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("GALLERY_METRICS_ENABLED", "false")
	t.Setenv("GALLERY_METRICS_PORT", "3030")

	v, err := NewViper("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(v); err != nil {
		t.Errorf("LoadConfig: %v", err)
	}
}

func TestLoadConfigMemoryLimit(t *testing.T) {
	tests := []struct {
		value string
		want  int64
	}{
		{"0", 0},
		{"1073741824", 1 << 30},
		{"512mb", 512 << 20},
		{"2GB", 2 << 30},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GALLERY_MEMORY_LIMIT", tt.value)
			t.Setenv("GALLERY_MEMORY_RATIO", "0.5")

			v, err := NewViper("")
			if err != nil {
				t.Fatal(err)
			}
			cfg, err := LoadConfig(v)
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if cfg.MemoryLimit != tt.want {
				t.Errorf("MemoryLimit = %d, want %d", cfg.MemoryLimit, tt.want)
			}
			if cfg.MemoryRatio != 0.5 {
				t.Errorf("MemoryRatio = %v, want 0.5", cfg.MemoryRatio)
			}
		})
	}
}

func TestLoadConfigSetsLogLevel(t *testing.T) {
	clearEnv(t)
	prev := logging.GetLevel()
	t.Cleanup(func() { logging.SetLevel(prev) })
	t.Setenv("GALLERY_LOG_LEVEL", "error")

	v, err := NewViper("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(v); err != nil {
		t.Fatal(err)
	}

	if logging.GetLevel() != logging.LevelError {
		t.Errorf("level = %v, want error", logging.GetLevel())
	}
}

func TestCheckMediaDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CheckMediaDir(dir); err != nil {
		t.Errorf("CheckMediaDir(dir) = %v", err)
	}
	if err := CheckMediaDir(filepath.Join(dir, "missing")); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("CheckMediaDir(missing) = %v", err)
	}
	if err := CheckMediaDir(file); err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("CheckMediaDir(file) = %v", err)
	}
}

func TestLogConfig(_ *testing.T) {
	LogConfig(&Config{MediaDir: "/nonexistent", Port: "3030", ConfigFile: "x.yaml"})
}
