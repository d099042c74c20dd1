package filesystem

import (
	"path/filepath"
	"testing"
)

func TestJoin(t *testing.T) {
	base := filepath.FromSlash("/srv/media")

	tests := []struct {
		rel       string
		wantFull  string
		wantClean string
		wantOK    bool
	}{
		{"a", filepath.FromSlash("/srv/media/a"), "a", true},
		{"a/b/c.jpg", filepath.FromSlash("/srv/media/a/b/c.jpg"), "a/b/c.jpg", true},
		{"a/./b/", filepath.FromSlash("/srv/media/a/b"), "a/b", true},
		{"a/../b", filepath.FromSlash("/srv/media/b"), "b", true},
		{"..a", filepath.FromSlash("/srv/media/..a"), "..a", true},
		{"", "", "", false},
		{".", "", "", false},
		{"a/..", "", "", false},
		{"..", "", "", false},
		{"../etc", "", "", false},
		{"a/../../etc", "", "", false},
		{"/etc/passwd", "", "", false},
		{"a\x00b", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			full, clean, ok := Join(base, tt.rel)
			if ok != tt.wantOK {
				t.Fatalf("Join(%q) ok = %v, want %v", tt.rel, ok, tt.wantOK)
			}
			if full != tt.wantFull || clean != tt.wantClean {
				t.Errorf("Join(%q) = (%q, %q), want (%q, %q)", tt.rel, full, clean, tt.wantFull, tt.wantClean)
			}
		})
	}
}
