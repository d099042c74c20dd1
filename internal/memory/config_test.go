package memory

import (
	"math"
	"runtime/debug"
	"testing"
)

func restoreMemoryLimit(t *testing.T) {
	t.Helper()
	prev := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(prev) })
}

func TestConfigure(t *testing.T) {
	t.Setenv("GOMEMLIMIT", "")
	restoreMemoryLimit(t)

	const gib = 1 << 30
	tests := []struct {
		name      string
		limit     int64
		ratio     float64
		wantRatio float64
	}{
		{"explicit ratio", gib, 0.5, 0.5},
		{"zero ratio uses default", gib, 0, DefaultMemoryRatio},
		{"ratio above one uses default", gib, 1.5, DefaultMemoryRatio},
		{"negative ratio uses default", gib, -0.2, DefaultMemoryRatio},
		{"ratio of one", gib, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Configure(tt.limit, tt.ratio)

			if !result.Configured || result.Source != "memory_limit" {
				t.Fatalf("Configure() = %+v, want configured from memory_limit", result)
			}
			if result.Ratio != tt.wantRatio {
				t.Errorf("Ratio = %v, want %v", result.Ratio, tt.wantRatio)
			}
			want := int64(float64(tt.limit) * tt.wantRatio)
			if result.GoMemLimit != want {
				t.Errorf("GoMemLimit = %d, want %d", result.GoMemLimit, want)
			}
			if got := debug.SetMemoryLimit(-1); got != want {
				t.Errorf("runtime limit = %d, want %d", got, want)
			}
		})
	}
}

func TestConfigure_NoLimit(t *testing.T) {
	t.Setenv("GOMEMLIMIT", "")
	restoreMemoryLimit(t)
	before := debug.SetMemoryLimit(-1)

	result := Configure(0, 0.5)

	if result.Configured || result.Source != "none" {
		t.Errorf("Configure(0) = %+v, want unconfigured", result)
	}
	if got := debug.SetMemoryLimit(-1); got != before {
		t.Errorf("runtime limit changed from %d to %d", before, got)
	}
}

func TestConfigure_GOMEMLIMITWins(t *testing.T) {
	t.Setenv("GOMEMLIMIT", "512MiB")
	restoreMemoryLimit(t)
	debug.SetMemoryLimit(512 << 20)

	result := Configure(1<<30, 0.5)

	if result.Source != "GOMEMLIMIT" {
		t.Errorf("Source = %q, want GOMEMLIMIT", result.Source)
	}
	if result.GoMemLimit != 512<<20 {
		t.Errorf("GoMemLimit = %d, want %d", result.GoMemLimit, 512<<20)
	}
	if got := debug.SetMemoryLimit(-1); got != 512<<20 {
		t.Errorf("runtime limit = %d, want it untouched", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{3 << 30, "3.0 GiB"},
		{math.MaxInt64, "8.0 EiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
