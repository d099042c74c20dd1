package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"project-gallery/internal/logging"
)

// DefaultMemoryRatio is the share of the container limit given to the Go
// heap. The rest covers decode buffers outside the heap, goroutine stacks
// and the kernel page cache of served files.
const DefaultMemoryRatio = 0.85

// ConfigResult describes what Configure did.
type ConfigResult struct {
	Configured bool

	// Source is "GOMEMLIMIT", "memory_limit" or "none".
	Source string

	ContainerLimit int64
	GoMemLimit     int64
	Ratio          float64
}

// Configure sets the Go soft memory limit to containerLimit * ratio. An
// explicit GOMEMLIMIT environment variable wins; a containerLimit of 0
// leaves the runtime untouched. Ratios outside (0, 1] fall back to
// DefaultMemoryRatio.
func Configure(containerLimit int64, ratio float64) ConfigResult {
	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		result := ConfigResult{Source: "GOMEMLIMIT"}
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", env)
		return result
	}

	if containerLimit <= 0 {
		logging.Debug("memory_limit not set, GOMEMLIMIT will not be configured automatically")
		return ConfigResult{Source: "none"}
	}

	if ratio <= 0 || ratio > 1 {
		if ratio != 0 {
			logging.Warn("memory_ratio %.2f out of range (0.0-1.0], using default %.2f", ratio, DefaultMemoryRatio)
		}
		ratio = DefaultMemoryRatio
	}

	goMemLimit := int64(float64(containerLimit) * ratio)
	debug.SetMemoryLimit(goMemLimit)

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
		FormatBytes(goMemLimit), ratio*100, FormatBytes(containerLimit))

	return ConfigResult{
		Configured:     true,
		Source:         "memory_limit",
		ContainerLimit: containerLimit,
		GoMemLimit:     goMemLimit,
		Ratio:          ratio,
	}
}

// FormatBytes renders b with a binary unit suffix.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
