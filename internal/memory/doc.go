// Package memory keeps the gallery inside its container memory budget.
//
// [Configure] derives GOMEMLIMIT from the memory_limit and memory_ratio
// settings (GALLERY_MEMORY_LIMIT and GALLERY_MEMORY_RATIO in the
// environment). An explicit GOMEMLIMIT always takes precedence:
//
//	env:
//	  - name: GALLERY_MEMORY_LIMIT
//	    valueFrom:
//	      resourceFieldRef:
//	        resource: limits.memory
//
// A [Monitor] samples heap usage and pauses thumbnail generation while usage
// is above [Config.CriticalWaterMark], resuming once it falls below
// [Config.HighWaterMark]. Decoding a large image allocates its full pixel
// buffer, so a burst of thumbnail requests is the main way the server can
// approach its limit.
//
// # Metrics
//
//   - media_gallery_memory_usage_ratio
//   - media_gallery_memory_paused
//   - media_gallery_memory_gc_pauses_total
package memory
