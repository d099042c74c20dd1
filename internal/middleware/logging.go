package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"project-gallery/internal/logging"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LoggingConfig holds configuration for the logging middleware
type LoggingConfig struct {
	// ServiceName is written in the #Software directive.
	ServiceName string
	// SkipPaths are path prefixes that are never logged.
	SkipPaths []string
	// SkipExtensions are file extensions treated as static assets.
	SkipExtensions []string
	// HealthCheckPaths are the probe endpoints.
	HealthCheckPaths []string
	LogStaticFiles   bool
	LogHealthChecks  bool
	// TrustProxyHeaders takes the client address from X-Forwarded-For or
	// X-Real-IP when set.
	TrustProxyHeaders bool
}

// DefaultLoggingConfig returns the default configuration. Media files served
// under /img/ and thumbnails are static assets; a project page pulls dozens of
// them, so they are left out of the access log unless LogStaticFiles is set.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		ServiceName:       "ProjectGallery",
		SkipPaths:         []string{},
		SkipExtensions:    []string{".css", ".ico", ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".mp4", ".webm", ".ogg", ".mov"},
		HealthCheckPaths:  []string{"/health", "/healthz", "/livez", "/readyz"},
		LogStaticFiles:    false,
		LogHealthChecks:   true,
		TrustProxyHeaders: true,
	}
}

// w3cFields is the field list of every access log line.
const w3cFields = "date time c-ip cs-method cs-uri-stem cs-uri-query sc-status sc-bytes time-taken sc(Content-Encoding) cs(User-Agent) cs(Referer)"

// W3CLogger writes access log lines in W3C Extended Log Format.
type W3CLogger struct {
	config LoggingConfig
	health map[string]bool
}

// NewW3CLogger creates a new W3C format logger
func NewW3CLogger(config LoggingConfig) *W3CLogger {
	health := make(map[string]bool, len(config.HealthCheckPaths))
	for _, p := range config.HealthCheckPaths {
		health[p] = true
	}
	return &W3CLogger{config: config, health: health}
}

// Directives returns the W3C header lines describing the log that follows.
func (l *W3CLogger) Directives(now time.Time) []string {
	return []string{
		"#Version: 1.0",
		"#Software: " + l.config.ServiceName,
		"#Date: " + now.UTC().Format("2006-01-02 15:04:05"),
		"#Fields: " + w3cFields,
	}
}

// sanitizeLogField removes control characters that could forge log lines or
// inject terminal escapes.
func sanitizeLogField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteRune(' ')
		case r == '\x00' || r == '\x1b':
			continue
		case r < 0x20 && r != '\t':
			continue
		case r == 0x7f:
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Logger returns HTTP logging middleware using W3C Extended Log Format
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	logger := NewW3CLogger(config)
	for _, d := range logger.Directives(time.Now()) {
		logging.Printf("%s", d)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger.shouldSkip(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			logging.Printf("%s", logger.formatLine(r, wrapped, start, time.Since(start)))
		})
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatLine renders one request. Every user-controlled field goes through
// sanitizeLogField before interpolation.
func (l *W3CLogger) formatLine(r *http.Request, rw *responseWriter, start time.Time, duration time.Duration) string {
	ts := start.UTC()

	userAgent := sanitizeLogField(r.Header.Get("User-Agent"))
	if userAgent != "" {
		userAgent = escapeW3CField(userAgent)
	}

	return fmt.Sprintf("%s %s %s %s %s %s %d %d %d %s %s %s",
		ts.Format("2006-01-02"),
		ts.Format("15:04:05"),
		orDash(sanitizeLogField(l.clientIP(r))),
		sanitizeLogField(r.Method),
		escapeW3CField(sanitizeLogField(r.URL.EscapedPath())),
		orDash(sanitizeLogField(r.URL.RawQuery)),
		rw.statusCode,
		rw.bytesWritten,
		duration.Milliseconds(),
		orDash(rw.Header().Get("Content-Encoding")),
		orDash(userAgent),
		orDash(escapeW3CField(sanitizeLogField(r.Header.Get("Referer")))),
	)
}

func (l *W3CLogger) shouldSkip(path string) bool {
	for _, skipPath := range l.config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}

	if !l.config.LogHealthChecks && l.health[path] {
		return true
	}

	if !l.config.LogStaticFiles {
		lower := strings.ToLower(path)
		for _, ext := range l.config.SkipExtensions {
			if strings.HasSuffix(lower, ext) {
				return true
			}
		}
	}

	return false
}

func (l *W3CLogger) clientIP(r *http.Request) string {
	if l.config.TrustProxyHeaders {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// escapeW3CField quotes a value containing spaces, tabs or quotes, doubling
// embedded quotes.
func escapeW3CField(s string) string {
	if strings.ContainsAny(s, " \t\"") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}
