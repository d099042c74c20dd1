// Package middleware provides the HTTP middleware of the gallery server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - gzip compression of HTML, CSS and JSON responses
//   - Prometheus request metrics labelled by gorilla/mux route template
package middleware
