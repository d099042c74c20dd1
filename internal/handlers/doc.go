// Package handlers provides the HTTP handlers of the gallery server.
//
// It includes handlers for:
//   - The project listing and project detail pages
//   - JSON mirrors of both views under /api
//   - On-demand thumbnails with ETag revalidation
//   - Static media files with directory listings
//   - Health, liveness, readiness and version endpoints
package handlers
