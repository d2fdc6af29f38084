// Package api exposes the list service over HTTP.
//
// Routes are JSON in, JSON out; shelf photos arrive as multipart form
// uploads. Authentication is delegated to a SessionReader so the daemon
// can sit behind any identity-providing proxy. Service errors carry
// sentinel markers, and this package owns the single mapping from marker
// to HTTP status.
package api
