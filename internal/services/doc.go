// Package services defines the error taxonomy and request context helpers
// shared across the pipeline.
//
// Errors are classified by wrapping one of the exported sentinel markers;
// callers use errors.Is against the markers to decide whether a failure is
// surfaced (configuration, authorization, existence) or absorbed with a
// best-effort fallback (catalog unavailability, conflicts). The HTTP layer
// maps markers to status codes in one place.
package services
