package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks a required external capability that is not
	// configured (vision model, geocoder). Surfaced, never retried.
	ErrConfiguration = errors.New("configuration error")
	// ErrExtractionParse marks vision output that could not be parsed as
	// structured data. Surfaced as "no books found".
	ErrExtractionParse = errors.New("extraction parse error")
	// ErrCatalogUnavailable marks a failed catalog call. Swallowed locally;
	// a failed call contributes zero results.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrConflict marks a uniqueness violation. Recovered locally via
	// re-fetch-and-reuse, never surfaced to callers.
	ErrConflict = errors.New("uniqueness conflict")
	// ErrUnauthorized marks a caller lacking permission to mutate a list.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound marks a referenced list or book that is absent.
	ErrNotFound = errors.New("not found")
	// ErrRateLimited marks a request rejected by the per-actor limiter.
	ErrRateLimited = errors.New("rate limited")
	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
