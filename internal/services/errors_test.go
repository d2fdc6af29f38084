package services

import (
	"errors"
	"testing"
)

func TestWrapPreservesMarker(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := Wrap(ErrCatalogUnavailable, "catalog", "search", "google books query failed", inner)

	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected marker to survive wrapping, got %v", err)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("expected inner error to survive wrapping, got %v", err)
	}
}

func TestWrapNilMarkerFallsBackToValidation(t *testing.T) {
	err := Wrap(nil, "lists", "create", "no books supplied", nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation fallback, got %v", err)
	}
}

func TestWrapDetailFormatting(t *testing.T) {
	err := Wrap(ErrNotFound, "lists", "get", "", nil)
	want := "not found: lists: get"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
