package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookdroplist/internal/logging"
	"bookdroplist/internal/services"
)

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("encode response", logging.Error(err))
	}
}

// writeError maps sentinel markers to HTTP statuses. Unclassified errors
// are 500s with a generic body; internals never leak to clients.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusForbidden
		message = "not allowed"
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
		message = "not found"
	case errors.Is(err, services.ErrRateLimited):
		status = http.StatusTooManyRequests
		message = "too many requests, try again shortly"
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
		message = "conflict"
	case errors.Is(err, services.ErrExtractionParse):
		status = http.StatusUnprocessableEntity
		message = "no identifiable books in image"
	case errors.Is(err, services.ErrConfiguration):
		status = http.StatusServiceUnavailable
		message = "feature not configured"
	case errors.Is(err, services.ErrCatalogUnavailable):
		status = http.StatusBadGateway
		message = "book catalogs unavailable"
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			logging.String("path", r.URL.Path),
			logging.Error(err))
	}
	s.writeJSON(w, status, errorBody{Error: message})
}

func decodeBody(r *http.Request, target any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return services.Wrap(services.ErrValidation, "api", "decode", "malformed request body", err)
	}
	return nil
}
