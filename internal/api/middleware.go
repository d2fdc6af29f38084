package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"bookdroplist/internal/logging"
	"bookdroplist/internal/services"
)

const requestIDHeader = "X-Request-ID"

// requestID tags every request with a correlation id, honoring one
// supplied by a fronting proxy.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := services.WithRequestID(r.Context(), id)
		ctx = services.WithUserID(ctx, s.sessions.UserID(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.status),
			logging.Duration("elapsed", time.Since(start)),
			logging.String(logging.FieldCorrelationID, w.Header().Get(requestIDHeader)))
	})
}
