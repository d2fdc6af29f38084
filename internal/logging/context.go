package logging

import (
	"context"
	"log/slog"

	"bookdroplist/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldUserID is the standardized structured logging key for the acting user.
	FieldUserID = "user_id"
	// FieldListID is the standardized structured logging key for list identifiers.
	FieldListID = "list_id"
	// FieldBookID is the standardized structured logging key for book identifiers.
	FieldBookID = "book_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	if uid, ok := services.UserIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldUserID, uid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
