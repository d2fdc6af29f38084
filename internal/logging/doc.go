// Package logging wraps log/slog with the handlers and attribute helpers
// used across the daemon.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for log aggregation. When the format is left on "auto" the
// console handler is picked if stdout is a terminal. Component loggers are
// derived with WithComponent; request-scoped fields (correlation ID, user)
// come from the context via WithContext.
package logging
