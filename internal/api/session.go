package api

import "net/http"

// SessionReader extracts the acting user from a request. An empty string
// means anonymous; handlers decide per route whether that is acceptable.
type SessionReader interface {
	UserID(r *http.Request) string
}

// HeaderSession trusts an identity header set by a fronting proxy.
type HeaderSession struct {
	// Header names the identity header. Defaults to X-User-ID.
	Header string
}

// UserID implements SessionReader.
func (h HeaderSession) UserID(r *http.Request) string {
	header := h.Header
	if header == "" {
		header = "X-User-ID"
	}
	return r.Header.Get(header)
}
