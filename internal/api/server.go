package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"bookdroplist/internal/lists"
	"bookdroplist/internal/logging"
)

// Server routes HTTP traffic to the list service.
type Server struct {
	service  *lists.Service
	sessions SessionReader
	logger   *slog.Logger
}

// NewServer builds the HTTP layer. A nil sessions reader defaults to the
// identity header; a nil logger discards.
func NewServer(service *lists.Service, sessions SessionReader, logger *slog.Logger) *Server {
	if sessions == nil {
		sessions = HeaderSession{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		service:  service,
		sessions: sessions,
		logger:   logging.WithComponent(logger, "api"),
	}
}

// Router assembles the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/lists", s.handleCreateList)
		r.Get("/my/lists", s.handleMyLists)
		r.Get("/search", s.handleSearch)

		r.Route("/lists/{listID}", func(r chi.Router) {
			r.Get("/", s.handleGetList)
			r.Patch("/", s.handleUpdateList)
			r.Delete("/", s.handleDeleteList)
			r.Put("/location", s.handleSetLocation)
			r.Put("/books", s.handleReorderBooks)
			r.Post("/books", s.handleAddBook)
			r.Post("/books/image", s.handleAddBooksFromImage)
			r.Delete("/books/{bookID}", s.handleRemoveBook)
			r.Post("/scan", s.handleScanShelf)
			r.Post("/scan/apply", s.handleApplyChanges)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
