package api

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"bookdroplist/internal/books"
	"bookdroplist/internal/services"
)

// maxUploadBytes bounds shelf photo uploads.
const maxUploadBytes = 20 << 20

type createListRequest struct {
	Name    string       `json:"name"`
	Purpose string       `json:"purpose"`
	Books   []books.Book `json:"books"`
}

// handleCreateList accepts either a multipart photo upload or a JSON
// body with books already picked out.
func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	userID := s.sessions.UserID(r)

	if isMultipart(r) {
		image, mimeType, err := readImage(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		name := r.FormValue("name")
		purpose := books.ListPurpose(r.FormValue("purpose"))
		view, err := s.service.CreateFromImage(r.Context(), userID, name, purpose, image, mimeType)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, view)
		return
	}

	var req createListRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.service.CreateManual(r.Context(), userID, req.Name, books.ListPurpose(req.Purpose), req.Books)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.Get(r.Context(), chi.URLParam(r, "listID"), s.sessions.UserID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleMyLists(w http.ResponseWriter, r *http.Request) {
	owned, err := s.service.MyLists(r.Context(), s.sessions.UserID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"lists": owned})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "api", "search", "query parameter q required", nil))
		return
	}
	results, err := s.service.Search(r.Context(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

type updateListRequest struct {
	Name    string `json:"name"`
	Purpose string `json:"purpose"`
}

// handleUpdateList renames the list and/or changes its purpose.
func (s *Server) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	var req updateListRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name == "" && req.Purpose == "" {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "api", "update list", "nothing to update", nil))
		return
	}
	listID := chi.URLParam(r, "listID")
	userID := s.sessions.UserID(r)

	var (
		result any
		err    error
	)
	if req.Name != "" {
		result, err = s.service.Rename(r.Context(), listID, userID, req.Name)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Purpose != "" {
		result, err = s.service.SetPurpose(r.Context(), listID, userID, books.ListPurpose(req.Purpose))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Delete(r.Context(), chi.URLParam(r, "listID"), s.sessions.UserID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setLocationRequest struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (s *Server) handleSetLocation(w http.ResponseWriter, r *http.Request) {
	var req setLocationRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	listID := chi.URLParam(r, "listID")
	userID := s.sessions.UserID(r)

	switch {
	case req.Address != "":
		view, err := s.service.SetLocationByAddress(r.Context(), listID, userID, req.Address)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, view)
	case req.Latitude != nil && req.Longitude != nil:
		view, err := s.service.SetLocationByCoordinates(r.Context(), listID, userID, *req.Latitude, *req.Longitude)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, view)
	default:
		s.writeError(w, r, services.Wrap(services.ErrValidation, "api", "set location",
			"address or latitude/longitude required", nil))
	}
}

type reorderRequest struct {
	BookIDs []string `json:"book_ids"`
}

func (s *Server) handleReorderBooks(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.service.ReorderBooks(r.Context(), chi.URLParam(r, "listID"), s.sessions.UserID(r), req.BookIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var entry books.Book
	if err := decodeBody(r, &entry); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.service.AddBook(r.Context(), chi.URLParam(r, "listID"), s.sessions.UserID(r), entry)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddBooksFromImage(w http.ResponseWriter, r *http.Request) {
	image, mimeType, err := readImage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.service.AddBooksFromImage(r.Context(), chi.URLParam(r, "listID"), s.sessions.UserID(r), image, mimeType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRemoveBook(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.RemoveBook(r.Context(),
		chi.URLParam(r, "listID"), s.sessions.UserID(r), chi.URLParam(r, "bookID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleScanShelf(w http.ResponseWriter, r *http.Request) {
	image, mimeType, err := readImage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	changes, err := s.service.ScanShelf(r.Context(), chi.URLParam(r, "listID"), s.sessions.UserID(r), image, mimeType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"changes": changes})
}

type applyChangesRequest struct {
	Changes []books.BookChange `json:"changes"`
}

func (s *Server) handleApplyChanges(w http.ResponseWriter, r *http.Request) {
	var req applyChangesRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.service.ApplyChanges(r.Context(), chi.URLParam(r, "listID"), s.sessions.UserID(r), req.Changes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "multipart/")
}

// readImage pulls the image part out of a multipart upload.
func readImage(r *http.Request) ([]byte, string, error) {
	if !isMultipart(r) {
		return nil, "", services.Wrap(services.ErrValidation, "api", "read image", "multipart upload required", nil)
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", services.Wrap(services.ErrValidation, "api", "read image", "malformed multipart body", err)
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", services.Wrap(services.ErrValidation, "api", "read image", "image field required", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, "", services.Wrap(services.ErrValidation, "api", "read image", "reading upload", err)
	}
	if len(data) > maxUploadBytes {
		return nil, "", services.Wrap(services.ErrValidation, "api", "read image", "image too large", nil)
	}
	if len(data) == 0 {
		return nil, "", services.Wrap(services.ErrValidation, "api", "read image", "image is empty", nil)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}
