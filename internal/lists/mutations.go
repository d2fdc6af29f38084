package lists

import (
	"context"
	"strings"

	"bookdroplist/internal/books"
	"bookdroplist/internal/geo"
	"bookdroplist/internal/logging"
	"bookdroplist/internal/services"
)

// ReorderBooks rewrites a list's membership to the given book ids in
// order. Books dropped from the list are garbage-collected by the store.
func (s *Service) ReorderBooks(ctx context.Context, listID, userID string, bookIDs []string) (*View, error) {
	if _, err := s.editable(ctx, listID, userID); err != nil {
		return nil, err
	}
	if err := s.store.ReplaceListBooks(ctx, listID, bookIDs); err != nil {
		return nil, err
	}
	return s.view(ctx, listID, userID)
}

// AddBook persists one book and appends it to the list.
func (s *Service) AddBook(ctx context.Context, listID, userID string, entry books.Book) (*View, error) {
	if _, err := s.editable(ctx, listID, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(entry.Title) == "" {
		return nil, services.Wrap(services.ErrValidation, "lists", "add book", "title must not be empty", nil)
	}
	persisted, err := s.store.InsertOrGetBook(ctx, entry)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.AppendBooks(ctx, listID, []string{persisted.ID}); err != nil {
		return nil, err
	}
	return s.view(ctx, listID, userID)
}

// AddBooksFromImage scans another photo and appends the books it finds.
func (s *Service) AddBooksFromImage(ctx context.Context, listID, userID string, image []byte, mimeType string) (*View, error) {
	if _, err := s.editable(ctx, listID, userID); err != nil {
		return nil, err
	}
	if s.vision == nil {
		return nil, services.Wrap(services.ErrConfiguration, "lists", "add from image", "vision extraction not configured", nil)
	}
	mentions, err := s.vision.Extract(ctx, image, mimeType)
	if err != nil {
		return nil, err
	}
	enriched := s.enricher.EnrichAll(ctx, mentions)

	bookIDs, skipped := s.persistBooks(ctx, enriched)
	added, err := s.store.AppendBooks(ctx, listID, bookIDs)
	if err != nil {
		return nil, err
	}
	s.logger.Info("books added from image",
		logging.String(logging.FieldListID, listID),
		logging.Int("added", added),
		logging.Int("skipped", skipped))
	return s.view(ctx, listID, userID)
}

// RemoveBook takes a book off the list.
func (s *Service) RemoveBook(ctx context.Context, listID, userID, bookID string) (*View, error) {
	if _, err := s.editable(ctx, listID, userID); err != nil {
		return nil, err
	}
	if err := s.store.RemoveBook(ctx, listID, bookID); err != nil {
		return nil, err
	}
	return s.view(ctx, listID, userID)
}

// Rename changes the list name. Owner only.
func (s *Service) Rename(ctx context.Context, listID, userID, name string) (*View, error) {
	list, err := s.managed(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "lists", "rename", "name must not be empty", nil)
	}
	list.Name = name
	if err := s.store.UpdateListMeta(ctx, list); err != nil {
		return nil, err
	}
	return s.view(ctx, listID, userID)
}

// SetPurpose changes what the list is for. Switching to a purpose that
// requires a location is rejected until the list has one.
func (s *Service) SetPurpose(ctx context.Context, listID, userID string, purpose books.ListPurpose) (*View, error) {
	list, err := s.managed(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	if !purpose.Known() {
		return nil, services.Wrap(services.ErrValidation, "lists", "set purpose", "unknown purpose "+string(purpose), nil)
	}
	if purpose.LocationRequired() && !hasLocation(list.Location) {
		return nil, services.Wrap(services.ErrValidation, "lists", "set purpose",
			string(purpose)+" lists need a location first", nil)
	}
	list.Purpose = purpose
	if err := s.store.UpdateListMeta(ctx, list); err != nil {
		return nil, err
	}
	return s.view(ctx, listID, userID)
}

// SetLocationByAddress geocodes an address and attaches it to the list,
// with a fuzzed public point derived from the list id.
func (s *Service) SetLocationByAddress(ctx context.Context, listID, userID, address string) (*View, error) {
	list, err := s.managed(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	if s.geocoder == nil {
		return nil, services.Wrap(services.ErrConfiguration, "lists", "set location", "geocoding not configured", nil)
	}
	location, err := s.geocoder.Forward(ctx, address)
	if err != nil {
		return nil, err
	}
	return s.attachLocation(ctx, list, userID, location)
}

// SetLocationByCoordinates reverse-geocodes a point and attaches it.
func (s *Service) SetLocationByCoordinates(ctx context.Context, listID, userID string, lat, lng float64) (*View, error) {
	list, err := s.managed(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, services.Wrap(services.ErrValidation, "lists", "set location", "coordinates out of range", nil)
	}
	location := books.Location{ExactLatitude: lat, ExactLongitude: lng}
	if s.geocoder != nil {
		if named, err := s.geocoder.Reverse(ctx, lat, lng); err == nil {
			location = named
		}
	}
	return s.attachLocation(ctx, list, userID, location)
}

func (s *Service) attachLocation(ctx context.Context, list books.List, userID string, location books.Location) (*View, error) {
	location.PublicLatitude, location.PublicLongitude = geo.Fuzz(
		location.ExactLatitude, location.ExactLongitude, list.ID)
	list.Location = location
	if err := s.store.UpdateListMeta(ctx, list); err != nil {
		return nil, err
	}
	s.logger.Info("location attached",
		logging.String(logging.FieldListID, list.ID),
		logging.String("city", location.City))
	return s.view(ctx, list.ID, userID)
}

// Delete removes the list. Owner only.
func (s *Service) Delete(ctx context.Context, listID, userID string) error {
	if _, err := s.managed(ctx, listID, userID); err != nil {
		return err
	}
	if err := s.store.DeleteList(ctx, listID); err != nil {
		return err
	}
	s.logger.Info("list deleted", logging.String(logging.FieldListID, listID))
	return nil
}

func hasLocation(location books.Location) bool {
	return location.ExactLatitude != 0 || location.ExactLongitude != 0
}
