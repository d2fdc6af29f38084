package lists

import (
	"context"

	"bookdroplist/internal/books"
	"bookdroplist/internal/logging"
	"bookdroplist/internal/services"
)

// ScanShelf photographs a community shelf against its recorded inventory
// and returns proposed changes. Nothing is persisted; the caller reviews
// the proposals and applies the ones a human confirmed.
func (s *Service) ScanShelf(ctx context.Context, listID, userID string, image []byte, mimeType string) ([]books.BookChange, error) {
	list, err := s.editable(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	if list.Purpose != books.PurposeMiniLibrary {
		return nil, services.Wrap(services.ErrValidation, "lists", "scan shelf", "only mini libraries are scanned", nil)
	}
	if s.vision == nil {
		return nil, services.Wrap(services.ErrConfiguration, "lists", "scan shelf", "vision extraction not configured", nil)
	}

	mentions, err := s.vision.Extract(ctx, image, mimeType)
	if err != nil {
		return nil, err
	}
	scanned := s.enricher.EnrichAll(ctx, mentions)

	inventory, err := s.store.ListBooks(ctx, listID)
	if err != nil {
		return nil, err
	}
	changes := s.detector.Detect(inventory, scanned)
	s.logger.Info("shelf scanned",
		logging.String(logging.FieldListID, listID),
		logging.Int("inventory", len(inventory)),
		logging.Int("scanned", len(scanned)),
		logging.Int("proposals", len(changes)))
	return changes, nil
}

// ApplyChanges persists confirmed scan proposals: adds are appended in
// proposal order, removes drop the matched inventory rows. Unconfirmed
// proposals are simply not passed in.
func (s *Service) ApplyChanges(ctx context.Context, listID, userID string, confirmed []books.BookChange) (*View, error) {
	if _, err := s.editable(ctx, listID, userID); err != nil {
		return nil, err
	}

	for _, change := range confirmed {
		switch change.Action {
		case books.ChangeAdd:
			persisted, err := s.store.InsertOrGetBook(ctx, change.Book)
			if err != nil {
				return nil, err
			}
			if _, err := s.store.AppendBooks(ctx, listID, []string{persisted.ID}); err != nil {
				return nil, err
			}
		case books.ChangeRemove:
			bookID := change.Book.ID
			if bookID == "" {
				existing, err := s.store.GetBookByTitleAuthor(ctx, change.Book.Title, change.Book.Author)
				if err != nil {
					continue
				}
				bookID = existing.ID
			}
			if err := s.store.RemoveBook(ctx, listID, bookID); err != nil {
				// A book already removed by a concurrent confirmation is fine.
				continue
			}
		default:
			return nil, services.Wrap(services.ErrValidation, "lists", "apply changes",
				"unknown action "+string(change.Action), nil)
		}
	}
	return s.view(ctx, listID, userID)
}
