package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookdroplist/internal/books"
	"bookdroplist/internal/logging"
	"bookdroplist/internal/services"
)

const bookColumns = `id, title, author, cover_url, isbn, publication_year, publisher,
genre, description, average_rating, ratings_count, page_count, language,
categories, maturity_rating`

// InsertOrGetBook persists a book, reconciling on the (title, author)
// identity. When another writer got there first, the existing row is
// returned instead of an error; the caller always ends up with exactly one
// canonical row.
func (s *Store) InsertOrGetBook(ctx context.Context, book books.Book) (books.Book, error) {
	ctx = ensureContext(ctx)
	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	if book.Title == "" {
		return books.Book{}, services.Wrap(services.ErrValidation, "store", "insert book", "title must not be empty", nil)
	}

	if existing, err := s.GetBookByTitleAuthor(ctx, book.Title, book.Author); err == nil {
		return existing, nil
	} else if !errors.Is(err, services.ErrNotFound) {
		return books.Book{}, err
	}

	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	now := formatTime(time.Now())
	_, err := s.execWithRetry(ctx, `
INSERT INTO books (id, title, author, cover_url, isbn, publication_year, publisher,
    genre, description, average_rating, ratings_count, page_count, language,
    categories, maturity_rating, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID, book.Title, book.Author, book.CoverURL, book.ISBN, book.PublicationYear,
		book.Publisher, book.Genre, book.Description, book.AverageRating, book.RatingsCount,
		book.PageCount, book.Language, encodeCategories(book.Categories), book.MaturityRating,
		now, now)
	if err != nil {
		// Lost the race to a concurrent insert of the same identity.
		if isUniqueViolation(err) {
			return s.GetBookByTitleAuthor(ctx, book.Title, book.Author)
		}
		return books.Book{}, fmt.Errorf("insert book: %w", err)
	}
	return book, nil
}

// GetBook fetches one book by id.
func (s *Store) GetBook(ctx context.Context, id string) (books.Book, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+bookColumns+" FROM books WHERE id = ?", id)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return books.Book{}, services.Wrap(services.ErrNotFound, "store", "get book", "no book with id "+id, nil)
	}
	if err != nil {
		return books.Book{}, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// GetBookByTitleAuthor fetches the canonical row for a (title, author)
// identity.
func (s *Store) GetBookByTitleAuthor(ctx context.Context, title, author string) (books.Book, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+bookColumns+" FROM books WHERE title = ? AND author = ?",
		strings.TrimSpace(title), strings.TrimSpace(author))
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return books.Book{}, services.Wrap(services.ErrNotFound, "store", "get book", "no book titled "+title, nil)
	}
	if err != nil {
		return books.Book{}, fmt.Errorf("get book by identity: %w", err)
	}
	return book, nil
}

// UpdateBook overwrites a book's metadata. Identity fields (title, author)
// are included; a collision with another row surfaces as ErrConflict.
func (s *Store) UpdateBook(ctx context.Context, book books.Book) error {
	ctx = ensureContext(ctx)
	if book.ID == "" {
		return services.Wrap(services.ErrValidation, "store", "update book", "id must not be empty", nil)
	}
	res, err := s.execWithRetry(ctx, `
UPDATE books SET title = ?, author = ?, cover_url = ?, isbn = ?, publication_year = ?,
    publisher = ?, genre = ?, description = ?, average_rating = ?, ratings_count = ?,
    page_count = ?, language = ?, categories = ?, maturity_rating = ?, updated_at = ?
WHERE id = ?`,
		book.Title, book.Author, book.CoverURL, book.ISBN, book.PublicationYear,
		book.Publisher, book.Genre, book.Description, book.AverageRating, book.RatingsCount,
		book.PageCount, book.Language, encodeCategories(book.Categories), book.MaturityRating,
		formatTime(time.Now()), book.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return services.Wrap(services.ErrConflict, "store", "update book", "identity already taken", err)
		}
		return fmt.Errorf("update book: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update book: rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "update book", "no book with id "+book.ID, nil)
	}
	return nil
}

// DeleteBookIfOrphaned removes a book when no list references it. Returns
// true when the row was deleted.
func (s *Store) DeleteBookIfOrphaned(ctx context.Context, bookID string) (bool, error) {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx,
		"DELETE FROM books WHERE id = ? AND NOT EXISTS (SELECT 1 FROM list_books WHERE book_id = ?)",
		bookID, bookID)
	if err != nil {
		return false, fmt.Errorf("delete orphaned book: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete orphaned book: rows affected: %w", err)
	}
	return affected > 0, nil
}

// cleanupOrphans garbage-collects books no list references anymore.
// Cleanup failure never fails the operation that dropped the reference;
// a stray book row is harmless and the next drop retries it.
func (s *Store) cleanupOrphans(ctx context.Context, bookIDs []string) {
	for _, bookID := range bookIDs {
		if _, err := s.DeleteBookIfOrphaned(ctx, bookID); err != nil {
			s.logger.Warn("orphan cleanup failed",
				logging.String("book_id", bookID), logging.Error(err))
		}
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (books.Book, error) {
	var (
		book       books.Book
		categories string
	)
	err := row.Scan(&book.ID, &book.Title, &book.Author, &book.CoverURL, &book.ISBN,
		&book.PublicationYear, &book.Publisher, &book.Genre, &book.Description,
		&book.AverageRating, &book.RatingsCount, &book.PageCount, &book.Language,
		&categories, &book.MaturityRating)
	if err != nil {
		return books.Book{}, err
	}
	book.Categories = decodeCategories(categories)
	return book, nil
}

func encodeCategories(categories []string) string {
	if len(categories) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(categories)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func decodeCategories(encoded string) []string {
	if encoded == "" || encoded == "[]" {
		return nil
	}
	var categories []string
	if err := json.Unmarshal([]byte(encoded), &categories); err != nil {
		return nil
	}
	return categories
}
