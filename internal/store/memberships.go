package store

import (
	"context"
	"fmt"

	"bookdroplist/internal/books"
	"bookdroplist/internal/services"
)

// ListBooks returns the books of a list in membership order.
func (s *Store) ListBooks(ctx context.Context, listID string) ([]books.Book, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
SELECT `+bookColumns+`
FROM books
JOIN list_books ON list_books.book_id = books.id
WHERE list_books.list_id = ?
ORDER BY list_books.position`, listID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var result []books.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("list books: scan: %w", err)
		}
		result = append(result, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return result, nil
}

// ReplaceListBooks rewrites a list's membership to exactly bookIDs in the
// given order. Positions come out gap-free (0..n-1) regardless of what the
// caller passes. Books dropped by the rewrite are deleted when no other
// list references them.
func (s *Store) ReplaceListBooks(ctx context.Context, listID string, bookIDs []string) error {
	ctx = ensureContext(ctx)

	if _, err := s.GetList(ctx, listID); err != nil {
		return err
	}
	previous, err := s.memberBookIDs(ctx, listID)
	if err != nil {
		return err
	}

	err = retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin membership tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM list_books WHERE list_id = ?", listID); err != nil {
			return fmt.Errorf("clear memberships: %w", err)
		}
		position := 0
		seen := make(map[string]struct{}, len(bookIDs))
		for _, bookID := range bookIDs {
			if _, dup := seen[bookID]; dup {
				continue
			}
			seen[bookID] = struct{}{}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO list_books (list_id, book_id, position) VALUES (?, ?, ?)",
				listID, bookID, position); err != nil {
				return fmt.Errorf("insert membership: %w", err)
			}
			position++
		}
		if err := s.touchList(ctx, tx, listID); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return err
	}

	kept := make(map[string]struct{}, len(bookIDs))
	for _, bookID := range bookIDs {
		kept[bookID] = struct{}{}
	}
	dropped := make([]string, 0, len(previous))
	for _, bookID := range previous {
		if _, ok := kept[bookID]; !ok {
			dropped = append(dropped, bookID)
		}
	}
	s.cleanupOrphans(ctx, dropped)
	return nil
}

// AppendBooks adds books to the end of a list, skipping any already
// present. Returns the number actually added.
func (s *Store) AppendBooks(ctx context.Context, listID string, bookIDs []string) (int, error) {
	ctx = ensureContext(ctx)

	if _, err := s.GetList(ctx, listID); err != nil {
		return 0, err
	}

	added := 0
	err := retryOnBusy(ctx, func() error {
		added = 0
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin membership tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var next int
		if err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position) + 1, 0) FROM list_books WHERE list_id = ?",
			listID).Scan(&next); err != nil {
			return fmt.Errorf("next position: %w", err)
		}
		for _, bookID := range bookIDs {
			var present int
			if err := tx.QueryRowContext(ctx,
				"SELECT COUNT(1) FROM list_books WHERE list_id = ? AND book_id = ?",
				listID, bookID).Scan(&present); err != nil {
				return fmt.Errorf("check membership: %w", err)
			}
			if present > 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO list_books (list_id, book_id, position) VALUES (?, ?, ?)",
				listID, bookID, next); err != nil {
				return fmt.Errorf("insert membership: %w", err)
			}
			next++
			added++
		}
		if err := s.touchList(ctx, tx, listID); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// RemoveBook takes a book out of a list, closes the position gap it left,
// and deletes the book when no other list references it.
func (s *Store) RemoveBook(ctx context.Context, listID, bookID string) error {
	ctx = ensureContext(ctx)

	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin membership tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(ctx,
			"DELETE FROM list_books WHERE list_id = ? AND book_id = ?", listID, bookID)
		if err != nil {
			return fmt.Errorf("remove membership: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("remove membership: rows affected: %w", err)
		}
		if affected == 0 {
			return services.Wrap(services.ErrNotFound, "store", "remove book", "book not in list", nil)
		}

		// Close the gap so positions stay 0..n-1.
		rows, err := tx.QueryContext(ctx,
			"SELECT book_id FROM list_books WHERE list_id = ? ORDER BY position", listID)
		if err != nil {
			return fmt.Errorf("read memberships: %w", err)
		}
		var remaining []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("scan membership: %w", err)
			}
			remaining = append(remaining, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("read memberships: %w", err)
		}
		for position, id := range remaining {
			if _, err := tx.ExecContext(ctx,
				"UPDATE list_books SET position = ? WHERE list_id = ? AND book_id = ?",
				position, listID, id); err != nil {
				return fmt.Errorf("resequence membership: %w", err)
			}
		}
		if err := s.touchList(ctx, tx, listID); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return err
	}

	s.cleanupOrphans(ctx, []string{bookID})
	return nil
}

// Positions returns the membership rows of a list in order.
func (s *Store) Positions(ctx context.Context, listID string) ([]books.Membership, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT list_id, book_id, position FROM list_books WHERE list_id = ? ORDER BY position", listID)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	defer rows.Close()

	var memberships []books.Membership
	for rows.Next() {
		var m books.Membership
		if err := rows.Scan(&m.ListID, &m.BookID, &m.Position); err != nil {
			return nil, fmt.Errorf("positions: scan: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	return memberships, nil
}

func (s *Store) memberBookIDs(ctx context.Context, listID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT book_id FROM list_books WHERE list_id = ?", listID)
	if err != nil {
		return nil, fmt.Errorf("member book ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("member book ids: scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("member book ids: %w", err)
	}
	return ids, nil
}
