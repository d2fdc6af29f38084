package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookdroplist/internal/books"
	"bookdroplist/internal/services"
)

const listColumns = `id, name, share_url, purpose, owner_id,
exact_latitude, exact_longitude, public_latitude, public_longitude,
location_name, city, country, created_at, updated_at`

// CreateList persists a new list. A blank name falls back to the default,
// and a blank purpose to sharing. The share slug must be unique; a
// collision surfaces as ErrConflict so the caller can regenerate.
func (s *Store) CreateList(ctx context.Context, list books.List) (books.List, error) {
	ctx = ensureContext(ctx)
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	if strings.TrimSpace(list.Name) == "" {
		list.Name = books.DefaultListName
	}
	if list.Purpose == "" {
		list.Purpose = books.PurposeSharing
	}
	if strings.TrimSpace(list.ShareURL) == "" {
		return books.List{}, services.Wrap(services.ErrValidation, "store", "create list", "share url must not be empty", nil)
	}

	now := time.Now().UTC()
	list.CreatedAt = now
	list.UpdatedAt = now
	_, err := s.execWithRetry(ctx, `
INSERT INTO lists (id, name, share_url, purpose, owner_id,
    exact_latitude, exact_longitude, public_latitude, public_longitude,
    location_name, city, country, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		list.ID, list.Name, list.ShareURL, string(list.Purpose), list.OwnerID,
		nullCoord(list.Location.ExactLatitude, list.Location.ExactLongitude),
		nullCoord(list.Location.ExactLongitude, list.Location.ExactLatitude),
		nullCoord(list.Location.PublicLatitude, list.Location.PublicLongitude),
		nullCoord(list.Location.PublicLongitude, list.Location.PublicLatitude),
		list.Location.Name, list.Location.City, list.Location.Country,
		formatTime(now), formatTime(now))
	if err != nil {
		if isUniqueViolation(err) {
			return books.List{}, services.Wrap(services.ErrConflict, "store", "create list", "share url already taken", err)
		}
		return books.List{}, fmt.Errorf("create list: %w", err)
	}
	return list, nil
}

// GetList fetches one list by id.
func (s *Store) GetList(ctx context.Context, id string) (books.List, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+listColumns+" FROM lists WHERE id = ?", id)
	return scanListRow(row, "no list with id "+id)
}

// GetListByShareURL fetches one list by its share slug.
func (s *Store) GetListByShareURL(ctx context.Context, slug string) (books.List, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+listColumns+" FROM lists WHERE share_url = ?", slug)
	return scanListRow(row, "no list with slug "+slug)
}

// ListsByOwner returns every list owned by the user, newest first.
func (s *Store) ListsByOwner(ctx context.Context, ownerID string) ([]books.List, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+listColumns+" FROM lists WHERE owner_id = ? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("lists by owner: %w", err)
	}
	defer rows.Close()

	var lists []books.List
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("lists by owner: scan: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lists by owner: %w", err)
	}
	return lists, nil
}

// UpdateListMeta overwrites a list's name, purpose, and location.
func (s *Store) UpdateListMeta(ctx context.Context, list books.List) error {
	ctx = ensureContext(ctx)
	if list.ID == "" {
		return services.Wrap(services.ErrValidation, "store", "update list", "id must not be empty", nil)
	}
	res, err := s.execWithRetry(ctx, `
UPDATE lists SET name = ?, purpose = ?,
    exact_latitude = ?, exact_longitude = ?, public_latitude = ?, public_longitude = ?,
    location_name = ?, city = ?, country = ?, updated_at = ?
WHERE id = ?`,
		list.Name, string(list.Purpose),
		nullCoord(list.Location.ExactLatitude, list.Location.ExactLongitude),
		nullCoord(list.Location.ExactLongitude, list.Location.ExactLatitude),
		nullCoord(list.Location.PublicLatitude, list.Location.PublicLongitude),
		nullCoord(list.Location.PublicLongitude, list.Location.PublicLatitude),
		list.Location.Name, list.Location.City, list.Location.Country,
		formatTime(time.Now()), list.ID)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update list: rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "update list", "no list with id "+list.ID, nil)
	}
	return nil
}

// DeleteList removes a list, its memberships, and any books left orphaned
// by the removal.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	bookIDs, err := s.memberBookIDs(ctx, id)
	if err != nil {
		return err
	}

	res, err := s.execWithRetry(ctx, "DELETE FROM lists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete list: rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "delete list", "no list with id "+id, nil)
	}

	s.cleanupOrphans(ctx, bookIDs)
	return nil
}

func (s *Store) touchList(ctx context.Context, tx *sql.Tx, listID string) error {
	_, err := tx.ExecContext(ctx, "UPDATE lists SET updated_at = ? WHERE id = ?",
		formatTime(time.Now()), listID)
	if err != nil {
		return fmt.Errorf("touch list: %w", err)
	}
	return nil
}

func scanListRow(row *sql.Row, missing string) (books.List, error) {
	list, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return books.List{}, services.Wrap(services.ErrNotFound, "store", "get list", missing, nil)
	}
	if err != nil {
		return books.List{}, fmt.Errorf("get list: %w", err)
	}
	return list, nil
}

func scanList(row rowScanner) (books.List, error) {
	var (
		list               books.List
		purpose            string
		exactLat, exactLng sql.NullFloat64
		pubLat, pubLng     sql.NullFloat64
		created, updated   string
	)
	err := row.Scan(&list.ID, &list.Name, &list.ShareURL, &purpose, &list.OwnerID,
		&exactLat, &exactLng, &pubLat, &pubLng,
		&list.Location.Name, &list.Location.City, &list.Location.Country,
		&created, &updated)
	if err != nil {
		return books.List{}, err
	}
	list.Purpose = books.ListPurpose(purpose)
	if exactLat.Valid && exactLng.Valid {
		list.Location.ExactLatitude = exactLat.Float64
		list.Location.ExactLongitude = exactLng.Float64
	}
	if pubLat.Valid && pubLng.Valid {
		list.Location.PublicLatitude = pubLat.Float64
		list.Location.PublicLongitude = pubLng.Float64
	}
	list.CreatedAt = parseTime(created)
	list.UpdatedAt = parseTime(updated)
	return list, nil
}

// nullCoord stores a coordinate pair as NULL when both members are zero,
// which is how "no location" is represented.
func nullCoord(value, partner float64) any {
	if value == 0 && partner == 0 {
		return nil
	}
	return value
}
