package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bookdroplist/internal/books"
	"bookdroplist/internal/services"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustCreateList(t *testing.T, s *Store, name, slug, owner string) books.List {
	t.Helper()
	list, err := s.CreateList(context.Background(), books.List{
		Name:     name,
		ShareURL: slug,
		OwnerID:  owner,
	})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	return list
}

func mustInsertBook(t *testing.T, s *Store, title, author string) books.Book {
	t.Helper()
	book, err := s.InsertOrGetBook(context.Background(), books.Book{Title: title, Author: author})
	if err != nil {
		t.Fatalf("insert book: %v", err)
	}
	return book
}

func TestInsertOrGetBookReconcilesIdentity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.InsertOrGetBook(ctx, books.Book{
		Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593",
		Categories: []string{"Fiction", "Science Fiction"},
	})
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	second, err := s.InsertOrGetBook(ctx, books.Book{Title: "Dune", Author: "Frank Herbert"})
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("same identity should reconcile to one row: %s vs %s", first.ID, second.ID)
	}
	if second.ISBN != "9780441013593" {
		t.Errorf("reconciled row should carry the original metadata, got %+v", second)
	}
	if len(second.Categories) != 2 {
		t.Errorf("categories should round-trip, got %v", second.Categories)
	}

	other, err := s.InsertOrGetBook(ctx, books.Book{Title: "Dune", Author: "Brian Herbert"})
	if err != nil {
		t.Fatalf("different author: %v", err)
	}
	if other.ID == first.ID {
		t.Error("different author must be a different row")
	}
}

func TestInsertOrGetBookRequiresTitle(t *testing.T) {
	s := newTestStore(t)
	_, err := s.InsertOrGetBook(context.Background(), books.Book{Author: "Nobody"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReplaceListBooksResequences(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	list := mustCreateList(t, s, "Shelf", "slug-1", "user-1")
	a := mustInsertBook(t, s, "Alpha", "A")
	b := mustInsertBook(t, s, "Beta", "B")
	c := mustInsertBook(t, s, "Gamma", "C")

	if err := s.ReplaceListBooks(ctx, list.ID, []string{a.ID, b.ID, c.ID}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	// Reorder and drop one; duplicate ids collapse.
	if err := s.ReplaceListBooks(ctx, list.ID, []string{c.ID, a.ID, c.ID}); err != nil {
		t.Fatalf("replace again: %v", err)
	}

	memberships, err := s.Positions(ctx, list.ID)
	if err != nil {
		t.Fatalf("positions: %v", err)
	}
	if len(memberships) != 2 {
		t.Fatalf("memberships = %d", len(memberships))
	}
	for i, m := range memberships {
		if m.Position != i {
			t.Errorf("positions must be gap-free, got %d at index %d", m.Position, i)
		}
	}
	if memberships[0].BookID != c.ID || memberships[1].BookID != a.ID {
		t.Errorf("order not preserved: %+v", memberships)
	}

	// The dropped book was referenced nowhere else and must be gone.
	if _, err := s.GetBook(ctx, b.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("orphaned book should be deleted, got %v", err)
	}
}

func TestReplaceKeepsBooksSharedWithOtherLists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := mustCreateList(t, s, "First", "slug-1", "user-1")
	second := mustCreateList(t, s, "Second", "slug-2", "user-1")
	shared := mustInsertBook(t, s, "Shared", "S")

	if err := s.ReplaceListBooks(ctx, first.ID, []string{shared.ID}); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceListBooks(ctx, second.ID, []string{shared.ID}); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceListBooks(ctx, first.ID, nil); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetBook(ctx, shared.ID); err != nil {
		t.Errorf("book still referenced by another list must survive: %v", err)
	}
}

func TestAppendBooksSkipsPresent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	list := mustCreateList(t, s, "Shelf", "slug-1", "user-1")
	a := mustInsertBook(t, s, "Alpha", "A")
	b := mustInsertBook(t, s, "Beta", "B")

	if err := s.ReplaceListBooks(ctx, list.ID, []string{a.ID}); err != nil {
		t.Fatal(err)
	}
	added, err := s.AppendBooks(ctx, list.ID, []string{a.ID, b.ID})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}

	ordered, err := s.ListBooks(ctx, list.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ordered) != 2 || ordered[0].ID != a.ID || ordered[1].ID != b.ID {
		t.Errorf("ordered = %v", ordered)
	}
}

func TestRemoveBookClosesGapAndCleansOrphan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	list := mustCreateList(t, s, "Shelf", "slug-1", "user-1")
	a := mustInsertBook(t, s, "Alpha", "A")
	b := mustInsertBook(t, s, "Beta", "B")
	c := mustInsertBook(t, s, "Gamma", "C")
	if err := s.ReplaceListBooks(ctx, list.ID, []string{a.ID, b.ID, c.ID}); err != nil {
		t.Fatal(err)
	}

	if err := s.RemoveBook(ctx, list.ID, b.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	memberships, err := s.Positions(ctx, list.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(memberships) != 2 || memberships[0].Position != 0 || memberships[1].Position != 1 {
		t.Errorf("positions after removal = %+v", memberships)
	}
	if _, err := s.GetBook(ctx, b.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("removed orphan should be deleted, got %v", err)
	}

	if err := s.RemoveBook(ctx, list.ID, b.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("removing a non-member should be not found, got %v", err)
	}
}

func TestOrphanCleanupFailureIsNonFatal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stray := mustInsertBook(t, s, "Stray", "S")

	dead, cancel := context.WithCancel(ctx)
	cancel()
	// A cleanup that cannot reach the database only logs; the row stays
	// behind for the next drop to retry.
	s.cleanupOrphans(dead, []string{stray.ID})
	if _, err := s.GetBook(ctx, stray.ID); err != nil {
		t.Errorf("failed cleanup must leave the row intact: %v", err)
	}

	s.cleanupOrphans(ctx, []string{stray.ID})
	if _, err := s.GetBook(ctx, stray.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("retry should collect the orphan, got %v", err)
	}
}

func TestDeleteListCleansOrphans(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doomed := mustCreateList(t, s, "Doomed", "slug-1", "user-1")
	keeper := mustCreateList(t, s, "Keeper", "slug-2", "user-1")
	only := mustInsertBook(t, s, "Only Here", "A")
	shared := mustInsertBook(t, s, "Shared", "B")
	if err := s.ReplaceListBooks(ctx, doomed.ID, []string{only.ID, shared.ID}); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceListBooks(ctx, keeper.ID, []string{shared.ID}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteList(ctx, doomed.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	if _, err := s.GetList(ctx, doomed.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("list should be gone, got %v", err)
	}
	if _, err := s.GetBook(ctx, only.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("orphan should be gone, got %v", err)
	}
	if _, err := s.GetBook(ctx, shared.ID); err != nil {
		t.Errorf("shared book must survive: %v", err)
	}
}

func TestListLookupAndShareSlugUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := mustCreateList(t, s, "", "slug-1", "user-1")
	if created.Name != books.DefaultListName {
		t.Errorf("blank name should default, got %q", created.Name)
	}
	if created.Purpose != books.PurposeSharing {
		t.Errorf("blank purpose should default to sharing, got %q", created.Purpose)
	}

	bySlug, err := s.GetListByShareURL(ctx, "slug-1")
	if err != nil {
		t.Fatalf("by slug: %v", err)
	}
	if bySlug.ID != created.ID {
		t.Errorf("slug lookup returned %s", bySlug.ID)
	}

	_, err = s.CreateList(ctx, books.List{Name: "Dup", ShareURL: "slug-1"})
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("duplicate slug should conflict, got %v", err)
	}

	mine, err := s.ListsByOwner(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 {
		t.Errorf("owner should have 1 list, got %d", len(mine))
	}
}

func TestUpdateListMetaAndLocationRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	list := mustCreateList(t, s, "Shelf", "slug-1", "user-1")
	if list.Location.ExactLatitude != 0 {
		t.Fatalf("new list should have no location")
	}

	list.Name = "Corner Shelf"
	list.Purpose = books.PurposeMiniLibrary
	list.Location = books.Location{
		ExactLatitude:   52.52,
		ExactLongitude:  13.405,
		PublicLatitude:  52.5215,
		PublicLongitude: 13.4038,
		Name:            "Kiezregal",
		City:            "Berlin",
		Country:         "Germany",
	}
	if err := s.UpdateListMeta(ctx, list); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetList(ctx, list.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Corner Shelf" || got.Purpose != books.PurposeMiniLibrary {
		t.Errorf("meta = %+v", got)
	}
	if got.Location.ExactLatitude != 52.52 || got.Location.City != "Berlin" {
		t.Errorf("location = %+v", got.Location)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("updated_at should advance: %v vs %v", got.UpdatedAt, got.CreatedAt)
	}
}
