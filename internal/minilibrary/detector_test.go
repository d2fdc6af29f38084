package minilibrary

import (
	"testing"

	"bookdroplist/internal/books"
)

func book(title, author string) books.Book {
	return books.Book{Title: title, Author: author}
}

func TestSimilarityTiers(t *testing.T) {
	cases := []struct {
		name string
		a, b books.Book
		want float64
	}{
		{"identical", book("Dune", "Frank Herbert"), book("Dune", "Frank Herbert"), 0.95},
		{"normalized identity", book("Dune!", "FRANK HERBERT"), book("dune", "Frank Herbert"), 0.95},
		{"title only", book("Dune", "Frank Herbert"), book("Dune", ""), 0.7},
		{"different authors same title", book("Collected Poems", "Auden"), book("Collected Poems", "Plath"), 0.7},
		{"unrelated", book("Dune", "Frank Herbert"), book("Emma", "Jane Austen"), 0},
		{"empty title", book("", "Somebody"), book("Dune", ""), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Similarity(tc.a, tc.b); got != tc.want {
				t.Errorf("Similarity = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSimilarityContainmentTiers(t *testing.T) {
	// A truncated spine reading is a substring of the full record and
	// still counts as a field match.
	a := book("The Lord of the Rings: The Two Towers", "J.R.R. Tolkien")
	b := book("Two Towers", "Tolkien")
	if got := Similarity(a, b); got != 0.95 {
		t.Errorf("contained title and author should score 0.95, got %v", got)
	}
	c := book("Two Towers", "Someone Else")
	if got := Similarity(a, c); got != 0.7 {
		t.Errorf("contained title alone should score 0.7, got %v", got)
	}
}

func TestSimilarityShortFragmentDoesNotOverMatch(t *testing.T) {
	// Two shared words against a four-word title is exactly half, which
	// the gate rejects. Dividing by the shorter side would report 0.8.
	a := book("Two Towers Return King", "")
	b := book("Return Towers", "")
	if got := Similarity(a, b); got != 0 {
		t.Errorf("fragment should fall below the overlap gate, got %v", got)
	}
}

func TestSimilarityPartialTitleOverlap(t *testing.T) {
	a := book("The Lord of the Rings: The Two Towers", "J.R.R. Tolkien")
	b := book("Lord of the Rings Two Towers", "")
	got := Similarity(a, b)
	if got <= 0.5 || got > 0.8 {
		t.Errorf("partial overlap should land in the discounted band, got %v", got)
	}
}

func TestDetectProposesAddsAndRemoves(t *testing.T) {
	detector := New(DefaultThresholds())
	inventory := []books.Book{
		book("Dune", "Frank Herbert"),
		book("Emma", "Jane Austen"),
	}
	// One book still on the shelf, one new arrival.
	scanned := []books.Book{
		book("dune", "frank herbert"),
		book("The Hobbit", "J.R.R. Tolkien"),
	}

	changes := detector.Detect(inventory, scanned)
	if len(changes) != 2 {
		t.Fatalf("changes = %+v", changes)
	}
	if changes[0].Action != books.ChangeAdd || changes[0].Book.Title != "The Hobbit" {
		t.Errorf("first change = %+v", changes[0])
	}
	if changes[0].Confidence != 0.8 {
		t.Errorf("add confidence = %v", changes[0].Confidence)
	}
	if changes[1].Action != books.ChangeRemove || changes[1].Book.Title != "Emma" {
		t.Errorf("second change = %+v", changes[1])
	}
	if changes[1].Confidence != 0.6 {
		t.Errorf("remove confidence = %v", changes[1].Confidence)
	}
}

func TestDetectNoChangesOnMatchingScan(t *testing.T) {
	detector := New(DefaultThresholds())
	inventory := []books.Book{book("Dune", "Frank Herbert")}
	scanned := []books.Book{book("Dune!", "FRANK HERBERT")}

	if changes := detector.Detect(inventory, scanned); len(changes) != 0 {
		t.Errorf("expected no changes, got %+v", changes)
	}
}

func TestDetectDoesNotDoubleMatchOneShelfCopy(t *testing.T) {
	detector := New(DefaultThresholds())
	inventory := []books.Book{book("Dune", "Frank Herbert")}
	scanned := []books.Book{
		book("Dune", "Frank Herbert"),
		book("Dune", "Frank Herbert"), // second physical copy
	}

	changes := detector.Detect(inventory, scanned)
	if len(changes) != 1 || changes[0].Action != books.ChangeAdd {
		t.Errorf("second copy should propose an add, got %+v", changes)
	}
}
