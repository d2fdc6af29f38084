package catalog

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"The Hobbit", "the hobbit"},
		{"  Dune:  Messiah ", "dune messiah"},
		{"Cat's Cradle", "cats cradle"},
		{"Harry Potter & the Philosopher's Stone!", "harry potter the philosophers stone"},
		{"Gabriel García Márquez", "gabriel garcia marquez"},
		{"L'Étranger", "letranger"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestKeyCollapsesCatalogDrift(t *testing.T) {
	a := Key("The Alchemist", "Paulo Coelho")
	b := Key("the alchemist!", "PAULO COELHO")
	if a != b {
		t.Errorf("keys should collide: %q vs %q", a, b)
	}
	if Key("Dune", "Frank Herbert") == Key("Dune", "Brian Herbert") {
		t.Error("different authors must not collide")
	}
}

func TestFoldKeepsPlainASCII(t *testing.T) {
	if got := Fold("plain text"); got != "plain text" {
		t.Errorf("Fold = %q", got)
	}
	if got := Fold("Émile Zola"); got != "Emile Zola" {
		t.Errorf("Fold = %q", got)
	}
}
