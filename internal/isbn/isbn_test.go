package isbn

import "testing"

func TestValidISBN10(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"published isbn", "0306406152", true},
		{"check character X", "043942089X", true},
		{"lowercase x accepted", "043942089x", true},
		{"altered digit", "0306406153", false},
		{"too short", "030640615", false},
		{"letter in body", "03064O6152", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidISBN10(tc.input); got != tc.want {
				t.Fatalf("ValidISBN10(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestValidISBN13(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"published isbn", "9780306406157", true},
		{"harry potter", "9780439708180", true},
		{"altered digit", "9780306406158", false},
		{"twelve digits", "978030640615", false},
		{"fourteen digits", "97803064061570", false},
		{"non-digit check", "978030640615X", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidISBN13(tc.input); got != tc.want {
				t.Fatalf("ValidISBN13(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeStripsSeparators(t *testing.T) {
	if got := Normalize("978-0-306-40615-7"); got != "9780306406157" {
		t.Fatalf("Normalize returned %q", got)
	}
	if got := Normalize(" 0 306 40615 2 "); got != "0306406152" {
		t.Fatalf("Normalize returned %q", got)
	}
}

func TestValidAcceptsHyphenatedInput(t *testing.T) {
	if !Valid("978-0-306-40615-7") {
		t.Fatal("expected hyphenated ISBN-13 to validate")
	}
	if !Valid("0-306-40615-2") {
		t.Fatal("expected hyphenated ISBN-10 to validate")
	}
}

func TestCleanDropsInvalid(t *testing.T) {
	if got := Clean("978-0-306-40615-7"); got != "9780306406157" {
		t.Fatalf("Clean returned %q for valid input", got)
	}
	if got := Clean("1234567890123"); got != "" {
		t.Fatalf("Clean should drop invalid ISBN, got %q", got)
	}
	if got := Clean(""); got != "" {
		t.Fatalf("Clean should return empty for empty input, got %q", got)
	}
}
