package isbn

import "strings"

// Normalize strips hyphens and whitespace from a raw ISBN string.
func Normalize(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case '-', ' ', '\t':
		default:
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// Valid reports whether the normalized form of raw is a valid ISBN-10 or
// ISBN-13.
func Valid(raw string) bool {
	cleaned := Normalize(raw)
	return ValidISBN10(cleaned) || ValidISBN13(cleaned)
}

// ValidISBN10 reports whether s is exactly ten characters with a correct
// ISBN-10 checksum. The check character may be 'X' (value ten).
func ValidISBN10(s string) bool {
	if len(s) != 10 {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		sum += int(c-'0') * (10 - i)
	}
	expected := (11 - sum%11) % 11
	check := s[9]
	if expected == 10 {
		return check == 'X' || check == 'x'
	}
	return check == byte('0'+expected)
}

// ValidISBN13 reports whether s is exactly thirteen digits with a correct
// ISBN-13 checksum.
func ValidISBN13(s string) bool {
	if len(s) != 13 {
		return false
	}
	sum := 0
	for i := 0; i < 12; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		weight := 1
		if i%2 == 1 {
			weight = 3
		}
		sum += int(c-'0') * weight
	}
	check := s[12]
	if check < '0' || check > '9' {
		return false
	}
	expected := (10 - sum%10) % 10
	return check == byte('0'+expected)
}

// Clean returns the normalized ISBN when valid, and "" otherwise. It is the
// drop-don't-block contract: callers assign the result and carry on.
func Clean(raw string) string {
	cleaned := Normalize(raw)
	if cleaned == "" {
		return ""
	}
	if ValidISBN10(cleaned) || ValidISBN13(cleaned) {
		return cleaned
	}
	return ""
}
