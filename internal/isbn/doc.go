// Package isbn validates and normalizes ISBN-10 and ISBN-13 identifiers.
//
// Validation is pure checksum arithmetic. Callers drop invalid ISBNs rather
// than rejecting the surrounding record; an extracted mention with a bad
// ISBN but a good author or publisher is still usable.
package isbn
