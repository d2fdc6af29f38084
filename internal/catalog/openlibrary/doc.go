// Package openlibrary implements the broad-coverage catalog backend. Its
// records are thin (no descriptions or ratings) but it indexes editions the
// rich catalog misses, so it widens recall and supplies fallback covers.
package openlibrary
