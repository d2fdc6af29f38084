// Package store persists books, lists, and ordered list membership in
// SQLite.
//
// Books are deduplicated by a unique (title, author) constraint; a losing
// concurrent insert recovers by re-reading the winner, so callers always
// get one canonical row per book. List membership keeps positions gap-free
// by rewriting a list's rows inside one transaction. Books referenced by
// no list are removed on the way out of membership updates.
package store
