// Package catalog defines the shared search surface over external book
// catalogs and the merge policy that turns raw catalog hits into a single
// ranked result set.
//
// A search fans out every rewrite strategy to every configured catalog
// concurrently. Hits are deduplicated on a normalized (title, author) key,
// weighted by the strategy that produced them, and tie-broken by metadata
// richness so the most complete record wins.
package catalog
