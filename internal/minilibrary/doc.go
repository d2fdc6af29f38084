// Package minilibrary diffs a fresh shelf scan against a community
// shelf's recorded inventory.
//
// Matching is fuzzy: spine OCR and catalog normalization drift, so two
// readings of the same physical book rarely agree byte for byte. The
// detector proposes adds and removes with confidence scores; nothing is
// applied until a person confirms, because a misread spine must never
// silently erase a book the shelf still has.
package minilibrary
