// Package vision turns a photo of book spines into structured mentions.
//
// The extraction model returns a JSON array of spines it can read. The
// package sanitizes the payload (models wrap JSON in code fences), drops
// mentions too thin to identify a real book, and validates any ISBN the
// model claims to have read. Everything downstream of this package works
// on clean RawMention values.
package vision
