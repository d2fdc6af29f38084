// Package googlebooks implements the rich-metadata catalog backend. It is
// the only catalog that carries descriptions, ratings, and page counts, so
// its records win merge ties and its ISBN lookup anchors enrichment.
package googlebooks
