// Package enrich turns raw spine mentions into catalog-confirmed books.
//
// Each mention follows the same ladder: a checksum-valid ISBN is looked up
// directly; otherwise the mention is rewritten into a search query and the
// top-ranked catalog hit wins. The cover service is consulted last because
// its scans beat catalog thumbnails. A mention no catalog can confirm
// still produces a book from what the spine showed; losing a real book on
// the shelf is worse than thin metadata.
package enrich
