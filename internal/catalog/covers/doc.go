// Package covers implements the cover lookup service client. The service
// resolves high-resolution jacket images by title and author or by ISBN,
// and is tried before catalog image links during enrichment because its
// scans beat thumbnail-grade catalog art.
package covers
