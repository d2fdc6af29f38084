// Package lists implements the application service behind every list
// operation: creation from a shelf photo or manual input, retrieval with
// permission-aware location redaction, ordered membership editing,
// community shelf scanning, and deletion.
//
// The service owns the policy decisions. Stores persist, catalogs search,
// the vision client reads spines; this package decides who may do what
// and in which order the pieces run.
package lists
