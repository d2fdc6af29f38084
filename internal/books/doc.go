// Package books defines the domain model shared across the pipeline: the
// persisted Book and List rows, ordered list membership, the ephemeral
// extraction and diff types, and the list purpose enum with its declarative
// location requirement.
package books
