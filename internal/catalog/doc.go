// Package catalog defines the normalized track model and the pure functions
// that operate on it: raw record normalization, catalog deduplication, genre
// classification, candidate matching, and library summarization.
//
// Nothing in this package performs I/O. Raw records arrive as loosely typed
// JSON objects ([RawRecord]) because the upstream API changes field names
// between versions; all schema probing is expressed as ordered candidate
// lookups so the tolerance is testable in isolation.
package catalog
