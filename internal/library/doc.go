// Package library owns the per-user catalog cache and the aggregation engine
// built on top of it.
//
// The engine drives the full-catalog crawl (saved songs plus every playlist,
// fanned out through a bounded worker pool), normalizes and deduplicates the
// results, lazily builds the artist-genre index through a configurable
// resolver strategy, and answers genre-overlap candidate queries. The cache
// is the only mutable shared state: loads and index builds are single-flight
// per user, reads against a ready snapshot run concurrently.
package library
