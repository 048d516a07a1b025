// Package kv provides the key/value persistence layer behind the local
// schedule cache.
//
// # Overview
//
// Repository is a flat byte-oriented store: every value lives under a string
// key and the store may also hold keys written by other components. Callers
// (see internal/cache) are responsible for decoding values and skipping keys
// they do not understand.
//
// Implementations
//
//   - SQLiteRepository: table cache_entries(key, value) over dbx.DBTX
//   - RedisRepository: plain string keys under a configurable prefix
//   - MemoryRepository: map-backed, for tests and ephemeral runs
//
// Get returns (nil, nil) when the key is absent.
package kv
