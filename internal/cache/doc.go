// Package cache provides an in-memory LRU cache for synthesized audio.
// Values are optionally compressed with zstd and the cache is bounded by the
// number of stored bytes.
package cache
