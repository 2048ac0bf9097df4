package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheCorrupted is returned when a stored value cannot be decoded
	ErrCacheCorrupted = errors.New("cache data corrupted")
)

// CacheStats holds cache performance metrics
type CacheStats struct {
	Capacity int64 // Maximum capacity in bytes

	Size      int64 // Current size in bytes, after compression
	RawSize   int64 // Current size in bytes, before compression
	ItemCount int64 // Number of items in cache

	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64 // hits / (hits + misses)

	LastAccess time.Time
	LastEvict  time.Time
}

// CacheMetadata contains metadata about a cached item
type CacheMetadata struct {
	Key       string
	Size      int64 // Stored size in bytes
	RawSize   int64 // Size of the value as returned by Get
	Timestamp time.Time
	Hits      int64
}

// Cache defines the interface for cache implementations
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Delete(key string)
	Clear()
	Contains(key string) bool
	Stats() CacheStats
}

// Key derives a fixed-length cache key from its parts.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:16])
}
