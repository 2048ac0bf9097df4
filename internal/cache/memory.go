package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// MemoryCache is an in-memory cache with LRU eviction bounded by the number of
// stored bytes. When compression is enabled, values are stored zstd-encoded
// and the bound applies to the compressed size.
type MemoryCache struct {
	capacity int64 // Maximum size in bytes
	size     int64 // Current stored size in bytes
	rawSize  int64 // Current size before compression

	// LRU implementation
	items    map[string]*list.Element
	eviction *list.List

	// Compression, both nil when disabled
	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu sync.Mutex

	stats CacheStats
}

// memoryCacheEntry represents an entry in the memory cache
type memoryCacheEntry struct {
	key       string
	value     []byte
	size      int64
	rawSize   int64
	timestamp time.Time
	hits      int64
}

// NewMemoryCache creates a new uncompressed memory cache with the specified
// capacity in bytes.
func NewMemoryCache(capacity int64) *MemoryCache {
	return &MemoryCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		stats: CacheStats{
			Capacity: capacity,
		},
	}
}

// NewCompressedMemoryCache creates a memory cache that stores values
// zstd-compressed at the given level (1-22, 0 selects the default).
func NewCompressedMemoryCache(capacity int64, level int) (*MemoryCache, error) {
	if level == 0 {
		level = 3
	}

	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	c := NewMemoryCache(capacity)
	c.encoder = enc
	c.decoder = dec
	return c, nil
}

// Compressed reports whether values are stored compressed.
func (c *MemoryCache) Compressed() bool {
	return c.encoder != nil
}

// Get retrieves a value from the cache. A value that fails to decompress is
// dropped and reported as a miss.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	entry := elem.Value.(*memoryCacheEntry)
	value, err := c.decode(entry.value)
	if err != nil {
		c.removeElement(elem)
		c.stats.Misses++
		return nil, false
	}

	// Move to front (most recently used)
	c.eviction.MoveToFront(elem)
	entry.hits++

	c.stats.Hits++
	return value, true
}

// Put stores a value in the cache.
func (c *MemoryCache) Put(key string, value []byte) error {
	stored := c.encode(value)

	c.mu.Lock()
	defer c.mu.Unlock()

	storedSize := int64(len(stored))
	rawSize := int64(len(value))

	if storedSize > c.capacity {
		return ErrItemTooLarge
	}

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}

	for c.size+storedSize > c.capacity && c.eviction.Len() > 0 {
		c.evictOldest()
	}

	entry := &memoryCacheEntry{
		key:       key,
		value:     stored,
		size:      storedSize,
		rawSize:   rawSize,
		timestamp: time.Now(),
	}

	c.items[key] = c.eviction.PushFront(entry)
	c.size += storedSize
	c.rawSize += rawSize

	return nil
}

// Delete removes an entry from the cache.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.eviction.Init()
	c.size = 0
	c.rawSize = 0
}

// Size returns the current stored size in bytes.
func (c *MemoryCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.size
}

// Stats returns cache statistics.
func (c *MemoryCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = c.size
	stats.RawSize = c.rawSize
	stats.ItemCount = int64(len(c.items))

	if stats.Hits+stats.Misses > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Hits+stats.Misses)
	}

	return stats
}

// Metadata returns the metadata of key without touching the LRU order.
func (c *MemoryCache) Metadata(key string) (CacheMetadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return CacheMetadata{}, false
	}

	entry := elem.Value.(*memoryCacheEntry)
	return CacheMetadata{
		Key:       entry.key,
		Size:      entry.size,
		RawSize:   entry.rawSize,
		Timestamp: entry.timestamp,
		Hits:      entry.hits,
	}, true
}

// Resize changes the cache capacity.
func (c *MemoryCache) Resize(newCapacity int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.capacity = newCapacity
	c.stats.Capacity = newCapacity

	for c.size > c.capacity && c.eviction.Len() > 0 {
		c.evictOldest()
	}
}

// Contains checks if a key exists in the cache without updating LRU.
func (c *MemoryCache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]
	return ok
}

// Close releases the compression codecs. The cache must not be used after.
func (c *MemoryCache) Close() {
	c.Clear()
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
}

func (c *MemoryCache) encode(value []byte) []byte {
	if c.encoder == nil {
		out := make([]byte, len(value))
		copy(out, value)
		return out
	}
	return c.encoder.EncodeAll(value, make([]byte, 0, len(value)/2))
}

func (c *MemoryCache) decode(stored []byte) ([]byte, error) {
	if c.decoder == nil {
		return stored, nil
	}
	out, err := c.decoder.DecodeAll(stored, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}
	return out, nil
}

// evictOldest removes the least recently used item (must be called with lock held).
func (c *MemoryCache) evictOldest() {
	elem := c.eviction.Back()
	if elem != nil {
		c.removeElement(elem)
		c.stats.Evictions++
		c.stats.LastEvict = time.Now()
	}
}

// removeElement removes an element from the cache (must be called with lock held).
func (c *MemoryCache) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	entry := elem.Value.(*memoryCacheEntry)
	delete(c.items, entry.key)
	c.size -= entry.size
	c.rawSize -= entry.rawSize
}

var _ Cache = (*MemoryCache)(nil)
