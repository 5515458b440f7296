package perft

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
)

// depthSalt spreads the depth over the key so that (hash, depth) pairs of
// the same position do not collide.
const depthSalt = 0x9E3779B97F4A7C15

// MemoryCache is a bounded in-memory Cache. Entries may be dropped under
// pressure; a miss only costs a recount.
type MemoryCache struct {
	c *ristretto.Cache[uint64, uint64]
}

// NewMemoryCache returns a cache holding up to maxEntries counts.
func NewMemoryCache(maxEntries int64) (*MemoryCache, error) {
	if maxEntries < 1 {
		return nil, fmt.Errorf("perft: cache size must be positive, got %d", maxEntries)
	}
	c, err := ristretto.NewCache(&ristretto.Config[uint64, uint64]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
		// Entries are counted, not sized.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("perft: new memory cache: %w", err)
	}
	return &MemoryCache{c: c}, nil
}

func memoryKey(hash uint64, depth int) uint64 {
	return hash ^ uint64(depth)*depthSalt
}

// Load implements Cache.
func (m *MemoryCache) Load(hash uint64, depth int) (uint64, bool, error) {
	n, ok := m.c.Get(memoryKey(hash, depth))
	return n, ok, nil
}

// Store implements Cache. Writes are buffered and become visible
// asynchronously; Wait flushes them.
func (m *MemoryCache) Store(hash uint64, depth int, nodes uint64) error {
	m.c.Set(memoryKey(hash, depth), nodes, 1)
	return nil
}

// Wait blocks until buffered writes are applied.
func (m *MemoryCache) Wait() {
	m.c.Wait()
}

// Close stops the cache's background goroutines.
func (m *MemoryCache) Close() {
	m.c.Close()
}
