package ingest

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/Veraticus/rupee-flow/internal/llm"
)

// Cache remembers decoded AI results per message body so re-imports skip the model.
type Cache struct {
	store *ristretto.Cache
	ttl   time.Duration
}

// NewCache creates a cache whose entries expire after ttl. A zero ttl means 24 hours.
func NewCache(ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AI result cache: %w", err)
	}

	return &Cache{store: store, ttl: ttl}, nil
}

// Get returns the cached fields for key.
func (c *Cache) Get(key string) (llm.TransactionFields, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return llm.TransactionFields{}, false
	}
	fields, ok := v.(llm.TransactionFields)
	return fields, ok
}

// Set stores fields under key. Writes are applied asynchronously; call Wait to flush them.
func (c *Cache) Set(key string, fields llm.TransactionFields) {
	c.store.SetWithTTL(key, fields, cost(fields), c.ttl)
}

// Wait blocks until buffered writes are visible to Get.
func (c *Cache) Wait() {
	c.store.Wait()
}

// Close stops the cache's background goroutines.
func (c *Cache) Close() {
	c.store.Close()
}

func cost(f llm.TransactionFields) int64 {
	return int64(64 + len(f.Merchant) + len(f.ReferenceNumber) + len(f.AccountLastFour))
}
