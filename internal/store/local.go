// internal/store/local.go
package store

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"customer-query-service/internal/record"
)

// LocalRecordCache is the in-process layer in front of Redis. Every record
// costs 1, so size is a record count.
type LocalRecordCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewLocalRecordCache(size int64, ttl time.Duration) (*LocalRecordCache, error) {
	if size <= 0 {
		size = 1000
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: size * 10,
		MaxCost:     size,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create local record cache: %w", err)
	}
	return &LocalRecordCache{cache: cache, ttl: ttl}, nil
}

func (c *LocalRecordCache) Get(customerID string) (record.Record, bool) {
	v, ok := c.cache.Get(customerID)
	if !ok {
		return nil, false
	}
	rec, ok := v.(record.Record)
	return rec, ok
}

// Set admits rec asynchronously; a Get immediately after may still miss.
func (c *LocalRecordCache) Set(customerID string, rec record.Record) {
	c.cache.SetWithTTL(customerID, rec, 1, c.ttl)
}

func (c *LocalRecordCache) Delete(customerID string) { c.cache.Del(customerID) }

// Wait blocks until pending writes are applied.
func (c *LocalRecordCache) Wait() { c.cache.Wait() }

func (c *LocalRecordCache) Close() { c.cache.Close() }
