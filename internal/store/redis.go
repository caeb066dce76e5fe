// internal/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"customer-query-service/internal/record"
)

const recordKeyPrefix = "customer:record:"

// RedisRecordCache keeps a TTL'd JSON copy of each record so replicas share
// one load.
type RedisRecordCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisRecordCache(client redis.Cmdable, ttl time.Duration) *RedisRecordCache {
	return &RedisRecordCache{client: client, ttl: ttl}
}

func recordKey(customerID string) string { return recordKeyPrefix + customerID }

// Get returns the cached record. A miss is (nil, false, nil).
func (c *RedisRecordCache) Get(ctx context.Context, customerID string) (record.Record, bool, error) {
	val, err := c.client.Get(ctx, recordKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	rec, err := decodeRecord(val)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (c *RedisRecordCache) Set(ctx context.Context, customerID string, rec record.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := c.client.Set(ctx, recordKey(customerID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisRecordCache) Delete(ctx context.Context, customerID string) error {
	if err := c.client.Del(ctx, recordKey(customerID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
