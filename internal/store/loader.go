// internal/store/loader.go
package store

import (
	"context"
	"fmt"

	"customer-query-service/internal/common/logger"
	"customer-query-service/internal/common/metrics"
	"customer-query-service/internal/record"
)

// RecordSource is the authoritative record store.
type RecordSource interface {
	LoadCustomerRecord(ctx context.Context, customerID string) (record.Record, error)
}

// CachedLoader reads through the local cache, then Redis, then the source.
// Either cache may be nil. Redis failures degrade to a miss.
type CachedLoader struct {
	source RecordSource
	local  *LocalRecordCache
	shared *RedisRecordCache
	logger logger.Logger
}

func NewCachedLoader(source RecordSource, local *LocalRecordCache, shared *RedisRecordCache, log logger.Logger) *CachedLoader {
	return &CachedLoader{
		source: source,
		local:  local,
		shared: shared,
		logger: log.With(map[string]interface{}{"component": "record-loader"}),
	}
}

func (l *CachedLoader) LoadCustomerRecord(ctx context.Context, customerID string) (record.Record, error) {
	if l.local != nil {
		if rec, ok := l.local.Get(customerID); ok {
			metrics.RecordCacheLookups.WithLabelValues("local", "hit").Inc()
			return rec, nil
		}
		metrics.RecordCacheLookups.WithLabelValues("local", "miss").Inc()
	}

	if l.shared != nil {
		rec, ok, err := l.shared.Get(ctx, customerID)
		switch {
		case err != nil:
			metrics.RecordCacheLookups.WithLabelValues("redis", "error").Inc()
			l.logger.WithError(err).Warn("shared record cache unavailable", map[string]interface{}{"customerId": customerID})
		case ok:
			metrics.RecordCacheLookups.WithLabelValues("redis", "hit").Inc()
			l.admitLocal(customerID, rec)
			return rec, nil
		default:
			metrics.RecordCacheLookups.WithLabelValues("redis", "miss").Inc()
		}
	}

	rec, err := l.source.LoadCustomerRecord(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if l.shared != nil {
		if err := l.shared.Set(ctx, customerID, rec); err != nil {
			l.logger.WithError(err).Warn("record not written to shared cache", map[string]interface{}{"customerId": customerID})
		}
	}
	l.admitLocal(customerID, rec)

	l.logger.Debug("customer record loaded from store", map[string]interface{}{"customerId": customerID})
	return rec, nil
}

func (l *CachedLoader) admitLocal(customerID string, rec record.Record) {
	if l.local != nil {
		l.local.Set(customerID, rec)
	}
}

// Invalidate drops customerID from both cache layers.
func (l *CachedLoader) Invalidate(ctx context.Context, customerID string) error {
	if l.local != nil {
		l.local.Delete(customerID)
	}
	if l.shared != nil {
		if err := l.shared.Delete(ctx, customerID); err != nil {
			return fmt.Errorf("invalidate %s: %w", customerID, err)
		}
	}
	return nil
}
