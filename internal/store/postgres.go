// Package store implements the record loader and exchange sink the query
// pipeline runs against: the Postgres document store, the Redis and
// in-process record caches in front of it, and the Elasticsearch audit index.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"customer-query-service/internal/common/logger"
	"customer-query-service/internal/common/metrics"
	"customer-query-service/internal/common/validation"
	"customer-query-service/internal/record"
)

var (
	ErrRecordNotFound = errors.New("RECORD_NOT_FOUND")
	ErrInvalidRecord  = errors.New("INVALID_RECORD")
	ErrStoreFailed    = errors.New("RECORD_STORE_FAILED")
)

// PostgresRecordStore reads customer documents stored as JSONB, one row per
// customer.
type PostgresRecordStore struct {
	db     *sql.DB
	query  string
	logger logger.Logger
}

func NewPostgresRecordStore(db *sql.DB, table string, log logger.Logger) *PostgresRecordStore {
	return &PostgresRecordStore{
		db:     db,
		query:  "SELECT document FROM " + pq.QuoteIdentifier(table) + " WHERE customer_id = $1",
		logger: log.With(map[string]interface{}{"component": "record-store"}),
	}
}

func (s *PostgresRecordStore) LoadCustomerRecord(ctx context.Context, customerID string) (record.Record, error) {
	start := time.Now()
	defer func() { metrics.RecordLoadDuration.Observe(time.Since(start).Seconds()) }()

	var raw []byte
	err := s.db.QueryRowContext(ctx, s.query, customerID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, customerID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		s.logger.Error("stored customer document is unusable", map[string]interface{}{
			"customerId": customerID,
			"error":      err.Error(),
		})
		return nil, err
	}
	return rec, nil
}

func decodeRecord(raw []byte) (record.Record, error) {
	var rec record.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := validation.ValidateRecord(rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return rec, nil
}
