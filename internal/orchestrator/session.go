// internal/orchestrator/session.go
package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"customer-query-service/internal/record"
)

// RecordLoader fetches a customer's record from the document store.
type RecordLoader interface {
	LoadCustomerRecord(ctx context.Context, customerID string) (record.Record, error)
}

// RecordInvalidator is implemented by loaders that cache records.
type RecordInvalidator interface {
	Invalidate(ctx context.Context, customerID string) error
}

// Session is the per-conversation context every query runs against. It
// holds the customer's record once loaded; the record is read-only and is
// replaced wholesale by Refresh.
type Session struct {
	ID         string
	CustomerID string

	loader RecordLoader
	record atomic.Pointer[record.Record]
}

// NewSession starts a session for customerID. An empty id gets a fresh one.
func NewSession(id, customerID string, loader RecordLoader) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{ID: id, CustomerID: customerID, loader: loader}
}

// NewSessionWithRecord starts a session around an already loaded record.
func NewSessionWithRecord(id, customerID string, rec record.Record) *Session {
	s := NewSession(id, customerID, nil)
	s.record.Store(&rec)
	return s
}

// Record returns the cached record, loading it on first use. Concurrent
// first calls may both load; the last store wins.
func (s *Session) Record(ctx context.Context) (record.Record, error) {
	if p := s.record.Load(); p != nil {
		return *p, nil
	}
	return s.load(ctx)
}

// Loaded reports whether the session holds a record.
func (s *Session) Loaded() bool { return s.record.Load() != nil }

// Refresh drops the cached record, invalidates any cache layer behind the
// loader and loads the record again.
func (s *Session) Refresh(ctx context.Context) error {
	if s.loader == nil {
		return fmt.Errorf("session %s has no record loader", s.ID)
	}
	if inv, ok := s.loader.(RecordInvalidator); ok {
		if err := inv.Invalidate(ctx, s.CustomerID); err != nil {
			return fmt.Errorf("invalidate record cache: %w", err)
		}
	}
	s.record.Store(nil)
	_, err := s.load(ctx)
	return err
}

func (s *Session) load(ctx context.Context) (record.Record, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("session %s has no record loader", s.ID)
	}
	rec, err := s.loader.LoadCustomerRecord(ctx, s.CustomerID)
	if err != nil {
		return nil, err
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("record for customer %s is empty", s.CustomerID)
	}
	s.record.Store(&rec)
	return rec, nil
}
