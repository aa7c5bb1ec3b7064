// Package memory provides an in-memory implementation of the purchase.Store
// interface. This implementation is primarily intended for testing and
// local development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fincapp/unlockd/pkg/purchase"
)

// Store implements purchase.Store using an in-memory map
type Store struct {
	mu      sync.RWMutex
	records map[string]*purchase.Record
}

// New creates a new in-memory store adapter
func New() *Store {
	return &Store{
		records: make(map[string]*purchase.Record),
	}
}

// Unlock implements purchase.Store. Mirrors the Firestore semantics: a full
// overwrite of the record, timestamp assigned at write time.
func (s *Store) Unlock(_ context.Context, userID string, u purchase.Unlock) error {
	if userID == "" {
		return purchase.ErrInvalidUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[userID] = &purchase.Record{
		UserID:          userID,
		Unlocked:        true,
		PurchaseDate:    time.Now().UTC(),
		StripeSessionID: u.SessionID,
		PlanAmount:      u.Amount,
	}

	return nil
}

// Get implements purchase.Store
func (s *Store) Get(_ context.Context, userID string) (*purchase.Record, error) {
	if userID == "" {
		return nil, purchase.ErrInvalidUserID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, purchase.ErrPurchaseNotFound
	}

	// Return a copy to prevent external mutations
	recCopy := *rec
	return &recCopy, nil
}
