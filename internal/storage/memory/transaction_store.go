// Package memory provides in-memory store implementations for tests and
// the --use-memory mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-monitor/internal/domain"
	"solana-wallet-monitor/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*domain.TransactionRecord
	byHash map[string]int64
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		nextID: 1,
		byID:   make(map[int64]*domain.TransactionRecord),
		byHash: make(map[string]int64),
	}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if txhash exists.
func (s *TransactionStore) Insert(_ context.Context, r *domain.TransactionRecord) error {
	if r == nil || r.TxHash == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byHash[r.TxHash]; exists {
		return storage.ErrDuplicateKey
	}

	stored := *r
	stored.ID = s.nextID
	s.nextID++
	s.byID[stored.ID] = &stored
	s.byHash[stored.TxHash] = stored.ID
	r.ID = stored.ID
	return nil
}

// GetByTxHash retrieves a record by transaction hash.
func (s *TransactionStore) GetByTxHash(_ context.Context, txhash string) (*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byHash[txhash]
	if !ok {
		return nil, storage.ErrNotFound
	}
	record := *s.byID[id]
	return &record, nil
}

// GetByID retrieves a record by ID.
func (s *TransactionStore) GetByID(_ context.Context, id int64) (*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	record := *r
	return &record, nil
}

// GetAll retrieves all records, newest first.
func (s *TransactionStore) GetAll(_ context.Context) ([]*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*domain.TransactionRecord, 0, len(s.byID))
	for _, r := range s.byID {
		record := *r
		records = append(records, &record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID > records[j].ID
	})
	return records, nil
}

// Update replaces the fields of an existing record.
func (s *TransactionStore) Update(_ context.Context, r *domain.TransactionRecord) error {
	if r == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[r.ID]
	if !ok {
		return storage.ErrNotFound
	}

	// A txhash change must not collide with another record.
	if r.TxHash != existing.TxHash {
		if _, taken := s.byHash[r.TxHash]; taken {
			return storage.ErrDuplicateKey
		}
		delete(s.byHash, existing.TxHash)
		s.byHash[r.TxHash] = r.ID
	}

	stored := *r
	stored.CreatedAt = existing.CreatedAt
	s.byID[r.ID] = &stored
	return nil
}

// Delete removes a record by ID.
func (s *TransactionStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.byHash, r.TxHash)
	delete(s.byID, id)
	return nil
}
