package memory

import (
	"context"
	"sync"

	"solana-wallet-monitor/internal/domain"
	"solana-wallet-monitor/internal/storage"
)

// SwapArchive is an in-memory implementation of storage.SwapArchive.
type SwapArchive struct {
	mu    sync.RWMutex
	swaps []*domain.ArchivedSwap
}

// NewSwapArchive creates a new in-memory swap archive.
func NewSwapArchive() *SwapArchive {
	return &SwapArchive{}
}

// Compile-time interface check.
var _ storage.SwapArchive = (*SwapArchive)(nil)

// Insert appends one archived swap.
func (a *SwapArchive) Insert(_ context.Context, s *domain.ArchivedSwap) error {
	if s == nil {
		return storage.ErrInvalidInput
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	stored := *s
	a.swaps = append(a.swaps, &stored)
	return nil
}

// GetRecent retrieves the most recent archived swaps, newest first.
func (a *SwapArchive) GetRecent(_ context.Context, limit int) ([]*domain.ArchivedSwap, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	n := len(a.swaps)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]*domain.ArchivedSwap, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		swap := *a.swaps[i]
		out = append(out, &swap)
	}
	return out, nil
}
