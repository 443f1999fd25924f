package storage

import (
	"context"

	"solana-wallet-monitor/internal/domain"
)

// TransactionStore provides access to the deduplicated transaction ledger.
// The backing store enforces txhash uniqueness; that constraint, not the
// application-level existence check, is the authoritative duplicate guard.
type TransactionStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if txhash exists.
	Insert(ctx context.Context, r *domain.TransactionRecord) error

	// GetByTxHash retrieves a record by its transaction hash.
	// Returns ErrNotFound if it does not exist.
	GetByTxHash(ctx context.Context, txhash string) (*domain.TransactionRecord, error)

	// GetByID retrieves a record by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id int64) (*domain.TransactionRecord, error)

	// GetAll retrieves all records ordered by creation, newest first.
	GetAll(ctx context.Context) ([]*domain.TransactionRecord, error)

	// Update replaces the mutable fields of an existing record.
	// Returns ErrNotFound if the record does not exist. Used only by the
	// manual-management API, never by the ingestion pipeline.
	Update(ctx context.Context, r *domain.TransactionRecord) error

	// Delete removes a record by ID. Returns ErrNotFound if not exists.
	Delete(ctx context.Context, id int64) error
}

// SwapArchive is the append-only analytics archive of every classified swap,
// written before the tracked-token gate. Duplicates are tolerated by the
// backing store; the archive is not a correctness surface.
type SwapArchive interface {
	// Insert appends one archived swap.
	Insert(ctx context.Context, s *domain.ArchivedSwap) error

	// GetRecent retrieves the most recent archived swaps, newest first.
	GetRecent(ctx context.Context, limit int) ([]*domain.ArchivedSwap, error)
}
