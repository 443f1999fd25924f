package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-wallet-monitor/internal/domain"
	"solana-wallet-monitor/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
// The unique index on txhash is the authoritative duplicate guard: a
// concurrent insert of the same signature from another handler or process
// surfaces here as ErrDuplicateKey.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

const transactionColumns = `id, price, balance, amount, type, txhash, timestamp, created_at`

// Insert adds a new record. Returns ErrDuplicateKey if txhash exists.
func (s *TransactionStore) Insert(ctx context.Context, r *domain.TransactionRecord) error {
	query := `
		INSERT INTO transactions (price, balance, amount, type, txhash, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, query,
		r.Price,
		r.Balance,
		r.Amount,
		r.Type,
		r.TxHash,
		r.Timestamp,
	).Scan(&r.ID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByTxHash retrieves a record by its transaction hash.
func (s *TransactionStore) GetByTxHash(ctx context.Context, txhash string) (*domain.TransactionRecord, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE txhash = $1`

	r, err := scanTransaction(s.pool.QueryRow(ctx, query, txhash))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get transaction by txhash: %w", err)
	}
	return r, nil
}

// GetByID retrieves a record by its ID.
func (s *TransactionStore) GetByID(ctx context.Context, id int64) (*domain.TransactionRecord, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	r, err := scanTransaction(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return r, nil
}

// GetAll retrieves all records, newest first.
func (s *TransactionStore) GetAll(ctx context.Context) ([]*domain.TransactionRecord, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY id DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all transactions: %w", err)
	}
	defer rows.Close()

	var records []*domain.TransactionRecord
	for rows.Next() {
		r, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return records, nil
}

// Update replaces the mutable fields of an existing record.
func (s *TransactionStore) Update(ctx context.Context, r *domain.TransactionRecord) error {
	query := `
		UPDATE transactions
		SET price = $2, balance = $3, amount = $4, type = $5, txhash = $6, timestamp = $7
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		r.ID,
		r.Price,
		r.Balance,
		r.Amount,
		r.Type,
		r.TxHash,
		r.Timestamp,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes a record by ID.
func (s *TransactionStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanTransaction scans one row into a TransactionRecord.
func scanTransaction(row pgx.Row) (*domain.TransactionRecord, error) {
	var r domain.TransactionRecord
	err := row.Scan(
		&r.ID,
		&r.Price,
		&r.Balance,
		&r.Amount,
		&r.Type,
		&r.TxHash,
		&r.Timestamp,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
