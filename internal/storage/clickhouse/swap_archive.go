package clickhouse

import (
	"context"
	"fmt"

	"solana-wallet-monitor/internal/domain"
	"solana-wallet-monitor/internal/storage"
)

// SwapArchive implements storage.SwapArchive using ClickHouse.
// The table is a ReplacingMergeTree keyed on (signature, wallet), so a
// replayed notification collapses to one row at merge time and inserts
// never need a duplicate check.
type SwapArchive struct {
	conn *Conn
}

// NewSwapArchive creates a new SwapArchive.
func NewSwapArchive(conn *Conn) *SwapArchive {
	return &SwapArchive{conn: conn}
}

// Compile-time interface check.
var _ storage.SwapArchive = (*SwapArchive)(nil)

// Insert appends one archived swap.
func (a *SwapArchive) Insert(ctx context.Context, s *domain.ArchivedSwap) error {
	if s == nil {
		return storage.ErrInvalidInput
	}

	batch, err := a.conn.PrepareBatch(ctx, `
		INSERT INTO swap_archive (
			wallet, dex, operation, side,
			token_in_mint, token_in_amount, token_out_mint, token_out_amount,
			signature, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		s.Wallet, s.Dex, s.Operation, s.Side,
		s.TokenInMint, s.TokenInAmount, s.TokenOutMint, s.TokenOutAmount,
		s.Signature, uint64(s.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetRecent retrieves the most recent archived swaps, newest first.
func (a *SwapArchive) GetRecent(ctx context.Context, limit int) ([]*domain.ArchivedSwap, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT wallet, dex, operation, side,
		       token_in_mint, token_in_amount, token_out_mint, token_out_amount,
		       signature, timestamp_ms
		FROM swap_archive
		ORDER BY timestamp_ms DESC
		LIMIT ?
	`

	rows, err := a.conn.Query(ctx, query, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("query recent swaps: %w", err)
	}
	defer rows.Close()

	var swaps []*domain.ArchivedSwap
	for rows.Next() {
		var s domain.ArchivedSwap
		var timestampMs uint64

		err := rows.Scan(
			&s.Wallet, &s.Dex, &s.Operation, &s.Side,
			&s.TokenInMint, &s.TokenInAmount, &s.TokenOutMint, &s.TokenOutAmount,
			&s.Signature, &timestampMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan swap archive row: %w", err)
		}

		s.Timestamp = int64(timestampMs)
		swaps = append(swaps, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap archive rows: %w", err)
	}
	return swaps, nil
}
