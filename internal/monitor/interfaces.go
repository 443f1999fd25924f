// Package monitor runs the wallet activity pipeline: subscribe to log
// notifications, classify and parse DEX transactions, enrich tracked-token
// swaps, and persist them exactly once.
package monitor

import (
	"context"

	"github.com/shopspring/decimal"

	"solana-wallet-monitor/internal/solana"
)

// ChainReader is the subset of the Solana RPC client the pipeline consumes.
type ChainReader interface {
	// GetParsedTransaction retrieves a transaction by signature.
	// Returns nil when the transaction is not yet available.
	GetParsedTransaction(ctx context.Context, signature string) (*solana.ParsedTransaction, error)

	// GetTokenAccountMint resolves an SPL token account to its mint address.
	GetTokenAccountMint(ctx context.Context, account string) (string, error)

	// GetTokenBalance retrieves a wallet's balance of the given mint in
	// whole-token units.
	GetTokenBalance(ctx context.Context, wallet, mint string) (decimal.Decimal, error)
}

// PriceOracle provides current token prices.
type PriceOracle interface {
	GetPrice(ctx context.Context, mint string) (decimal.Decimal, error)
}

// LogStream delivers log notifications for transactions mentioning addresses.
type LogStream interface {
	SubscribeLogs(ctx context.Context, filter solana.LogsFilter) (<-chan solana.LogNotification, error)
}
