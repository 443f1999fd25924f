package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is the persisted ledger row for one tracked-token swap.
// TxHash is the natural key; no two stored records may share one. Records are
// never mutated by the pipeline after creation.
type TransactionRecord struct {
	ID        int64
	Price     decimal.Decimal
	Balance   decimal.Decimal
	Amount    decimal.Decimal
	Type      string
	TxHash    string
	Timestamp string
	CreatedAt time.Time
}

// ErrInvalidRecord wraps per-field validation failures.
var ErrInvalidRecord = errors.New("invalid transaction record")

// Validate checks required fields and reports every failing field.
// Validation failures are terminal for an event: the source transaction
// will not change, so they are never retried.
func (r *TransactionRecord) Validate() error {
	var fields []string

	if r.TxHash == "" {
		fields = append(fields, "txhash: required")
	}
	if r.Type != string(SideBuy) && r.Type != string(SideSell) {
		fields = append(fields, fmt.Sprintf("type: must be %q or %q, got %q", SideBuy, SideSell, r.Type))
	}
	if r.Amount.IsNegative() {
		fields = append(fields, "amount: must not be negative")
	}
	if r.Price.IsNegative() {
		fields = append(fields, "price: must not be negative")
	}
	if r.Balance.IsNegative() {
		fields = append(fields, "balance: must not be negative")
	}

	if len(fields) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(fields, "; "))
	}
	return nil
}
