package api

import (
	"time"

	"github.com/shopspring/decimal"

	"solana-wallet-monitor/internal/domain"
)

// transactionRequest is the request body for create and update.
type transactionRequest struct {
	Price     decimal.Decimal `json:"price"`
	Balance   decimal.Decimal `json:"balance"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	TxHash    string          `json:"txhash"`
	Timestamp string          `json:"timestamp"`
}

func (r *transactionRequest) toRecord() *domain.TransactionRecord {
	return &domain.TransactionRecord{
		Price:     r.Price,
		Balance:   r.Balance,
		Amount:    r.Amount,
		Type:      r.Type,
		TxHash:    r.TxHash,
		Timestamp: r.Timestamp,
	}
}

// transactionView is the response shape for ledger records.
type transactionView struct {
	ID        int64           `json:"id"`
	Price     decimal.Decimal `json:"price"`
	Balance   decimal.Decimal `json:"balance"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	TxHash    string          `json:"txhash"`
	Timestamp string          `json:"timestamp"`
	CreatedAt time.Time       `json:"created_at"`
}

func toTransactionView(r *domain.TransactionRecord) transactionView {
	return transactionView{
		ID:        r.ID,
		Price:     r.Price,
		Balance:   r.Balance,
		Amount:    r.Amount,
		Type:      r.Type,
		TxHash:    r.TxHash,
		Timestamp: r.Timestamp,
		CreatedAt: r.CreatedAt,
	}
}

func toTransactionViews(records []*domain.TransactionRecord) []transactionView {
	views := make([]transactionView, 0, len(records))
	for _, r := range records {
		views = append(views, toTransactionView(r))
	}
	return views
}

// archivedSwapView is the response shape for archive rows.
type archivedSwapView struct {
	Wallet         string `json:"wallet"`
	Dex            string `json:"dex"`
	Operation      string `json:"operation"`
	Side           string `json:"side"`
	TokenInMint    string `json:"token_in_mint"`
	TokenInAmount  string `json:"token_in_amount"`
	TokenOutMint   string `json:"token_out_mint"`
	TokenOutAmount string `json:"token_out_amount"`
	Signature      string `json:"signature"`
	Timestamp      int64  `json:"timestamp_ms"`
}

func toArchivedSwapViews(swaps []*domain.ArchivedSwap) []archivedSwapView {
	views := make([]archivedSwapView, 0, len(swaps))
	for _, s := range swaps {
		views = append(views, archivedSwapView{
			Wallet:         s.Wallet,
			Dex:            s.Dex,
			Operation:      s.Operation,
			Side:           s.Side,
			TokenInMint:    s.TokenInMint,
			TokenInAmount:  s.TokenInAmount,
			TokenOutMint:   s.TokenOutMint,
			TokenOutAmount: s.TokenOutAmount,
			Signature:      s.Signature,
			Timestamp:      s.Timestamp,
		})
	}
	return views
}
