package domain

import "github.com/shopspring/decimal"

// OperationKind is the kind of DEX operation a transaction performed.
type OperationKind string

const (
	OperationSwap OperationKind = "swap"
	OperationMint OperationKind = "mint"
)

// TradeSide classifies a swap by the direction of the wallet's SOL balance change.
type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// DexIdentification is the result of classifying one transaction's logs.
// A zero Dex means the transaction did not touch a tracked DEX program
// and the pipeline short-circuits.
type DexIdentification struct {
	Dex       string
	Operation OperationKind
}

// Known reports whether the logs matched a tracked DEX program.
func (d DexIdentification) Known() bool {
	return d.Dex != ""
}

// TokenTransfer is one inner "transfer" instruction found in a transaction,
// in instruction order. Only the first and last transfers are used to derive
// the swap legs.
type TokenTransfer struct {
	Amount      uint64
	Source      string
	Destination string
}

// TokenLeg is one side of a swap. Mint is empty when the token account
// could not be resolved.
type TokenLeg struct {
	Mint   string
	Amount decimal.Decimal
}

// SwapRecord is the normalized view of one DEX interaction. It is built once
// per qualifying transaction and discarded after the persistence decision.
type SwapRecord struct {
	Side            TradeSide
	MonitoredWallet string
	Dex             string
	Operation       OperationKind
	TokenIn         TokenLeg
	TokenOut        TokenLeg
	Signature       string
	Timestamp       string // RFC3339 block time, empty when unavailable
	// BalanceChange is the magnitude of the wallet's SOL delta; Side carries
	// the direction.
	BalanceChange decimal.Decimal
}

// Touches reports whether either leg of the swap involves the given mint.
func (r *SwapRecord) Touches(mint string) bool {
	if mint == "" {
		return false
	}
	return r.TokenIn.Mint == mint || r.TokenOut.Mint == mint
}

// TrackedLeg returns the leg matching the given mint, preferring TokenIn
// when both legs match.
func (r *SwapRecord) TrackedLeg(mint string) (TokenLeg, bool) {
	if r.TokenIn.Mint == mint {
		return r.TokenIn, true
	}
	if r.TokenOut.Mint == mint {
		return r.TokenOut, true
	}
	return TokenLeg{}, false
}
