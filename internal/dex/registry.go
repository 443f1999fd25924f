// Package dex identifies which DEX program produced a transaction's logs.
package dex

import "solana-wallet-monitor/internal/domain"

// Known DEX program IDs.
const (
	// Jupiter is the Jupiter aggregator v6 program ID.
	Jupiter = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	// RaydiumAMMV4 is the Raydium AMM v4 program ID.
	RaydiumAMMV4 = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	// PumpFun is the pump.fun program ID.
	PumpFun = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	// PumpFunMintAuthority is the pump.fun token mint authority. A transaction
	// referencing it is a token creation rather than a trade, so it must be
	// checked before the parent PumpFun program.
	PumpFunMintAuthority = "TSLvdd1pWpHVjahSpsvCXUbgwsL3JAcvokwaKt1eokM"
)

// Entry maps a program identifier to the DEX name and operation kind it implies.
type Entry struct {
	ProgramID string
	Dex       string
	Operation domain.OperationKind
}

// Registry is an ordered table of known program identifiers. Order is the
// classification priority: a mint-specific identifier precedes its parent
// program, since a transaction can reference both and the more specific one
// determines the operation kind.
type Registry struct {
	entries []Entry
}

// NewRegistry returns a registry with the default DEX programs registered.
func NewRegistry() *Registry {
	return &Registry{
		entries: []Entry{
			{ProgramID: PumpFunMintAuthority, Dex: "Pump.fun", Operation: domain.OperationMint},
			{ProgramID: PumpFun, Dex: "Pump.fun", Operation: domain.OperationSwap},
			{ProgramID: Jupiter, Dex: "Jupiter", Operation: domain.OperationSwap},
			{ProgramID: RaydiumAMMV4, Dex: "Raydium", Operation: domain.OperationSwap},
		},
	}
}

// Register appends an entry at the lowest priority. Adding a new DEX is a
// registry change only; no other component is involved.
func (r *Registry) Register(e Entry) {
	r.entries = append(r.entries, e)
}

// Entries returns the registered entries in priority order.
func (r *Registry) Entries() []Entry {
	return r.entries
}
