package monitor

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"solana-wallet-monitor/internal/solana"
)

// stubChain is a canned ChainReader. Transactions become visible after
// txDelay fetch attempts to mimic RPC propagation lag.
type stubChain struct {
	txs       map[string]*solana.ParsedTransaction
	txDelay   int
	txErr     error
	fetches   atomic.Int64
	mints     map[string]string
	mintErr   error
	balance   decimal.Decimal
	balErr    error
	balCalls  atomic.Int64
	mintCalls atomic.Int64
}

func newStubChain() *stubChain {
	return &stubChain{
		txs:   make(map[string]*solana.ParsedTransaction),
		mints: make(map[string]string),
	}
}

func (s *stubChain) GetParsedTransaction(_ context.Context, signature string) (*solana.ParsedTransaction, error) {
	n := s.fetches.Add(1)
	if s.txErr != nil {
		return nil, s.txErr
	}
	if int(n) <= s.txDelay {
		return nil, nil
	}
	return s.txs[signature], nil
}

func (s *stubChain) GetTokenAccountMint(_ context.Context, account string) (string, error) {
	s.mintCalls.Add(1)
	if s.mintErr != nil {
		return "", s.mintErr
	}
	return s.mints[account], nil
}

func (s *stubChain) GetTokenBalance(_ context.Context, _, _ string) (decimal.Decimal, error) {
	s.balCalls.Add(1)
	if s.balErr != nil {
		return decimal.Zero, s.balErr
	}
	return s.balance, nil
}

// stubOracle is a canned PriceOracle.
type stubOracle struct {
	price decimal.Decimal
	err   error
	calls atomic.Int64
}

func (s *stubOracle) GetPrice(_ context.Context, _ string) (decimal.Decimal, error) {
	s.calls.Add(1)
	if s.err != nil {
		return decimal.Zero, s.err
	}
	return s.price, nil
}

// stubStream hands out pre-made channels keyed by the first mentioned address.
type stubStream struct {
	channels map[string]chan solana.LogNotification
}

func (s *stubStream) SubscribeLogs(_ context.Context, filter solana.LogsFilter) (<-chan solana.LogNotification, error) {
	if len(filter.Mentions) == 0 {
		return nil, fmt.Errorf("stub stream requires mentions")
	}
	ch, ok := s.channels[filter.Mentions[0]]
	if !ok {
		return nil, fmt.Errorf("no channel for %s", filter.Mentions[0])
	}
	return ch, nil
}

// swapTransaction builds a minimal parseable swap transaction.
//
// The fee payer spends SOL (buy) or receives it (sell); two inner transfers
// model the pool legs with the given token accounts.
func swapTransaction(signature string, buy bool, outAccount, inAccount string) *solana.ParsedTransaction {
	pre := uint64(5_000_000_000)
	post := uint64(4_000_000_000)
	if !buy {
		pre, post = post, pre
	}

	return &solana.ParsedTransaction{
		Slot:       1000,
		BlockTime:  1717243200, // 2024-06-01T12:00:00Z
		Signatures: []string{signature},
		Meta: &solana.TransactionMeta{
			PreBalances:  []uint64{pre, 10},
			PostBalances: []uint64{post, 10},
			InnerInstructions: []solana.InnerInstructionGroup{
				{
					Index: 2,
					Instructions: []solana.ParsedInstruction{
						{
							Program: "spl-token",
							Parsed: &solana.InstructionDetail{
								Type: "transfer",
								Info: solana.InstructionInfo{
									Amount:      "1000000000",
									Source:      "wallet-token-acc",
									Destination: outAccount,
								},
							},
						},
						{
							Program: "spl-token",
							Parsed: &solana.InstructionDetail{
								Type: "transfer",
								Info: solana.InstructionInfo{
									Amount:      "2500000000",
									Source:      inAccount,
									Destination: "wallet-token-acc",
								},
							},
						},
					},
				},
			},
		},
		Message: &solana.TransactionMessage{
			AccountKeys: []solana.AccountKey{
				{Pubkey: "wallet-addr", Signer: true, Writable: true},
				{Pubkey: "pool-addr"},
			},
		},
	}
}
