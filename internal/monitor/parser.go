package monitor

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"solana-wallet-monitor/internal/domain"
	"solana-wallet-monitor/internal/solana"
)

// lamportDecimals scales raw lamport amounts down to SOL.
const lamportDecimals = 9

// Parser turns a parsed transaction into a normalized swap record.
// Every structural gap in the transaction is fail-soft: the parser returns
// nil rather than an error, since a malformed or non-swap transaction is an
// expected input, not a fault.
type Parser struct {
	chain ChainReader
}

// NewParser creates a parser that resolves token accounts via chain.
func NewParser(chain ChainReader) *Parser {
	return &Parser{chain: chain}
}

// Parse builds a SwapRecord for the monitored wallet from a transaction, or
// nil when the transaction is not a parseable swap. The DEX identification
// comes from the log classifier and is carried through unchanged.
func (p *Parser) Parse(ctx context.Context, tx *solana.ParsedTransaction, wallet string, id domain.DexIdentification) *domain.SwapRecord {
	if tx == nil || tx.Meta == nil || tx.Message == nil {
		return nil
	}
	if tx.Meta.Err != nil {
		return nil
	}
	if len(tx.Signatures) == 0 {
		return nil
	}
	if len(tx.Meta.PreBalances) == 0 || len(tx.Meta.PostBalances) == 0 {
		return nil
	}

	// The fee payer's lamport delta decides the trade direction: SOL leaving
	// the wallet is a buy, SOL arriving is a sell.
	pre := decimal.New(int64(tx.Meta.PreBalances[0]), -lamportDecimals)
	post := decimal.New(int64(tx.Meta.PostBalances[0]), -lamportDecimals)
	delta := post.Sub(pre)

	side := domain.SideSell
	if delta.IsNegative() {
		side = domain.SideBuy
	}

	transfers := collectTransfers(tx.Meta.InnerInstructions)
	if len(transfers) == 0 {
		return nil
	}

	// First transfer funds the pool, last transfer pays the wallet: their
	// destination and source accounts are the two legs of the swap.
	first := transfers[0]
	last := transfers[len(transfers)-1]

	outMint, inMint := p.resolveMints(ctx, first.Destination, last.Source)

	// The first signer-flagged key is the acting wallet; the subscription
	// address is the fallback when the node omits signer flags.
	signer := wallet
	for _, key := range tx.Message.AccountKeys {
		if key.Signer {
			signer = key.Pubkey
			break
		}
	}

	record := &domain.SwapRecord{
		Side:            side,
		MonitoredWallet: signer,
		Dex:             id.Dex,
		Operation:       id.Operation,
		TokenOut: domain.TokenLeg{
			Mint:   outMint,
			Amount: decimal.New(int64(first.Amount), -lamportDecimals),
		},
		TokenIn: domain.TokenLeg{
			Mint:   inMint,
			Amount: decimal.New(int64(last.Amount), -lamportDecimals),
		},
		Signature:     tx.Signatures[0],
		BalanceChange: delta.Abs(),
	}

	if tx.BlockTime > 0 {
		record.Timestamp = time.Unix(tx.BlockTime, 0).UTC().Format(time.RFC3339)
	}

	return record
}

// collectTransfers gathers SPL transfer instructions from all inner
// instruction groups in execution order, skipping zero-amount transfers.
func collectTransfers(groups []solana.InnerInstructionGroup) []domain.TokenTransfer {
	var transfers []domain.TokenTransfer
	for _, group := range groups {
		for _, ix := range group.Instructions {
			if ix.Parsed == nil || ix.Parsed.Type != "transfer" {
				continue
			}
			amount, err := strconv.ParseUint(ix.Parsed.Info.Amount, 10, 64)
			if err != nil || amount == 0 {
				continue
			}
			transfers = append(transfers, domain.TokenTransfer{
				Amount:      amount,
				Source:      ix.Parsed.Info.Source,
				Destination: ix.Parsed.Info.Destination,
			})
		}
	}
	return transfers
}

// resolveMints looks up both token account mints concurrently. A failed
// lookup degrades to an empty mint; the record is still produced and the
// tracked-token gate simply will not match it.
func (p *Parser) resolveMints(ctx context.Context, outAccount, inAccount string) (outMint, inMint string) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		mint, err := p.chain.GetTokenAccountMint(ctx, outAccount)
		if err != nil {
			log.Printf("[parser] token-out mint lookup failed for %s: %v", outAccount, err)
			return
		}
		outMint = mint
	}()

	go func() {
		defer wg.Done()
		mint, err := p.chain.GetTokenAccountMint(ctx, inAccount)
		if err != nil {
			log.Printf("[parser] token-in mint lookup failed for %s: %v", inAccount, err)
			return
		}
		inMint = mint
	}()

	wg.Wait()
	return outMint, inMint
}
