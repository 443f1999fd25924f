package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"solana-wallet-monitor/internal/domain"
	"solana-wallet-monitor/internal/observability"
	"solana-wallet-monitor/internal/storage"
)

// amountScale converts the matched leg's token amount into ledger units.
const amountScale = 1000

// enrichTimeout bounds each price and balance lookup.
const enrichTimeout = 10 * time.Second

// Outcome is the persistence decision for one swap record.
type Outcome string

const (
	// OutcomeNotTracked means neither leg touched the tracked mint.
	OutcomeNotTracked Outcome = "not_tracked"
	// OutcomePersisted means a new ledger record was stored.
	OutcomePersisted Outcome = "persisted"
	// OutcomeDuplicate means the txhash was already recorded.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeInvalid means the record failed validation and was dropped.
	OutcomeInvalid Outcome = "invalid"
)

// Recorder applies the tracked-token gate, enriches qualifying swaps with
// price and balance, and writes them to the ledger exactly once per txhash.
type Recorder struct {
	chain       ChainReader
	oracle      PriceOracle
	store       storage.TransactionStore
	trackedMint string
}

// NewRecorder creates a recorder for the given tracked mint.
func NewRecorder(chain ChainReader, oracle PriceOracle, store storage.TransactionStore, trackedMint string) *Recorder {
	return &Recorder{
		chain:       chain,
		oracle:      oracle,
		store:       store,
		trackedMint: trackedMint,
	}
}

// Record decides whether the swap enters the ledger and persists it if so.
// Enrichment failures degrade to zero values rather than blocking the write;
// a missing price or balance is recoverable later, a missed swap is not.
func (r *Recorder) Record(ctx context.Context, swap *domain.SwapRecord) (Outcome, error) {
	if !swap.Touches(r.trackedMint) {
		return OutcomeNotTracked, nil
	}

	leg, _ := swap.TrackedLeg(r.trackedMint)
	price, balance := r.enrich(ctx, swap.MonitoredWallet)

	record := &domain.TransactionRecord{
		Price:     price,
		Balance:   balance,
		Amount:    leg.Amount.Mul(decimal.NewFromInt(amountScale)),
		Type:      string(swap.Side),
		TxHash:    swap.Signature,
		Timestamp: swap.Timestamp,
	}

	if err := record.Validate(); err != nil {
		log.Printf("[recorder] dropping invalid record for %s: %v", swap.Signature, err)
		observability.RecordDropped("invalid")
		return OutcomeInvalid, nil
	}

	// Cheap existence check first; the unique index remains the real guard
	// against a concurrent insert of the same signature.
	_, err := r.store.GetByTxHash(ctx, record.TxHash)
	if err == nil {
		observability.RecordDuplicate()
		return OutcomeDuplicate, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("check existing record: %w", err)
	}

	if err := r.store.Insert(ctx, record); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			observability.RecordDuplicate()
			return OutcomeDuplicate, nil
		}
		return "", fmt.Errorf("insert record: %w", err)
	}

	observability.RecordPersisted(record.Type)
	log.Printf("[recorder] recorded %s %s amount=%s price=%s", record.Type, record.TxHash,
		record.Amount.String(), record.Price.String())
	return OutcomePersisted, nil
}

// enrich fetches the current price and the wallet's tracked-token balance
// concurrently. Either lookup failing yields zero for that field.
func (r *Recorder) enrich(ctx context.Context, wallet string) (price, balance decimal.Decimal) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		lookupCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
		defer cancel()
		p, err := r.oracle.GetPrice(lookupCtx, r.trackedMint)
		if err != nil {
			log.Printf("[recorder] price lookup failed: %v", err)
			observability.DefaultMetrics.PriceLookupFailures.Inc()
			return
		}
		price = p
	}()

	go func() {
		defer wg.Done()
		lookupCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
		defer cancel()
		b, err := r.chain.GetTokenBalance(lookupCtx, wallet, r.trackedMint)
		if err != nil {
			log.Printf("[recorder] balance lookup failed for %s: %v", wallet, err)
			observability.DefaultMetrics.BalanceLookupFailures.Inc()
			return
		}
		balance = b
	}()

	wg.Wait()
	return price, balance
}
