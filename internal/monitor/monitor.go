package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"solana-wallet-monitor/internal/dex"
	"solana-wallet-monitor/internal/domain"
	"solana-wallet-monitor/internal/observability"
	"solana-wallet-monitor/internal/solana"
	"solana-wallet-monitor/internal/storage"
)

// DefaultWorkersPerWallet bounds concurrent notification handling per wallet.
const DefaultWorkersPerWallet = 8

// Transaction data can lag the log notification by a few slots, so the
// fetch retries before giving up on the event.
const (
	txFetchAttempts = 5
	txFetchDelay    = 2 * time.Second
)

// Config holds the monitor's collaborators and tuning.
type Config struct {
	Stream     LogStream
	Chain      ChainReader
	Classifier *dex.Classifier
	Recorder   *Recorder
	Archive    storage.SwapArchive
	Wallets    []string
	// WorkersPerWallet bounds concurrent handlers per subscription.
	// Zero means DefaultWorkersPerWallet.
	WorkersPerWallet int
}

// Monitor subscribes to each wallet's log stream and drives notifications
// through classify, parse, archive, and record. A handler failure never
// stops the subscription; the event is logged and dropped.
type Monitor struct {
	cfg    Config
	parser *Parser
}

// New creates a monitor from the given configuration.
func New(cfg Config) *Monitor {
	if cfg.WorkersPerWallet <= 0 {
		cfg.WorkersPerWallet = DefaultWorkersPerWallet
	}
	return &Monitor{
		cfg:    cfg,
		parser: NewParser(cfg.Chain),
	}
}

// Run subscribes to all wallets and blocks until ctx is cancelled or every
// notification channel closes.
func (m *Monitor) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	for _, wallet := range m.cfg.Wallets {
		ch, err := m.cfg.Stream.SubscribeLogs(ctx, solana.LogsFilter{Mentions: []string{wallet}})
		if err != nil {
			return err
		}
		observability.DefaultMetrics.ActiveSubscriptions.Inc()
		log.Printf("[monitor] subscribed to wallet %s", wallet)

		for i := 0; i < m.cfg.WorkersPerWallet; i++ {
			wg.Add(1)
			go func(wallet string) {
				defer wg.Done()
				m.consume(ctx, wallet, ch)
			}(wallet)
		}
	}

	wg.Wait()
	return ctx.Err()
}

// consume drains one wallet's notification channel until it closes or ctx
// is cancelled.
func (m *Monitor) consume(ctx context.Context, wallet string, ch <-chan solana.LogNotification) {
	for {
		select {
		case <-ctx.Done():
			return
		case notif, ok := <-ch:
			if !ok {
				return
			}
			m.handle(ctx, wallet, notif)
		}
	}
}

// handle processes one log notification end to end.
func (m *Monitor) handle(ctx context.Context, wallet string, notif solana.LogNotification) {
	start := time.Now()
	observability.RecordLogEvent(wallet)

	// Failed transactions still emit logs; they carry no swap.
	if notif.Err != nil {
		return
	}

	id := m.cfg.Classifier.Identify(notif.Logs)
	if !id.Known() {
		return
	}
	observability.RecordClassified(id.Dex)

	tx, err := m.fetchTransaction(ctx, notif.Signature)
	if err != nil {
		log.Printf("[monitor] fetch transaction %s: %v", notif.Signature, err)
		observability.RecordDropped("fetch_failed")
		return
	}
	if tx == nil {
		log.Printf("[monitor] transaction %s not available after %d attempts", notif.Signature, txFetchAttempts)
		observability.RecordDropped("not_available")
		return
	}

	swap := m.parser.Parse(ctx, tx, wallet, id)
	if swap == nil {
		observability.RecordDropped("unparseable")
		return
	}
	observability.RecordParsed()
	log.Printf("[monitor] %s %s on %s by %s", swap.Side, swap.Operation, swap.Dex, wallet)

	// Every classified swap reaches the archive, tracked token or not.
	m.archive(ctx, swap)

	outcome, err := m.cfg.Recorder.Record(ctx, swap)
	if err != nil {
		log.Printf("[monitor] record %s: %v", swap.Signature, err)
		observability.RecordDropped("store_error")
		return
	}
	if outcome == OutcomeDuplicate {
		log.Printf("[monitor] %s already recorded", swap.Signature)
	}

	observability.DefaultMetrics.EventProcessingLatency.Observe(time.Since(start).Seconds())
}

// fetchTransaction retrieves the parsed transaction, retrying while the RPC
// node has not caught up to the notification's slot.
func (m *Monitor) fetchTransaction(ctx context.Context, signature string) (*solana.ParsedTransaction, error) {
	var lastErr error
	for attempt := 0; attempt < txFetchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(txFetchDelay):
			}
		}

		tx, err := m.cfg.Chain.GetParsedTransaction(ctx, signature)
		if err != nil {
			lastErr = err
			continue
		}
		if tx != nil {
			return tx, nil
		}
	}
	return nil, lastErr
}

// archive writes the analytics row. Archive failures are logged and ignored;
// the archive is not a correctness surface.
func (m *Monitor) archive(ctx context.Context, swap *domain.SwapRecord) {
	if m.cfg.Archive == nil {
		return
	}

	archived := &domain.ArchivedSwap{
		Wallet:         swap.MonitoredWallet,
		Dex:            swap.Dex,
		Operation:      string(swap.Operation),
		Side:           string(swap.Side),
		TokenInMint:    swap.TokenIn.Mint,
		TokenInAmount:  swap.TokenIn.Amount.StringFixed(6),
		TokenOutMint:   swap.TokenOut.Mint,
		TokenOutAmount: swap.TokenOut.Amount.StringFixed(6),
		Signature:      swap.Signature,
		Timestamp:      time.Now().UnixMilli(),
	}
	if swap.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, swap.Timestamp); err == nil {
			archived.Timestamp = t.UnixMilli()
		}
	}

	if err := m.cfg.Archive.Insert(ctx, archived); err != nil {
		log.Printf("[monitor] archive %s: %v", swap.Signature, err)
	}
}
