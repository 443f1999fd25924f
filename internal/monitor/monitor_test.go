package monitor

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"solana-wallet-monitor/internal/dex"
	"solana-wallet-monitor/internal/solana"
	"solana-wallet-monitor/internal/storage/memory"
)

// testHarness wires a monitor against stubs and memory stores.
type testHarness struct {
	chain   *stubChain
	oracle  *stubOracle
	store   *memory.TransactionStore
	archive *memory.SwapArchive
	events  chan solana.LogNotification
	monitor *Monitor
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	h := &testHarness{
		chain:   newStubChain(),
		oracle:  &stubOracle{price: decimal.RequireFromString("0.000042")},
		store:   memory.NewTransactionStore(),
		archive: memory.NewSwapArchive(),
		events:  make(chan solana.LogNotification, 16),
	}
	h.chain.balance = decimal.NewFromInt(1000)

	stream := &stubStream{channels: map[string]chan solana.LogNotification{
		"wallet-addr": h.events,
	}}

	h.monitor = New(Config{
		Stream:     stream,
		Chain:      h.chain,
		Classifier: dex.NewClassifier(dex.NewRegistry()),
		Recorder:   NewRecorder(h.chain, h.oracle, h.store, trackedMint),
		Archive:    h.archive,
		Wallets:    []string{"wallet-addr"},
	})
	return h
}

// run sends the notifications, closes the stream, and waits for the monitor
// to drain it.
func (h *testHarness) run(t *testing.T, notifs ...solana.LogNotification) {
	t.Helper()
	for _, n := range notifs {
		h.events <- n
	}
	close(h.events)
	require.NoError(t, h.monitor.Run(context.Background()))
}

func jupiterNotification(signature string) solana.LogNotification {
	return solana.LogNotification{
		Signature: signature,
		Logs: []string{
			"Program JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4 invoke [1]",
			"Program JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4 success",
		},
		Slot: 1000,
	}
}

func TestMonitor_EndToEnd(t *testing.T) {
	h := newTestHarness(t)
	h.chain.mints["pool-acc-out"] = trackedMint
	h.chain.mints["pool-acc-in"] = "MintIn222"
	h.chain.txs["sig-1"] = swapTransaction("sig-1", true, "pool-acc-out", "pool-acc-in")

	h.run(t, jupiterNotification("sig-1"))

	stored, err := h.store.GetByTxHash(context.Background(), "sig-1")
	require.NoError(t, err)
	require.Equal(t, "buy", stored.Type)
	require.True(t, stored.Amount.Equal(decimal.NewFromInt(1000)), "1 token out * 1000, got %s", stored.Amount)

	archived, err := h.archive.GetRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	require.Equal(t, "Jupiter", archived[0].Dex)
	require.Equal(t, "swap", archived[0].Operation)
}

func TestMonitor_ReplayedNotificationStoredOnce(t *testing.T) {
	h := newTestHarness(t)
	h.chain.mints["pool-acc-out"] = trackedMint
	h.chain.txs["sig-1"] = swapTransaction("sig-1", true, "pool-acc-out", "pool-acc-in")

	h.run(t, jupiterNotification("sig-1"), jupiterNotification("sig-1"))

	all, err := h.store.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1, "replayed notification must not create a second ledger row")
}

func TestMonitor_UnknownProgramSkipped(t *testing.T) {
	h := newTestHarness(t)

	h.run(t, solana.LogNotification{
		Signature: "sig-x",
		Logs:      []string{"Program SomeUnknownProgram111 invoke [1]"},
	})

	require.Zero(t, h.chain.fetches.Load(), "unclassified logs must not trigger a transaction fetch")
	all, _ := h.store.GetAll(context.Background())
	require.Empty(t, all)
}

func TestMonitor_FailedTransactionSkipped(t *testing.T) {
	h := newTestHarness(t)

	notif := jupiterNotification("sig-err")
	notif.Err = map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}}
	h.run(t, notif)

	require.Zero(t, h.chain.fetches.Load())
}

func TestMonitor_UntrackedSwapArchivedOnly(t *testing.T) {
	h := newTestHarness(t)
	h.chain.mints["pool-acc-out"] = "OtherMint"
	h.chain.mints["pool-acc-in"] = "AnotherMint"
	h.chain.txs["sig-1"] = swapTransaction("sig-1", false, "pool-acc-out", "pool-acc-in")

	h.run(t, jupiterNotification("sig-1"))

	all, _ := h.store.GetAll(context.Background())
	require.Empty(t, all, "untracked swaps stay out of the ledger")

	archived, err := h.archive.GetRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, archived, 1, "every classified swap reaches the archive")
	require.Equal(t, "sell", archived[0].Side)
}

func TestMonitor_TransactionLagRetried(t *testing.T) {
	h := newTestHarness(t)
	h.chain.mints["pool-acc-out"] = trackedMint
	h.chain.txs["sig-1"] = swapTransaction("sig-1", true, "pool-acc-out", "pool-acc-in")
	h.chain.txDelay = 1 // first fetch returns not-yet-available

	h.run(t, jupiterNotification("sig-1"))

	_, err := h.store.GetByTxHash(context.Background(), "sig-1")
	require.NoError(t, err, "fetch must retry until the node catches up")
	require.GreaterOrEqual(t, h.chain.fetches.Load(), int64(2))
}

func TestMonitor_PumpFunMintClassified(t *testing.T) {
	h := newTestHarness(t)
	h.chain.mints["pool-acc-out"] = trackedMint
	h.chain.txs["sig-mint"] = swapTransaction("sig-mint", true, "pool-acc-out", "pool-acc-in")

	h.run(t, solana.LogNotification{
		Signature: "sig-mint",
		Logs: []string{
			"Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P invoke [1]",
			"Program log: mint authority TSLvdd1pWpHVjahSpsvCXUbgwsL3JAcvokwaKt1eokM",
		},
	})

	archived, err := h.archive.GetRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	require.Equal(t, "Pump.fun", archived[0].Dex)
	require.Equal(t, "mint", archived[0].Operation, "mint authority outranks the parent program")
}
