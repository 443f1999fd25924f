// Package main runs the wallet activity monitor: per-wallet log
// subscriptions, swap classification and parsing, tracked-token enrichment,
// and the management API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"solana-wallet-monitor/internal/api"
	"solana-wallet-monitor/internal/dex"
	"solana-wallet-monitor/internal/monitor"
	"solana-wallet-monitor/internal/pricing"
	"solana-wallet-monitor/internal/solana"
	"solana-wallet-monitor/internal/storage"
	chstore "solana-wallet-monitor/internal/storage/clickhouse"
	"solana-wallet-monitor/internal/storage/memory"
	"solana-wallet-monitor/internal/storage/migrations"
	pgstore "solana-wallet-monitor/internal/storage/postgres"
)

const defaultPriceEndpoint = "https://lite-api.jup.ag/price/v2"

func main() {
	// .env is optional; system env vars win.
	_ = godotenv.Load()

	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", os.Getenv("SOLANA_WS_ENDPOINT"), "Solana WebSocket endpoint")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional)")
	priceEndpoint := flag.String("price-endpoint", envOr("PRICE_ENDPOINT", defaultPriceEndpoint), "Jupiter price API endpoint")
	trackedMint := flag.String("tracked-mint", os.Getenv("TRACKED_MINT"), "Mint address of the tracked token")
	wallets := flag.String("wallets", os.Getenv("MONITORED_WALLETS"), "Comma-separated wallet addresses to monitor")
	apiAddr := flag.String("api-addr", envOr("API_ADDR", ":8080"), "Management API listen address")
	apiKey := flag.String("api-key", os.Getenv("API_KEY"), "API key for the management API (empty disables auth)")
	workers := flag.Int("workers", monitor.DefaultWorkersPerWallet, "Concurrent notification handlers per wallet")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags)

	if *rpcEndpoint == "" {
		logger.Fatal("--rpc-endpoint is required")
	}
	if *wsEndpoint == "" {
		logger.Fatal("--ws-endpoint is required")
	}
	if *trackedMint == "" {
		logger.Fatal("--tracked-mint is required")
	}
	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	walletList, err := parseWallets(*wallets)
	if err != nil {
		logger.Fatalf("Invalid wallet list: %v", err)
	}
	if len(walletList) == 0 {
		logger.Fatal("--wallets is required")
	}
	logger.Printf("Monitoring %d wallet(s), tracked mint %s", len(walletList), *trackedMint)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, archive, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	rpcClient := solana.NewHTTPClient(*rpcEndpoint)
	priceClient := pricing.NewJupiterClient(*priceEndpoint)

	wsClient, err := solana.NewWSClient(ctx, *wsEndpoint, nil)
	if err != nil {
		logger.Fatalf("Failed to connect WebSocket: %v", err)
	}
	defer wsClient.Close()

	recorder := monitor.NewRecorder(rpcClient, priceClient, store, *trackedMint)
	mon := monitor.New(monitor.Config{
		Stream:           wsClient,
		Chain:            rpcClient,
		Classifier:       dex.NewClassifier(dex.NewRegistry()),
		Recorder:         recorder,
		Archive:          archive,
		Wallets:          walletList,
		WorkersPerWallet: *workers,
	})

	apiServer := api.NewServer(api.Config{Addr: *apiAddr, APIKey: *apiKey}, store, archive)
	apiServer.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing exit", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out, forcing exit")
			os.Exit(1)
		}
	}()

	err = mon.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("API shutdown: %v", err)
	}

	if err != nil && err != context.Canceled {
		logger.Fatalf("Monitor error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// parseWallets splits and validates the wallet list.
func parseWallets(raw string) ([]string, error) {
	var wallets []string
	for _, w := range strings.Split(raw, ",") {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if err := solana.ValidateWalletAddress(w); err != nil {
			return nil, fmt.Errorf("wallet %s: %w", w, err)
		}
		wallets = append(wallets, w)
	}
	return wallets, nil
}

// createStores builds the ledger store and the optional archive.
// A missing ClickHouse DSN disables the archive rather than failing startup.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (storage.TransactionStore, storage.SwapArchive, func(), error) {
	if useMemory {
		return memory.NewTransactionStore(), memory.NewSwapArchive(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}
	store := pgstore.NewTransactionStore(pool)

	if clickhouseDSN == "" {
		log.Println("[server] no clickhouse DSN, swap archive disabled")
		return store, nil, func() { pool.Close() }, nil
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}
	archive := chstore.NewSwapArchive(chConn)

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return store, archive, cleanup, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
