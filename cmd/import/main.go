// Package main bulk-loads historical transactions from a CSV file into the
// ledger. Rows whose txhash is already recorded are counted and skipped.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"solana-wallet-monitor/internal/domain"
	"solana-wallet-monitor/internal/storage"
	"solana-wallet-monitor/internal/storage/migrations"
	pgstore "solana-wallet-monitor/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	file := flag.String("file", "", "CSV file with columns: price,balance,amount,type,txhash,timestamp")
	flag.Parse()

	logger := log.New(os.Stdout, "[import] ", log.LstdFlags)

	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}
	if *file == "" {
		logger.Fatal("--file is required")
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("Connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatalf("Migrations: %v", err)
	}
	store := pgstore.NewTransactionStore(pool)

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatalf("Open %s: %v", *file, err)
	}
	defer f.Close()

	imported, duplicates, skipped, err := importCSV(ctx, store, f, logger)
	if err != nil {
		logger.Fatalf("Import failed: %v", err)
	}
	logger.Printf("Done: %d imported, %d duplicates, %d skipped", imported, duplicates, skipped)
}

// importCSV reads rows and inserts them one by one. Invalid rows and
// duplicates are logged and skipped; only I/O and store failures abort.
func importCSV(ctx context.Context, store storage.TransactionStore, r io.Reader, logger *log.Logger) (imported, duplicates, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 6

	header := true
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, duplicates, skipped, fmt.Errorf("read csv: %w", err)
		}
		line++

		// Tolerate a header row.
		if header {
			header = false
			if row[0] == "price" {
				continue
			}
		}

		record, err := parseRow(row)
		if err != nil {
			logger.Printf("line %d: %v, skipping", line, err)
			skipped++
			continue
		}
		if err := record.Validate(); err != nil {
			logger.Printf("line %d: %v, skipping", line, err)
			skipped++
			continue
		}

		if err := store.Insert(ctx, record); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				duplicates++
				continue
			}
			return imported, duplicates, skipped, fmt.Errorf("insert line %d: %w", line, err)
		}
		imported++
	}
	return imported, duplicates, skipped, nil
}

// parseRow converts one CSV row into a ledger record.
func parseRow(row []string) (*domain.TransactionRecord, error) {
	price, err := decimal.NewFromString(row[0])
	if err != nil {
		return nil, fmt.Errorf("price %q: %w", row[0], err)
	}
	balance, err := decimal.NewFromString(row[1])
	if err != nil {
		return nil, fmt.Errorf("balance %q: %w", row[1], err)
	}
	amount, err := decimal.NewFromString(row[2])
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", row[2], err)
	}

	return &domain.TransactionRecord{
		Price:     price,
		Balance:   balance,
		Amount:    amount,
		Type:      row[3],
		TxHash:    row[4],
		Timestamp: row[5],
	}, nil
}
