package main

import (
	"context"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"solana-wallet-monitor/internal/storage/memory"
)

func TestImportCSV(t *testing.T) {
	store := memory.NewTransactionStore()
	logger := log.New(&strings.Builder{}, "", 0)

	csv := strings.Join([]string{
		"price,balance,amount,type,txhash,timestamp",
		"0.000042,1000,2500,buy,sig-1,2024-06-01T12:00:00Z",
		"0.000043,900,100,sell,sig-2,2024-06-01T13:00:00Z",
		"0.000043,900,100,sell,sig-2,2024-06-01T13:00:00Z", // duplicate
		"not-a-number,900,100,sell,sig-3,2024-06-01T14:00:00Z",
		"0.1,1,1,hold,sig-4,", // invalid type
	}, "\n")

	imported, duplicates, skipped, err := importCSV(context.Background(), store, strings.NewReader(csv), logger)
	require.NoError(t, err)
	require.Equal(t, 2, imported)
	require.Equal(t, 1, duplicates)
	require.Equal(t, 2, skipped)

	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
}
