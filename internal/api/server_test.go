package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"solana-wallet-monitor/internal/domain"
	"solana-wallet-monitor/internal/storage/memory"
)

const testAPIKey = "secret"

func newTestServer(t *testing.T) (*Server, *memory.TransactionStore, *memory.SwapArchive) {
	t.Helper()
	store := memory.NewTransactionStore()
	archive := memory.NewSwapArchive()
	srv := NewServer(Config{Addr: ":0", APIKey: testAPIKey}, store, archive)
	return srv, store, archive
}

func doRequest(srv *Server, method, path string, body interface{}, withKey bool) *httptest.ResponseRecorder {
	var reqBody bytes.Buffer
	if body != nil {
		json.NewEncoder(&reqBody).Encode(body)
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	if withKey {
		req.Header.Set(apiKeyHeader, testAPIKey)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func seedRecord(t *testing.T, store *memory.TransactionStore, txhash string) *domain.TransactionRecord {
	t.Helper()
	r := &domain.TransactionRecord{
		Price:     decimal.RequireFromString("0.000042"),
		Balance:   decimal.NewFromInt(1000),
		Amount:    decimal.NewFromInt(2500),
		Type:      "buy",
		TxHash:    txhash,
		Timestamp: "2024-06-01T12:00:00Z",
	}
	require.NoError(t, store.Insert(context.Background(), r))
	return r
}

func TestServer_ListTransactions(t *testing.T) {
	srv, store, _ := newTestServer(t)
	seedRecord(t, store, "sig-1")
	seedRecord(t, store, "sig-2")

	w := doRequest(srv, http.MethodGet, "/transactions", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	var views []transactionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 2)
	require.Equal(t, "sig-2", views[0].TxHash, "newest first")
}

func TestServer_GetTransaction(t *testing.T) {
	srv, store, _ := newTestServer(t)
	r := seedRecord(t, store, "sig-1")

	w := doRequest(srv, http.MethodGet, "/transactions/1", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	var view transactionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Equal(t, r.ID, view.ID)
	require.Equal(t, "sig-1", view.TxHash)

	w = doRequest(srv, http.MethodGet, "/transactions/999", nil, true)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(srv, http.MethodGet, "/transactions/abc", nil, true)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_CreateTransaction(t *testing.T) {
	srv, store, _ := newTestServer(t)

	body := transactionRequest{
		Price:     decimal.RequireFromString("0.5"),
		Balance:   decimal.NewFromInt(10),
		Amount:    decimal.NewFromInt(100),
		Type:      "sell",
		TxHash:    "sig-new",
		Timestamp: "2024-06-01T12:00:00Z",
	}

	w := doRequest(srv, http.MethodPost, "/transactions", body, true)
	require.Equal(t, http.StatusCreated, w.Code)

	stored, err := store.GetByTxHash(context.Background(), "sig-new")
	require.NoError(t, err)
	require.Equal(t, "sell", stored.Type)

	// Same txhash again conflicts.
	w = doRequest(srv, http.MethodPost, "/transactions", body, true)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestServer_CreateRejectsInvalid(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := transactionRequest{Type: "hold", TxHash: ""}
	w := doRequest(srv, http.MethodPost, "/transactions", body, true)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_UpdateAndDelete(t *testing.T) {
	srv, store, _ := newTestServer(t)
	seedRecord(t, store, "sig-1")

	body := transactionRequest{
		Price:   decimal.NewFromInt(1),
		Balance: decimal.NewFromInt(1),
		Amount:  decimal.NewFromInt(1),
		Type:    "sell",
		TxHash:  "sig-1",
	}
	w := doRequest(srv, http.MethodPut, "/transactions/1", body, true)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "sell", stored.Type)

	w = doRequest(srv, http.MethodDelete, "/transactions/1", nil, true)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(srv, http.MethodDelete, "/transactions/1", nil, true)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_APIKeyRequired(t *testing.T) {
	srv, store, _ := newTestServer(t)
	seedRecord(t, store, "sig-1")

	w := doRequest(srv, http.MethodGet, "/transactions", nil, false)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Health stays open.
	w = doRequest(srv, http.MethodGet, "/health", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestServer_ListSwaps(t *testing.T) {
	srv, _, archive := newTestServer(t)
	require.NoError(t, archive.Insert(context.Background(), &domain.ArchivedSwap{
		Wallet:    "wallet-addr",
		Dex:       "Jupiter",
		Operation: "swap",
		Side:      "buy",
		Signature: "sig-1",
		Timestamp: 1717243200000,
	}))

	w := doRequest(srv, http.MethodGet, "/swaps?limit=10", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	var views []archivedSwapView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	require.Equal(t, "Jupiter", views[0].Dex)

	w = doRequest(srv, http.MethodGet, "/swaps?limit=bogus", nil, true)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/transactions", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
