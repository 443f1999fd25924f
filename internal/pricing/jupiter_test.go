package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetPrice_NumericPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "MintM", r.URL.Query().Get("ids"))
		w.Write([]byte(`{"data":{"MintM":{"price":0.0421}}}`))
	}))
	defer srv.Close()

	client := NewJupiterClient(srv.URL)
	price, err := client.GetPrice(context.Background(), "MintM")
	require.NoError(t, err)
	require.Equal(t, "0.0421", price.String())
}

func TestGetPrice_StringPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"MintM":{"price":"1.5"}}}`))
	}))
	defer srv.Close()

	client := NewJupiterClient(srv.URL)
	price, err := client.GetPrice(context.Background(), "MintM")
	require.NoError(t, err)
	require.Equal(t, "1.5", price.String())
}

func TestGetPrice_UnlistedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	client := NewJupiterClient(srv.URL)
	_, err := client.GetPrice(context.Background(), "Unknown")
	require.Error(t, err)
}

func TestGetPrice_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewJupiterClient(srv.URL)
	_, err := client.GetPrice(context.Background(), "MintM")
	require.Error(t, err)
}
