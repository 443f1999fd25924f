// Package pricing fetches current token prices from the Jupiter price API.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTimeout bounds one price request.
const DefaultTimeout = 10 * time.Second

// JupiterClient fetches spot prices from the Jupiter price API.
// The endpoint is queried as <endpoint>?ids=<mint> and the response carries
// one entry per requested mint under "data".
type JupiterClient struct {
	endpoint string
	client   *http.Client
}

// Option configures JupiterClient.
type Option func(*JupiterClient)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *JupiterClient) {
		c.client = client
	}
}

// NewJupiterClient creates a price client for the given API endpoint.
func NewJupiterClient(endpoint string, opts ...Option) *JupiterClient {
	c := &JupiterClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// priceEntry tolerates both string and numeric price encodings; the API
// switched representation between versions.
type priceEntry struct {
	Price flexDecimal `json:"price"`
}

type flexDecimal struct {
	decimal.Decimal
}

func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		f.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	f.Decimal = d
	return nil
}

type priceResponse struct {
	Data map[string]*priceEntry `json:"data"`
}

// GetPrice returns the current price of the given mint. It fails when the
// request errors or the token is not listed.
func (c *JupiterClient) GetPrice(ctx context.Context, mint string) (decimal.Decimal, error) {
	reqURL := c.endpoint
	if strings.Contains(reqURL, "?") {
		reqURL += "&ids=" + url.QueryEscape(mint)
	} else {
		reqURL += "?ids=" + url.QueryEscape(mint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("create price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read price response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("price API status %d: %s", resp.StatusCode, string(body))
	}

	var parsed priceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("decode price response: %w", err)
	}

	entry, ok := parsed.Data[mint]
	if !ok || entry == nil {
		return decimal.Zero, fmt.Errorf("price not found for mint %s", mint)
	}
	return entry.Price.Decimal, nil
}
