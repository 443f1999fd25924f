package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
)

// Default configuration values.
const (
	DefaultTimeout     = 15 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 500 * time.Millisecond
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// HTTPClient is a Solana JSON-RPC 2.0 client with bounded retry.
type HTTPClient struct {
	endpoint    string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	requestID   atomic.Uint64
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a new Solana RPC HTTP client.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// call performs a JSON-RPC call with retries and exponential backoff.
// RPC-level errors are returned immediately; transport errors are retried.
func (c *HTTPClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	reqID := c.requestID.Add(1)
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
			continue
		}

		var rpcResp rpcResponse
		if err := json.Unmarshal(respBody, &rpcResp); err != nil {
			lastErr = fmt.Errorf("unmarshal response: %w", err)
			continue
		}
		if rpcResp.Error != nil {
			return rpcResp.Error
		}

		if result != nil && rpcResp.Result != nil {
			if err := json.Unmarshal(rpcResp.Result, result); err != nil {
				return fmt.Errorf("unmarshal result: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// GetParsedTransaction retrieves a transaction by signature with jsonParsed
// encoding. Returns nil when the transaction is not found.
func (c *HTTPClient) GetParsedTransaction(ctx context.Context, signature string) (*ParsedTransaction, error) {
	params := []interface{}{
		signature,
		map[string]interface{}{
			"encoding":                       "jsonParsed",
			"commitment":                     "confirmed",
			"maxSupportedTransactionVersion": 0,
		},
	}

	var result *getTransactionResult
	if err := c.call(ctx, "getTransaction", params, &result); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	tx := &ParsedTransaction{
		Slot: result.Slot,
	}
	if result.BlockTime != nil {
		tx.BlockTime = *result.BlockTime
	}

	if result.Meta != nil {
		meta := &TransactionMeta{
			Err:          result.Meta.Err,
			PreBalances:  result.Meta.PreBalances,
			PostBalances: result.Meta.PostBalances,
			LogMessages:  result.Meta.LogMessages,
		}
		for _, group := range result.Meta.InnerInstructions {
			g := InnerInstructionGroup{Index: group.Index}
			for _, ix := range group.Instructions {
				pi := ParsedInstruction{
					Program:   ix.Program,
					ProgramID: ix.ProgramID,
				}
				if ix.Parsed != nil {
					pi.Parsed = &InstructionDetail{
						Type: ix.Parsed.Type,
						Info: InstructionInfo{
							Amount:      ix.Parsed.Info.Amount,
							Source:      ix.Parsed.Info.Source,
							Destination: ix.Parsed.Info.Destination,
							Authority:   ix.Parsed.Info.Authority,
						},
					}
				}
				g.Instructions = append(g.Instructions, pi)
			}
			meta.InnerInstructions = append(meta.InnerInstructions, g)
		}
		tx.Meta = meta
	}

	if result.Transaction != nil {
		tx.Signatures = result.Transaction.Signatures
		if result.Transaction.Message != nil {
			msg := &TransactionMessage{}
			for _, key := range result.Transaction.Message.AccountKeys {
				msg.AccountKeys = append(msg.AccountKeys, AccountKey{
					Pubkey:   key.Pubkey,
					Signer:   key.Signer,
					Writable: key.Writable,
				})
			}
			tx.Message = msg
		}
	}

	return tx, nil
}

// Raw RPC response shapes for getTransaction with jsonParsed encoding.

type getTransactionResult struct {
	Slot        int64               `json:"slot"`
	BlockTime   *int64              `json:"blockTime"`
	Meta        *getTransactionMeta `json:"meta"`
	Transaction *getTransactionTx   `json:"transaction"`
}

type getTransactionMeta struct {
	Err               interface{}          `json:"err"`
	PreBalances       []uint64             `json:"preBalances"`
	PostBalances      []uint64             `json:"postBalances"`
	InnerInstructions []rawInnerIxGroup    `json:"innerInstructions"`
	LogMessages       []string             `json:"logMessages"`
}

type rawInnerIxGroup struct {
	Index        int                `json:"index"`
	Instructions []rawInstruction   `json:"instructions"`
}

type rawInstruction struct {
	Program   string              `json:"program"`
	ProgramID string              `json:"programId"`
	Parsed    *rawParsedDetail    `json:"parsed"`
}

type rawParsedDetail struct {
	Type string             `json:"type"`
	Info rawInstructionInfo `json:"info"`
}

type rawInstructionInfo struct {
	Amount      string `json:"amount"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Authority   string `json:"authority"`
}

type getTransactionTx struct {
	Signatures []string                `json:"signatures"`
	Message    *getTransactionMessage  `json:"message"`
}

type getTransactionMessage struct {
	AccountKeys []rawAccountKey `json:"accountKeys"`
}

type rawAccountKey struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
}

// GetTokenAccountMint resolves an SPL token account to its mint address.
// Returns an empty string when the account does not exist.
func (c *HTTPClient) GetTokenAccountMint(ctx context.Context, account string) (string, error) {
	params := []interface{}{
		account,
		map[string]interface{}{
			"encoding": "base64",
		},
	}

	var result getAccountInfoResult
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return "", err
	}
	if result.Value == nil || len(result.Value.Data) == 0 {
		return "", nil
	}
	return parseTokenAccountMint(result.Value.Data[0])
}

// parseTokenAccountMint parses SPL token account data and returns the mint.
// Token account layout: mint(32) | owner(32) | amount(8) | ...
func parseTokenAccountMint(data string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("decode token account data: %w", err)
	}
	if len(decoded) < 32 {
		return "", fmt.Errorf("token account data too short: %d", len(decoded))
	}
	return base58.Encode(decoded[:32]), nil
}

type getAccountInfoResult struct {
	Value *getAccountInfoValue `json:"value"`
}

type getAccountInfoValue struct {
	Lamports uint64   `json:"lamports"`
	Owner    string   `json:"owner"`
	Data     []string `json:"data"` // [base64_data, encoding]
}

// GetTokenBalance retrieves a wallet's balance of the given mint in
// whole-token units. Returns zero when the wallet holds no account for
// the mint.
func (c *HTTPClient) GetTokenBalance(ctx context.Context, wallet, mint string) (decimal.Decimal, error) {
	params := []interface{}{
		wallet,
		map[string]string{"mint": mint},
		map[string]string{"encoding": "jsonParsed"},
	}

	var result getTokenAccountsResult
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		return decimal.Zero, err
	}
	if len(result.Value) == 0 {
		return decimal.Zero, nil
	}

	amount := result.Value[0].Account.Data.Parsed.Info.TokenAmount
	if amount.UIAmountString != "" {
		balance, err := decimal.NewFromString(amount.UIAmountString)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse token balance: %w", err)
		}
		return balance, nil
	}
	return decimal.NewFromFloat(amount.UIAmount), nil
}

// Raw RPC response shapes for getTokenAccountsByOwner with jsonParsed encoding.

type getTokenAccountsResult struct {
	Value []tokenAccountEntry `json:"value"`
}

type tokenAccountEntry struct {
	Pubkey  string           `json:"pubkey"`
	Account tokenAccountData `json:"account"`
}

type tokenAccountData struct {
	Data struct {
		Parsed struct {
			Info struct {
				Mint        string         `json:"mint"`
				TokenAmount rawTokenAmount `json:"tokenAmount"`
			} `json:"info"`
		} `json:"parsed"`
	} `json:"data"`
}

type rawTokenAmount struct {
	Amount         string  `json:"amount"`
	Decimals       int     `json:"decimals"`
	UIAmount       float64 `json:"uiAmount"`
	UIAmountString string  `json:"uiAmountString"`
}
