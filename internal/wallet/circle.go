package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/arcagent/arcagent/internal/crypto"
	"github.com/arcagent/arcagent/internal/model"
	"github.com/arcagent/arcagent/internal/platform"
)

// Circle is a client for Circle developer-controlled wallets (W3S API).
type Circle struct {
	client       *http.Client
	baseURL      string
	apiKey       string
	entitySecret string
	blockchain   string
	tokenSymbol  string

	keyGroup  singleflight.Group
	keyMu     sync.RWMutex
	publicKey string
}

type CircleOptions struct {
	BaseURL      string
	APIKey       string
	EntitySecret string
	Blockchain   string
	HTTPClient   *http.Client
}

func NewCircle(opts CircleOptions) *Circle {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Circle{
		client:       client,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		apiKey:       opts.APIKey,
		entitySecret: opts.EntitySecret,
		blockchain:   opts.Blockchain,
		tokenSymbol:  "USDC",
	}
}

// APIError is a non-2xx response from Circle.
type APIError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("circle API %d (code %d): %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusTooManyRequests:
		return ErrRejected
	}
	return nil
}

func (c *Circle) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal circle request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create circle request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("circle %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read circle response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode circle response: %w", err)
	}
	return nil
}

// entityPublicKey fetches the entity public key once; concurrent callers
// share a single request.
func (c *Circle) entityPublicKey(ctx context.Context) (string, error) {
	c.keyMu.RLock()
	key := c.publicKey
	c.keyMu.RUnlock()
	if key != "" {
		return key, nil
	}

	v, err, _ := c.keyGroup.Do("public-key", func() (any, error) {
		var out struct {
			Data struct {
				PublicKey string `json:"publicKey"`
			} `json:"data"`
		}
		if err := c.do(ctx, http.MethodGet, "/config/entity/publicKey", nil, &out); err != nil {
			return "", fmt.Errorf("fetch entity public key: %w", err)
		}
		c.keyMu.Lock()
		c.publicKey = out.Data.PublicKey
		c.keyMu.Unlock()
		return out.Data.PublicKey, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Circle) ciphertext(ctx context.Context) (string, error) {
	pub, err := c.entityPublicKey(ctx)
	if err != nil {
		return "", err
	}
	return crypto.EncryptEntitySecret(c.entitySecret, pub)
}

func (c *Circle) CreateWallet(ctx context.Context, userID, idempotencyKey string) (*Wallet, error) {
	ct, err := c.ciphertext(ctx)
	if err != nil {
		return nil, err
	}

	var setOut struct {
		Data struct {
			WalletSet struct {
				ID string `json:"id"`
			} `json:"walletSet"`
		} `json:"data"`
	}
	err = c.do(ctx, http.MethodPost, "/developer/walletSets", map[string]any{
		"idempotencyKey":         platform.DeriveKey(idempotencyKey + "/wallet-set"),
		"name":                   "arcagent-" + userID,
		"entitySecretCiphertext": ct,
	}, &setOut)
	if err != nil {
		return nil, fmt.Errorf("create wallet set: %w", err)
	}

	// The ciphertext is single use.
	if ct, err = c.ciphertext(ctx); err != nil {
		return nil, err
	}

	var walletOut struct {
		Data struct {
			Wallets []Wallet `json:"wallets"`
		} `json:"data"`
	}
	err = c.do(ctx, http.MethodPost, "/developer/wallets", map[string]any{
		"idempotencyKey":         platform.DeriveKey(idempotencyKey + "/wallet"),
		"accountType":            "SCA",
		"blockchains":            []string{c.blockchain},
		"count":                  1,
		"walletSetId":            setOut.Data.WalletSet.ID,
		"entitySecretCiphertext": ct,
	}, &walletOut)
	if err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}
	if len(walletOut.Data.Wallets) == 0 {
		return nil, fmt.Errorf("create wallet: empty response")
	}
	w := walletOut.Data.Wallets[0]
	return &w, nil
}

type tokenBalance struct {
	Amount string `json:"amount"`
	Token  struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
	} `json:"token"`
}

func (c *Circle) balances(ctx context.Context, walletID string) ([]tokenBalance, error) {
	var out struct {
		Data struct {
			TokenBalances []tokenBalance `json:"tokenBalances"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/wallets/"+walletID+"/balances", nil, &out); err != nil {
		return nil, fmt.Errorf("get balances of %s: %w", walletID, err)
	}
	return out.Data.TokenBalances, nil
}

func (c *Circle) Balance(ctx context.Context, walletID string) (int64, error) {
	balances, err := c.balances(ctx, walletID)
	if err != nil {
		return 0, err
	}
	for _, b := range balances {
		if strings.EqualFold(b.Token.Symbol, c.tokenSymbol) {
			return parseTokenAmount(b.Amount)
		}
	}
	return 0, nil
}

// ResolveLabel only accepts chain addresses; Circle has no name directory.
func (c *Circle) ResolveLabel(_ context.Context, label string) (string, error) {
	if IsAddress(label) {
		return label, nil
	}
	return "", fmt.Errorf("resolve %q: %w", label, ErrUnknownRecipient)
}

func (c *Circle) Transfer(ctx context.Context, req TransferRequest) (*Transfer, error) {
	balances, err := c.balances(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}
	tokenID := ""
	for _, b := range balances {
		if strings.EqualFold(b.Token.Symbol, c.tokenSymbol) {
			tokenID = b.Token.ID
			available, err := parseTokenAmount(b.Amount)
			if err != nil {
				return nil, err
			}
			if available < req.AmountCents {
				return nil, fmt.Errorf("transfer of %d from %s: %w", req.AmountCents, req.WalletID, ErrInsufficientFunds)
			}
		}
	}
	if tokenID == "" {
		return nil, fmt.Errorf("wallet %s holds no %s: %w", req.WalletID, c.tokenSymbol, ErrInsufficientFunds)
	}

	ct, err := c.ciphertext(ctx)
	if err != nil {
		return nil, err
	}

	var out struct {
		Data struct {
			ID    string `json:"id"`
			State string `json:"state"`
		} `json:"data"`
	}
	err = c.do(ctx, http.MethodPost, "/developer/transactions/transfer", map[string]any{
		"idempotencyKey":         platform.DeriveKey(req.IdempotencyKey),
		"walletId":               req.WalletID,
		"destinationAddress":     req.Destination,
		"tokenId":                tokenID,
		"amounts":                []string{model.FormatCents(req.AmountCents)},
		"feeLevel":               "MEDIUM",
		"entitySecretCiphertext": ct,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("create transfer: %w", err)
	}
	return &Transfer{ID: out.Data.ID, Status: normalizeState(out.Data.State)}, nil
}

func (c *Circle) TransferStatus(ctx context.Context, transferID string) (*Transfer, error) {
	var out struct {
		Data struct {
			Transaction struct {
				ID     string `json:"id"`
				State  string `json:"state"`
				TxHash string `json:"txHash"`
			} `json:"transaction"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/transactions/"+transferID, nil, &out); err != nil {
		return nil, fmt.Errorf("get transfer %s: %w", transferID, err)
	}
	tx := out.Data.Transaction
	return &Transfer{ID: tx.ID, Status: normalizeState(tx.State), TxHash: tx.TxHash}, nil
}

func normalizeState(state string) string {
	switch strings.ToUpper(state) {
	case "COMPLETE", "CONFIRMED":
		return StatusComplete
	case "FAILED":
		return StatusFailed
	case "DENIED":
		return StatusDenied
	case "CANCELLED":
		return StatusCancelled
	}
	return StatusPending
}

// parseTokenAmount converts a decimal token amount to cents, truncating
// sub-cent precision.
func parseTokenAmount(s string) (int64, error) {
	whole, frac, _ := strings.Cut(strings.TrimSpace(s), ".")
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse token amount %q: %w", s, err)
	}
	frac = (frac + "00")[:2]
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse token amount %q: %w", s, err)
	}
	return w*100 + f, nil
}

var _ Provider = (*Circle)(nil)
