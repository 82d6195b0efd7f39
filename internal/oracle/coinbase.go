package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCoinbaseURL is the BTC-USD spot price endpoint
const DefaultCoinbaseURL = "https://api.coinbase.com/v2/prices/BTC-USD/spot"

// CoinbaseConfig holds settings for the Coinbase spot price client
type CoinbaseConfig struct {
	URL     string
	Timeout time.Duration
}

// DefaultCoinbaseConfig returns the public BTC-USD endpoint with a short timeout
func DefaultCoinbaseConfig() CoinbaseConfig {
	return CoinbaseConfig{
		URL:     DefaultCoinbaseURL,
		Timeout: 5 * time.Second,
	}
}

// Coinbase fetches spot prices from the Coinbase v2 prices API
type Coinbase struct {
	url        string
	httpClient *http.Client
}

// Ensure Coinbase implements Oracle
var _ Oracle = (*Coinbase)(nil)

// NewCoinbase creates a Coinbase oracle
func NewCoinbase(cfg CoinbaseConfig) *Coinbase {
	if cfg.URL == "" {
		cfg.URL = DefaultCoinbaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultCoinbaseConfig().Timeout
	}
	return &Coinbase{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// spotResponse is the body shape returned by /v2/prices/{pair}/spot
type spotResponse struct {
	Data struct {
		Amount   string `json:"amount"`
		Base     string `json:"base"`
		Currency string `json:"currency"`
	} `json:"data"`
}

// CurrentPrice fetches the spot price. All failures wrap ErrUnavailable.
func (c *Coinbase) CurrentPrice(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return decimal.Decimal{}, fmt.Errorf("%w: coinbase returned HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var body spotResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)
	}
	if body.Data.Amount == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: response has no amount", ErrUnavailable)
	}

	price, err := decimal.NewFromString(body.Data.Amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: parse amount %q: %w", ErrUnavailable, body.Data.Amount, err)
	}
	if !price.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: non-positive price %s", ErrUnavailable, price)
	}

	return price, nil
}
