package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCoinbaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCoinbaseParsesSpotPrice(t *testing.T) {
	srv := newCoinbaseServer(t, http.StatusOK, `{"data":{"amount":"67123.45","base":"BTC","currency":"USD"}}`)
	c := NewCoinbase(CoinbaseConfig{URL: srv.URL, Timeout: time.Second})

	price, err := c.CurrentPrice(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("67123.45").Equal(price))
}

func TestCoinbaseFailuresAreUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"errors":[{"id":"internal"}]}`},
		{"missing amount", http.StatusOK, `{"data":{}}`},
		{"bad amount", http.StatusOK, `{"data":{"amount":"lots"}}`},
		{"zero amount", http.StatusOK, `{"data":{"amount":"0"}}`},
		{"not json", http.StatusOK, `<html></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newCoinbaseServer(t, tt.status, tt.body)
			c := NewCoinbase(CoinbaseConfig{URL: srv.URL, Timeout: time.Second})

			_, err := c.CurrentPrice(context.Background())
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestCoinbaseTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := NewCoinbase(CoinbaseConfig{URL: srv.URL, Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := c.CurrentPrice(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCoinbaseDefaults(t *testing.T) {
	c := NewCoinbase(CoinbaseConfig{})
	assert.Equal(t, DefaultCoinbaseURL, c.url)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
}
