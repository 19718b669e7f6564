package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zgorizzo69/binance-futures-follow-up/internal/models"
)

var testAccount = models.Account{
	Team:      "alpha",
	Username:  "trader-one",
	APIKey:    "test-api-key",
	APISecret: "test-api-secret",
}

func testClient(srv *httptest.Server) *Client {
	return &Client{
		httpClient: srv.Client(),
		baseURL:    srv.URL,
		now:        func() time.Time { return time.UnixMilli(1700000000000) },
	}
}

const accountBody = `{
	"positions": [
		{"symbol": "BTCUSDT", "positionAmt": "0.500", "entryPrice": "43210.50", "leverage": "20", "updateTime": 1700000000000},
		{"symbol": "ETHUSDT", "positionAmt": "-2.000", "entryPrice": "2400.00", "leverage": "10", "updateTime": 1700000000000},
		{"symbol": "XRPUSDT", "positionAmt": "0.000", "entryPrice": "0.00", "leverage": "5", "updateTime": 0}
	]
}`

func TestFetchPositionsSignsAndFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(t, accountPath, r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("X-MBX-APIKEY"))

		// The signature must be the hex HMAC-SHA256 of everything before it.
		raw := r.URL.RawQuery
		i := strings.Index(raw, "&signature=")
		require.Positive(t, i)
		mac := hmac.New(sha256.New, []byte(testAccount.APISecret))
		mac.Write([]byte(raw[:i]))
		assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), raw[i+len("&signature="):])

		assert.Contains(t, raw[:i], "timestamp=1700000000000")
		assert.Contains(t, raw[:i], "recvWindow=5000")

		rw.Write([]byte(accountBody))
	}))
	defer srv.Close()

	positions, err := testClient(srv).FetchPositions(context.Background(), testAccount)
	require.NoError(t, err)

	// The zero-amount XRP entry never leaves the client.
	require.Len(t, positions, 2)

	btc := positions[0]
	assert.Equal(t, "BTCUSDT", btc.Symbol)
	assert.True(t, btc.PositionAmt.Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, btc.EntryPrice.Equal(decimal.NewFromFloat(43210.5)))
	assert.Equal(t, 20, btc.Leverage)
	assert.Equal(t, int64(1700000000000), btc.UpdateTime)

	eth := positions[1]
	assert.True(t, eth.PositionAmt.IsNegative())
	assert.Equal(t, 10, eth.Leverage)
}

func TestFetchPositionsFlatAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte(`{"positions": []}`))
	}))
	defer srv.Close()

	positions, err := testClient(srv).FetchPositions(context.Background(), testAccount)
	require.NoError(t, err)
	assert.Empty(t, positions, "a flat account is a success, not an error")
}

func TestFetchPositionsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		http.Error(rw, `{"code":-2014,"msg":"API-key format invalid."}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv).FetchPositions(context.Background(), testAccount)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestFetchPositionsAPIError(t *testing.T) {
	// Binance also reports errors as code/msg inside a 200 body.
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte(`{"code":-1021,"msg":"Timestamp outside of recvWindow."}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).FetchPositions(context.Background(), testAccount)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-1021")
}

func TestFetchPositionsContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := testClient(srv).FetchPositions(ctx, testAccount)
	require.Error(t, err, "a timeout is a fetch error, never an empty snapshot")
}
