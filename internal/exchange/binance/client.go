package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zgorizzo69/binance-futures-follow-up/internal/models"
)

// USD-M futures REST endpoints. Test accounts are routed to the testnet.
const (
	MainnetURL = "https://fapi.binance.com"
	TestnetURL = "https://testnet.binancefuture.com"

	accountPath  = "/fapi/v2/account"
	recvWindowMS = 5000
)

// Client is a minimal signed REST client for the USD-M futures account
// endpoint. Credentials live on the Account, not the client, so one client
// serves every configured account.
type Client struct {
	httpClient *http.Client
	baseURL    string // overrides per-account URL selection in tests
	now        func() time.Time
}

func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

// accountPosition is the slice of the /fapi/v2/account response we care
// about. Binance reports the numeric fields as quoted strings.
type accountPosition struct {
	Symbol      string          `json:"symbol"`
	PositionAmt decimal.Decimal `json:"positionAmt"`
	EntryPrice  decimal.Decimal `json:"entryPrice"`
	Leverage    string          `json:"leverage"`
	UpdateTime  int64           `json:"updateTime"`
}

type accountResponse struct {
	Code      int               `json:"code"`
	Msg       string            `json:"msg"`
	Positions []accountPosition `json:"positions"`
}

// FetchPositions returns the account's non-zero futures positions. Zero-amount
// entries (the endpoint reports every listed symbol) are filtered here so the
// empty result always means "flat".
func (c *Client) FetchPositions(ctx context.Context, account models.Account) ([]models.RawPosition, error) {
	base := c.baseURL
	if base == "" {
		base = MainnetURL
		if account.Test {
			base = TestnetURL
		}
	}

	q := url.Values{}
	q.Set("timestamp", strconv.FormatInt(c.now().UnixMilli(), 10))
	q.Set("recvWindow", strconv.Itoa(recvWindowMS))
	query := q.Encode()
	query += "&signature=" + sign(query, account.APISecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+accountPath+"?"+query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-MBX-APIKEY", account.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("binance: fetch positions: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("binance: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance: status %s: %s", resp.Status, body)
	}

	var acct accountResponse
	if err := json.Unmarshal(body, &acct); err != nil {
		return nil, fmt.Errorf("binance: decode response: %w", err)
	}
	if acct.Code != 0 {
		return nil, fmt.Errorf("binance: api error %d: %s", acct.Code, acct.Msg)
	}

	var positions []models.RawPosition
	for _, p := range acct.Positions {
		if p.PositionAmt.IsZero() {
			continue
		}
		lev, err := strconv.Atoi(p.Leverage)
		if err != nil {
			return nil, fmt.Errorf("binance: bad leverage %q for %s: %w", p.Leverage, p.Symbol, err)
		}
		positions = append(positions, models.RawPosition{
			Symbol:      p.Symbol,
			PositionAmt: p.PositionAmt,
			EntryPrice:  p.EntryPrice,
			Leverage:    lev,
			UpdateTime:  p.UpdateTime,
		})
	}
	return positions, nil
}

// sign computes the hex HMAC-SHA256 of the query string, per the Binance
// signed-endpoint scheme.
func sign(query, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}
