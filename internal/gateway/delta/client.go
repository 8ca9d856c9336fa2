// Package delta implements the exchange boundary against Delta Exchange
// (testnet or live, selected by configuration).
package delta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"smcbot/internal/gateway/exchange"
	"smcbot/internal/logger"
	"smcbot/internal/market"
)

const maxHistoryLimit = 2000

type Config struct {
	RESTBaseURL string
	APIKey      string
	APISecret   string
	HTTPTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	c.RESTBaseURL = strings.TrimRight(strings.TrimSpace(c.RESTBaseURL), "/")
	return c
}

// Client talks to the Delta REST API with HMAC-signed requests. It
// implements both market.Source and exchange.Exchange.
type Client struct {
	cfg  Config
	http *http.Client
	now  func() time.Time
}

var _ exchange.Exchange = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	final := cfg.withDefaults()
	if final.RESTBaseURL == "" {
		return nil, fmt.Errorf("delta: rest base url is required")
	}
	return &Client{
		cfg:  final,
		http: &http.Client{Timeout: final.HTTPTimeout},
		now:  time.Now,
	}, nil
}

// FetchHistory implements market.Source. Delta returns rows of
// [time, open, high, low, close, volume]; time arrives in seconds and is
// normalized to milliseconds.
func (c *Client) FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]market.Candle, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("delta: symbol is required")
	}
	if limit <= 0 {
		limit = 200
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("resolution", resolutionFor(interval))
	params.Set("limit", fmt.Sprintf("%d", limit))

	body, err := c.do(ctx, http.MethodGet, "/v2/history/candles", params, nil)
	if err != nil {
		return nil, err
	}
	rows := gjson.GetBytes(body, "result")
	out := make([]market.Candle, 0, limit)
	rows.ForEach(func(_, row gjson.Result) bool {
		cols := row.Array()
		if len(cols) < 6 {
			return true
		}
		openTime := cols[0].Int()
		if openTime < 1e12 {
			openTime *= 1000
		}
		out = append(out, market.Candle{
			OpenTime: openTime,
			Open:     cols[1].Float(),
			High:     cols[2].Float(),
			Low:      cols[3].Float(),
			Close:    cols[4].Float(),
			Volume:   cols[5].Float(),
		})
		return true
	})
	if err := market.ValidateSeries(out); err != nil {
		return nil, fmt.Errorf("delta: %w", err)
	}
	return out, nil
}

func (c *Client) WalletEquity(ctx context.Context) (float64, error) {
	body, err := c.do(ctx, http.MethodGet, "/v2/wallet/balances", nil, nil)
	if err != nil {
		return 0, err
	}
	balances := gjson.GetBytes(body, "result")
	if !balances.IsArray() || len(balances.Array()) == 0 {
		return 0, fmt.Errorf("delta: wallet response has no balances")
	}
	return balances.Array()[0].Get("balance").Float(), nil
}

func (c *Client) Positions(ctx context.Context) ([]exchange.Position, error) {
	body, err := c.do(ctx, http.MethodGet, "/v2/positions", nil, nil)
	if err != nil {
		return nil, err
	}
	var out []exchange.Position
	gjson.GetBytes(body, "result").ForEach(func(_, pos gjson.Result) bool {
		out = append(out, exchange.Position{
			Symbol:      pos.Get("product_symbol").String(),
			Size:        pos.Get("size").Float(),
			EntryPrice:  pos.Get("entry_price").Float(),
			RealizedPnL: pos.Get("realized_pnl").Float(),
		})
		return true
	})
	return out, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req exchange.OrderRequest) (exchange.OrderResult, error) {
	if req.ProductID <= 0 {
		return exchange.OrderResult{}, fmt.Errorf("delta: order requires product id")
	}
	if req.OrderType == "" {
		req.OrderType = "market_order"
	}
	payload := map[string]any{
		"product_id": req.ProductID,
		"side":       strings.ToLower(req.Side),
		"size":       req.Size,
		"order_type": req.OrderType,
	}
	if req.OrderType == "limit_order" && req.Price > 0 {
		payload["price"] = req.Price
	}
	body, err := c.do(ctx, http.MethodPost, "/v2/orders", nil, payload)
	if err != nil {
		return exchange.OrderResult{}, err
	}
	result := gjson.GetBytes(body, "result")
	if !result.Exists() {
		return exchange.OrderResult{}, fmt.Errorf("delta: order response missing result")
	}
	return exchange.OrderResult{
		ID:    result.Get("id").String(),
		State: result.Get("state").String(),
	}, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return fmt.Errorf("delta: order id is required")
	}
	_, err := c.do(ctx, http.MethodDelete, "/v2/orders/"+orderID, nil, nil)
	return err
}

func (c *Client) ProductID(ctx context.Context, symbol string) (int64, error) {
	body, err := c.do(ctx, http.MethodGet, "/v2/products", nil, nil)
	if err != nil {
		return 0, err
	}
	var id int64
	gjson.GetBytes(body, "result").ForEach(func(_, product gjson.Result) bool {
		if product.Get("symbol").String() == symbol {
			id = product.Get("id").Int()
			return false
		}
		return true
	})
	if id == 0 {
		return 0, fmt.Errorf("delta: unknown product symbol %s", symbol)
	}
	return id, nil
}

func (c *Client) Close() error { return nil }

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, payload any) ([]byte, error) {
	var bodyBytes []byte
	if payload != nil {
		var err error
		bodyBytes, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}

	fullURL := c.cfg.RESTBaseURL + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	for k, v := range c.signRequest(method, endpoint, params, bodyBytes) {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("delta: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		logger.Debugf("delta: %s %s returned %d: %s", method, endpoint, resp.StatusCode, truncated(body))
		return nil, fmt.Errorf("delta: %s %s returned status %d", method, endpoint, resp.StatusCode)
	}
	return body, nil
}

func truncated(body []byte) string {
	const maxLen = 200
	if len(body) <= maxLen {
		return string(body)
	}
	return string(body[:maxLen]) + "..."
}

func resolutionFor(interval string) string {
	interval = strings.ToLower(strings.TrimSpace(interval))
	// Delta expresses minute resolutions as bare numbers ("15"), larger
	// ones with their unit suffix ("1h", "1d").
	if strings.HasSuffix(interval, "m") {
		return strings.TrimSuffix(interval, "m")
	}
	return interval
}
