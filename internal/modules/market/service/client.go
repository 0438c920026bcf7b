package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"signal_bot/pkg/logger"
	"signal_bot/pkg/metrics"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	apiKeyHeader   = "x-cg-demo-api-key"
)

var (
	// ErrUnknownAsset — такой монеты нет у источника, повтор не поможет.
	ErrUnknownAsset = errors.New("unknown asset")
	// ErrNoData — монета есть, но данных нет.
	ErrNoData = errors.New("no data")
	// ErrTransient — сеть, таймаут, 429, 5xx, битый ответ. Повтор на следующем проходе.
	ErrTransient = errors.New("transient fetch error")
)

func IsTransient(err error) bool { return errors.Is(err, ErrTransient) }

type Config struct {
	BaseURL    string
	APIKey     string
	VsCurrency string
	Days       int
	Timeout    time.Duration
}

// Client — REST-клиент CoinGecko: свечи OHLC и текущая цена.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.VsCurrency == "" {
		cfg.VsCurrency = "usd"
	}
	if cfg.Days <= 0 {
		cfg.Days = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{},
	}
}

func (c *Client) VsCurrency() string { return c.cfg.VsCurrency }

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	u := c.cfg.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set(apiKeyHeader, c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, errors.Wrapf(ErrTransient, "GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrTransient, "read %s: %v", path, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.Wrapf(ErrUnknownAsset, "GET %s: %d", path, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, errors.Wrapf(ErrTransient, "GET %s: %d", path, resp.StatusCode)
	case resp.StatusCode/100 != 2:
		if isCoinNotFound(body) {
			return nil, errors.Wrapf(ErrUnknownAsset, "GET %s: %d", path, resp.StatusCode)
		}
		logger.Error("[MARKET] GET %s: %d %s", path, resp.StatusCode, truncate(body, 200))
		return nil, fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}

	if isCoinNotFound(body) {
		return nil, errors.Wrapf(ErrUnknownAsset, "GET %s", path)
	}
	return body, nil
}

func isCoinNotFound(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	var e apiError
	if err := sonic.Unmarshal(body, &e); err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(e.Error), "not found")
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// NormalizeAsset — id монеты CoinGecko: без пробелов, в нижнем регистре.
func NormalizeAsset(asset string) string {
	return strings.ToLower(strings.TrimSpace(asset))
}
