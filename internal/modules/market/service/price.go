package service

import (
	"context"
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// LivePrice: GET /simple/price -> {"bitcoin": {"usd": 65000.1}}.
// Неизвестный id CoinGecko отдаёт пустым объектом.
func (c *Client) LivePrice(ctx context.Context, asset string) (float64, error) {
	asset = NormalizeAsset(asset)
	if asset == "" {
		return 0, errors.Wrap(ErrUnknownAsset, "empty asset id")
	}

	q := url.Values{}
	q.Set("ids", asset)
	q.Set("vs_currencies", c.cfg.VsCurrency)

	body, err := c.get(ctx, "/simple/price", q)
	if err != nil {
		return 0, err
	}

	var resp map[string]map[string]float64
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return 0, errors.Wrapf(ErrTransient, "decode price %s: %v", asset, err)
	}

	quotes, ok := resp[asset]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownAsset, "price %s", asset)
	}
	price, ok := quotes[c.cfg.VsCurrency]
	if !ok || price <= 0 {
		return 0, errors.Wrapf(ErrNoData, "price %s/%s", asset, c.cfg.VsCurrency)
	}
	return price, nil
}
