package service

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

// FetchCandles: GET /coins/{id}/ohlc -> [[ms, open, high, low, close], ...].
// У CoinGecko OHLC нет объёма, поэтому HasVolume=false.
func (c *Client) FetchCandles(ctx context.Context, asset string) (models.CandleSeries, error) {
	asset = NormalizeAsset(asset)
	if asset == "" {
		return models.CandleSeries{}, errors.Wrap(ErrUnknownAsset, "empty asset id")
	}

	q := url.Values{}
	q.Set("vs_currency", c.cfg.VsCurrency)
	q.Set("days", strconv.Itoa(c.cfg.Days))

	body, err := c.get(ctx, "/coins/"+url.PathEscape(asset)+"/ohlc", q)
	if err != nil {
		return models.CandleSeries{}, err
	}

	var rows [][]float64
	if err := sonic.Unmarshal(body, &rows); err != nil {
		return models.CandleSeries{}, errors.Wrapf(ErrTransient, "decode ohlc %s: %v", asset, err)
	}

	candles := parseOHLC(rows)
	if len(candles) == 0 {
		return models.CandleSeries{}, errors.Wrapf(ErrNoData, "ohlc %s", asset)
	}

	return models.CandleSeries{
		Asset:     asset,
		Candles:   candles,
		HasVolume: false,
	}, nil
}

// parseOHLC сортирует по времени и выкидывает дубли и неполные строки.
func parseOHLC(rows [][]float64) []models.Candle {
	out := make([]models.Candle, 0, len(rows))
	for _, r := range rows {
		if len(r) < 5 {
			continue
		}
		out = append(out, models.Candle{
			Time:  time.UnixMilli(int64(r[0])).UTC(),
			Open:  r[1],
			High:  r[2],
			Low:   r[3],
			Close: r[4],
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	uniq := out[:0]
	for i, c := range out {
		if i > 0 && c.Time.Equal(uniq[len(uniq)-1].Time) {
			continue
		}
		uniq = append(uniq, c)
	}
	return uniq
}
