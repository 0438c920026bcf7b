package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:    srv.URL,
		APIKey:     "demo-key",
		VsCurrency: "usd",
		Days:       2,
		Timeout:    time.Second,
	})
}

func TestFetchCandles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/bitcoin/ohlc" {
			t.Errorf("path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("vs_currency"); got != "usd" {
			t.Errorf("vs_currency %q", got)
		}
		if got := r.URL.Query().Get("days"); got != "2" {
			t.Errorf("days %q", got)
		}
		if got := r.Header.Get(apiKeyHeader); got != "demo-key" {
			t.Errorf("api key header %q", got)
		}
		// не по порядку, с дублем и неполной строкой
		_, _ = w.Write([]byte(`[
			[1709253000000, 101, 102, 100, 101.5],
			[1709251200000, 100, 101, 99, 100.5],
			[1709253000000, 1, 1, 1, 1],
			[1709254800000, 101.5]
		]`))
	})

	s, err := c.FetchCandles(context.Background(), "  Bitcoin ")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if s.Asset != "bitcoin" || s.HasVolume {
		t.Fatalf("series header %+v", s)
	}
	if len(s.Candles) != 2 {
		t.Fatalf("got %d candles, want 2", len(s.Candles))
	}
	if s.Candles[0].Close != 100.5 || s.Candles[1].Close != 101.5 {
		t.Fatalf("candles not sorted/deduped: %+v", s.Candles)
	}
	if !s.Candles[0].Time.Equal(time.UnixMilli(1709251200000)) {
		t.Fatalf("time %v", s.Candles[0].Time)
	}
}

func TestFetchCandles_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found", http.StatusNotFound, `{"error":"coin not found"}`, ErrUnknownAsset},
		{"not found in body", http.StatusBadRequest, `{"error":"coin not found"}`, ErrUnknownAsset},
		{"rate limited", http.StatusTooManyRequests, `{}`, ErrTransient},
		{"server error", http.StatusBadGateway, `oops`, ErrTransient},
		{"empty", http.StatusOK, `[]`, ErrNoData},
		{"garbage", http.StatusOK, `[[1,2,`, ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.FetchCandles(context.Background(), "nope")
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFetchCandles_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.FetchCandles(context.Background(), "bitcoin")
	if !IsTransient(err) {
		t.Fatalf("timeout must be transient, got %v", err)
	}
}

func TestLivePrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			t.Errorf("path %q", r.URL.Path)
		}
		switch r.URL.Query().Get("ids") {
		case "bitcoin":
			_, _ = w.Write([]byte(`{"bitcoin":{"usd":65000.5}}`))
		case "ghost":
			_, _ = w.Write([]byte(`{"ghost":{}}`))
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	})

	p, err := c.LivePrice(context.Background(), "BITCOIN")
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if p != 65000.5 {
		t.Fatalf("price %v", p)
	}

	if _, err := c.LivePrice(context.Background(), "notacoin"); !errors.Is(err, ErrUnknownAsset) {
		t.Fatalf("want ErrUnknownAsset, got %v", err)
	}
	if _, err := c.LivePrice(context.Background(), "ghost"); !errors.Is(err, ErrNoData) {
		t.Fatalf("want ErrNoData, got %v", err)
	}
	if _, err := c.LivePrice(context.Background(), " "); !errors.Is(err, ErrUnknownAsset) {
		t.Fatalf("empty id: want ErrUnknownAsset, got %v", err)
	}
}
