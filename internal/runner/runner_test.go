package runner

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"signal_bot/internal/models"
	market "signal_bot/internal/modules/market/service"
)

func TestPass_EmitsOnceAndSuppressesRepeat(t *testing.T) {
	src := &fakeSource{series: map[string]models.CandleSeries{
		"bitcoin":  reversal("bitcoin"),
		"ethereum": decline("ethereum"),
	}}
	wl := &fakeWatchlist{assets: []string{"bitcoin", "ethereum"}}
	n := &fakeNotifier{}
	r, _, pub := newTestRunner(src, wl, n)

	r.Pass(context.Background())

	msgs := n.sent()
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one alert, got %v", msgs)
	}
	if !strings.HasPrefix(msgs[0], "BUY BITCOIN at $1500.00") {
		t.Fatalf("unexpected alert %q", msgs[0])
	}
	if len(pub.alerts) != 1 || pub.alerts[0].Side != models.SideBuy || pub.alerts[0].ChatID != 42 {
		t.Fatalf("published %+v", pub.alerts)
	}
	if pub.alerts[0].ID == "" || pub.alerts[0].Text != msgs[0] {
		t.Fatalf("alert id/text not set: %+v", pub.alerts[0])
	}

	r.Pass(context.Background())
	if got := n.sent(); len(got) != 1 {
		t.Fatalf("same data must not re-emit, got %v", got)
	}
	if st, ok := r.states.Get("bitcoin"); !ok || st.LastSide != models.SideBuy {
		t.Fatalf("state %+v", st)
	}
}

func TestPass_PacingBetweenAssets(t *testing.T) {
	src := &fakeSource{series: map[string]models.CandleSeries{
		"a": decline("a"), "b": decline("b"), "c": decline("c"),
	}}
	wl := &fakeWatchlist{assets: []string{"a", "b", "c"}}
	r, rec, _ := newTestRunner(src, wl, &fakeNotifier{})

	r.Pass(context.Background())

	if !reflect.DeepEqual(rec.calls, []time.Duration{PacingDelay, PacingDelay}) {
		t.Fatalf("sleep calls %v", rec.calls)
	}
	if !reflect.DeepEqual(src.fetched(), []string{"a", "b", "c"}) {
		t.Fatalf("fetch order %v", src.fetched())
	}
}

func TestPass_SkipsFailuresAndContinues(t *testing.T) {
	short := series("short", []float64{1, 2, 3})
	src := &fakeSource{
		series: map[string]models.CandleSeries{
			"short":   short,
			"bitcoin": reversal("bitcoin"),
		},
		errs: map[string]error{
			"ghost": market.ErrUnknownAsset,
			"empty": market.ErrNoData,
			"slow":  market.ErrTransient,
			"weird": errors.New("unexpected"),
		},
		panics: map[string]bool{"crash": true},
	}
	wl := &fakeWatchlist{assets: []string{"ghost", "empty", "slow", "weird", "crash", "short", "bitcoin"}}
	n := &fakeNotifier{}
	r, _, _ := newTestRunner(src, wl, n)

	r.Pass(context.Background())

	if got := src.fetched(); len(got) != 7 {
		t.Fatalf("every asset must be attempted, got %v", got)
	}
	msgs := n.sent()
	if len(msgs) != 1 || !strings.HasPrefix(msgs[0], "BUY BITCOIN") {
		t.Fatalf("expected only the bitcoin alert, got %v", msgs)
	}
}

func TestPass_DeliveryFailureKeepsState(t *testing.T) {
	src := &fakeSource{series: map[string]models.CandleSeries{"bitcoin": reversal("bitcoin")}}
	wl := &fakeWatchlist{assets: []string{"bitcoin"}}
	n := &fakeNotifier{err: errors.New("telegram down")}
	r, _, _ := newTestRunner(src, wl, n)

	r.Pass(context.Background())
	r.Pass(context.Background())

	if got := n.sent(); len(got) != 1 {
		t.Fatalf("failed delivery must not be retried, sends=%d", len(got))
	}
	if st, _ := r.states.Get("bitcoin"); st.LastSide != models.SideBuy {
		t.Fatalf("state must be committed before delivery, got %q", st.LastSide)
	}
}

func TestPass_EmptyWatchlistNotifiedOncePerTransition(t *testing.T) {
	src := &fakeSource{series: map[string]models.CandleSeries{"eth": decline("eth")}}
	wl := &fakeWatchlist{}
	n := &fakeNotifier{}
	r, _, _ := newTestRunner(src, wl, n)

	r.Pass(context.Background())
	r.Pass(context.Background())
	wl.set("eth")
	r.Pass(context.Background())
	wl.set()
	r.Pass(context.Background())

	msgs := n.sent()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 empty-watchlist notices, got %v", msgs)
	}
	for _, m := range msgs {
		if m != emptyWatchlistText {
			t.Fatalf("unexpected message %q", m)
		}
	}
}

func TestPass_RemovedAssetForgotten(t *testing.T) {
	src := &fakeSource{series: map[string]models.CandleSeries{"bitcoin": reversal("bitcoin")}}
	wl := &fakeWatchlist{assets: []string{"bitcoin"}}
	n := &fakeNotifier{}
	r, _, _ := newTestRunner(src, wl, n)

	r.Pass(context.Background())
	wl.set("other")
	src.series["other"] = decline("other")
	r.Pass(context.Background())
	if _, ok := r.states.Get("bitcoin"); ok {
		t.Fatal("state of a removed asset must be dropped")
	}

	// вернули актив: тот же BUY снова считается новым
	wl.set("bitcoin")
	r.Pass(context.Background())
	if got := n.sent(); len(got) != 2 {
		t.Fatalf("expected re-emission after re-add, got %v", got)
	}
}

func TestPass_CancelledStopsEarly(t *testing.T) {
	src := &fakeSource{series: map[string]models.CandleSeries{"a": decline("a"), "b": decline("b")}}
	wl := &fakeWatchlist{assets: []string{"a", "b"}}
	r, _, _ := newTestRunner(src, wl, &fakeNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Pass(ctx)

	if got := src.fetched(); len(got) != 0 {
		t.Fatalf("cancelled pass must not fetch, got %v", got)
	}
}
