package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wonny/tradescope/pkg/logger"
	"github.com/wonny/tradescope/pkg/redis"
)

type fakeBars struct {
	closes []float64
	err    error
	calls  int
}

func (f *fakeBars) FetchDailyCloses(_ context.Context, _ string, _, _ time.Time) ([]float64, error) {
	f.calls++
	return f.closes, f.err
}

type fakeSpot struct {
	value float64
	err   error
}

func (f *fakeSpot) FetchSpot(_ context.Context, _ string) (float64, error) {
	return f.value, f.err
}

func newTestSource(bars BarFetcher, spot SpotFetcher) *Source {
	// Disabled redis: cache paths no-op, fetch path is exercised directly
	cache := redis.NewCache(redis.Disabled(), "test")
	return NewSource(bars, spot, cache, logger.NewNop())
}

func TestDailyCloses(t *testing.T) {
	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)

	t.Run("returns series on success", func(t *testing.T) {
		src := newTestSource(&fakeBars{closes: []float64{100, 110, 90}}, &fakeSpot{})

		closes, ok := src.DailyCloses(context.Background(), "AAPL.US", from, to)
		if !ok {
			t.Fatal("DailyCloses() ok = false, want true")
		}
		if len(closes) != 3 {
			t.Errorf("DailyCloses() len = %d, want 3", len(closes))
		}
	})

	t.Run("swallows upstream error", func(t *testing.T) {
		src := newTestSource(&fakeBars{err: errors.New("rate limited (429)")}, &fakeSpot{})

		closes, ok := src.DailyCloses(context.Background(), "AAPL.US", from, to)
		if ok {
			t.Error("DailyCloses() ok = true on upstream error")
		}
		if closes != nil {
			t.Errorf("DailyCloses() = %v, want nil", closes)
		}
	})

	t.Run("empty series is absent", func(t *testing.T) {
		src := newTestSource(&fakeBars{closes: []float64{}}, &fakeSpot{})

		if _, ok := src.DailyCloses(context.Background(), "AAPL.US", from, to); ok {
			t.Error("DailyCloses() ok = true on empty series")
		}
	})
}

func TestVolatilitySpot(t *testing.T) {
	t.Run("returns value on success", func(t *testing.T) {
		src := newTestSource(&fakeBars{}, &fakeSpot{value: 27.0})

		value, ok := src.VolatilitySpot(context.Background(), "^VIX")
		if !ok {
			t.Fatal("VolatilitySpot() ok = false, want true")
		}
		if value != 27.0 {
			t.Errorf("VolatilitySpot() = %v, want 27.0", value)
		}
	})

	t.Run("falls back to latest daily close", func(t *testing.T) {
		bars := &fakeBars{closes: []float64{24.5, 26.0, 31.2}}
		src := newTestSource(bars, &fakeSpot{err: errors.New("no quote value found")})

		value, ok := src.VolatilitySpot(context.Background(), "^VIX")
		if !ok {
			t.Fatal("VolatilitySpot() ok = false, want fallback value")
		}
		if value != 31.2 {
			t.Errorf("VolatilitySpot() = %v, want latest close 31.2", value)
		}
		if bars.calls != 1 {
			t.Errorf("bar fetcher calls = %d, want 1", bars.calls)
		}
	})

	t.Run("absent when both sources fail", func(t *testing.T) {
		bars := &fakeBars{err: errors.New("rate limited (429)")}
		src := newTestSource(bars, &fakeSpot{err: errors.New("no quote value found")})

		if _, ok := src.VolatilitySpot(context.Background(), "^VIX"); ok {
			t.Error("VolatilitySpot() ok = true when both sources fail")
		}
	})
}
