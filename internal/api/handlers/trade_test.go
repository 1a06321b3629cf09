package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wonny/tradescope/internal/perflog"
	"github.com/wonny/tradescope/pkg/logger"
)

type fakeRecorder struct {
	logged []perflog.ClosedTrade
	opts   []perflog.Options
	err    error
}

func (f *fakeRecorder) LogClosedTrade(_ context.Context, trade perflog.ClosedTrade, opts perflog.Options) error {
	if f.err != nil {
		return f.err
	}
	f.logged = append(f.logged, trade)
	f.opts = append(f.opts, opts)
	return nil
}

type fakeReader struct {
	rows      []perflog.Row
	gotLimit  int
	err       error
}

func (f *fakeReader) RecentClosedTrades(_ context.Context, _ time.Time, limit int) ([]perflog.Row, error) {
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if len(f.rows) > limit {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func tradeBody(t *testing.T, req LogTradeRequest) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return bytes.NewBuffer(body)
}

func TestLogTrade(t *testing.T) {
	closedAt := time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)

	validReq := LogTradeRequest{
		Trade: perflog.ClosedTrade{
			ID:       "trade-1",
			Ticker:   "AAPL",
			Strategy: perflog.StrategySwing,
			ClosedAt: &closedAt,
		},
		Source:       "executor",
		TriggerLabel: "stop_loss",
	}

	t.Run("accepted", func(t *testing.T) {
		rec := &fakeRecorder{}
		h := NewTradeHandler(rec, &fakeReader{}, 20, logger.NewNop())

		r := httptest.NewRequest(http.MethodPost, "/api/perflog/trades", tradeBody(t, validReq))
		w := httptest.NewRecorder()
		h.LogTrade(w, r)

		if w.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202, body %s", w.Code, w.Body.String())
		}
		if len(rec.logged) != 1 || rec.logged[0].ID != "trade-1" {
			t.Errorf("recorder got %v, want trade-1", rec.logged)
		}
		if rec.opts[0].Source != "executor" || rec.opts[0].TriggerLabel != "stop_loss" {
			t.Errorf("opts = %+v, want source/trigger passed through", rec.opts[0])
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewTradeHandler(&fakeRecorder{}, &fakeReader{}, 20, logger.NewNop())

		r := httptest.NewRequest(http.MethodPost, "/api/perflog/trades", strings.NewReader("{not json"))
		w := httptest.NewRecorder()
		h.LogTrade(w, r)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("missing trade id", func(t *testing.T) {
		req := validReq
		req.Trade.ID = ""
		h := NewTradeHandler(&fakeRecorder{}, &fakeReader{}, 20, logger.NewNop())

		r := httptest.NewRequest(http.MethodPost, "/api/perflog/trades", tradeBody(t, req))
		w := httptest.NewRecorder()
		h.LogTrade(w, r)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("recorder failure is 500", func(t *testing.T) {
		rec := &fakeRecorder{err: errors.New("db down")}
		h := NewTradeHandler(rec, &fakeReader{}, 20, logger.NewNop())

		r := httptest.NewRequest(http.MethodPost, "/api/perflog/trades", tradeBody(t, validReq))
		w := httptest.NewRecorder()
		h.LogTrade(w, r)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
	})
}

func TestGetRecent(t *testing.T) {
	rows := []perflog.Row{
		{TradeID: "t1", Ticker: "AAPL"},
		{TradeID: "t2", Ticker: "MSFT"},
	}

	t.Run("default limit", func(t *testing.T) {
		reader := &fakeReader{rows: rows}
		h := NewTradeHandler(&fakeRecorder{}, reader, 20, logger.NewNop())

		r := httptest.NewRequest(http.MethodGet, "/api/perflog/trades/recent", nil)
		w := httptest.NewRecorder()
		h.GetRecent(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if reader.gotLimit != 20 {
			t.Errorf("limit = %d, want 20", reader.gotLimit)
		}

		var resp struct {
			Count int `json:"count"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Count != 2 {
			t.Errorf("count = %d, want 2", resp.Count)
		}
	})

	t.Run("limit capped at configured maximum", func(t *testing.T) {
		reader := &fakeReader{rows: rows}
		h := NewTradeHandler(&fakeRecorder{}, reader, 20, logger.NewNop())

		r := httptest.NewRequest(http.MethodGet, "/api/perflog/trades/recent?limit=500", nil)
		w := httptest.NewRecorder()
		h.GetRecent(w, r)

		if reader.gotLimit != 20 {
			t.Errorf("limit = %d, want capped to 20", reader.gotLimit)
		}
	})

	t.Run("explicit smaller limit", func(t *testing.T) {
		reader := &fakeReader{rows: rows}
		h := NewTradeHandler(&fakeRecorder{}, reader, 20, logger.NewNop())

		r := httptest.NewRequest(http.MethodGet, "/api/perflog/trades/recent?limit=1", nil)
		w := httptest.NewRecorder()
		h.GetRecent(w, r)

		if reader.gotLimit != 1 {
			t.Errorf("limit = %d, want 1", reader.gotLimit)
		}
	})

	t.Run("reader failure is 500", func(t *testing.T) {
		reader := &fakeReader{err: errors.New("db down")}
		h := NewTradeHandler(&fakeRecorder{}, reader, 20, logger.NewNop())

		r := httptest.NewRequest(http.MethodGet, "/api/perflog/trades/recent", nil)
		w := httptest.NewRecorder()
		h.GetRecent(w, r)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
	})
}
