package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wonny/tradescope/internal/report"
	"github.com/wonny/tradescope/pkg/logger"
)

type fakeGenerator struct {
	weekly     *report.WeeklyReport
	summary    *report.Summary
	gotAsOf    time.Time
	gotWindow  string
	err        error
}

func (f *fakeGenerator) Weekly(_ context.Context, asOf time.Time) (*report.WeeklyReport, error) {
	f.gotAsOf = asOf
	if f.err != nil {
		return nil, f.err
	}
	return f.weekly, nil
}

func (f *fakeGenerator) Summarize(_ context.Context, asOf time.Time, window string) (*report.Summary, error) {
	f.gotAsOf = asOf
	f.gotWindow = window
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func TestGetWeekly(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		gen := &fakeGenerator{weekly: &report.WeeklyReport{Warnings: []string{}}}
		h := NewReportHandler(gen, logger.NewNop())

		r := httptest.NewRequest(http.MethodGet, "/api/report/weekly", nil)
		w := httptest.NewRecorder()
		h.GetWeekly(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if !gen.gotAsOf.IsZero() {
			t.Errorf("asOf = %v, want zero (meaning now)", gen.gotAsOf)
		}
	})

	t.Run("as_of parsed", func(t *testing.T) {
		gen := &fakeGenerator{weekly: &report.WeeklyReport{}}
		h := NewReportHandler(gen, logger.NewNop())

		r := httptest.NewRequest(http.MethodGet, "/api/report/weekly?as_of=2026-08-20", nil)
		w := httptest.NewRecorder()
		h.GetWeekly(w, r)

		want := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
		if !gen.gotAsOf.Equal(want) {
			t.Errorf("asOf = %v, want %v", gen.gotAsOf, want)
		}
	})

	t.Run("bad as_of is 400", func(t *testing.T) {
		h := NewReportHandler(&fakeGenerator{}, logger.NewNop())

		r := httptest.NewRequest(http.MethodGet, "/api/report/weekly?as_of=20-08-2026", nil)
		w := httptest.NewRecorder()
		h.GetWeekly(w, r)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("generator failure is 500", func(t *testing.T) {
		h := NewReportHandler(&fakeGenerator{err: errors.New("db down")}, logger.NewNop())

		r := httptest.NewRequest(http.MethodGet, "/api/report/weekly", nil)
		w := httptest.NewRecorder()
		h.GetWeekly(w, r)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
	})
}

func TestGetSummary(t *testing.T) {
	t.Run("window passed through", func(t *testing.T) {
		gen := &fakeGenerator{summary: &report.Summary{Window: "7d"}}
		h := NewReportHandler(gen, logger.NewNop())

		r := httptest.NewRequest(http.MethodGet, "/api/report/summary?window=7d", nil)
		w := httptest.NewRecorder()
		h.GetSummary(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if gen.gotWindow != "7d" {
			t.Errorf("window = %q, want 7d", gen.gotWindow)
		}

		var resp report.Summary
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Window != "7d" {
			t.Errorf("response window = %q, want 7d", resp.Window)
		}
	})

	t.Run("missing window handed to generator for normalization", func(t *testing.T) {
		gen := &fakeGenerator{summary: &report.Summary{Window: "30d"}}
		h := NewReportHandler(gen, logger.NewNop())

		r := httptest.NewRequest(http.MethodGet, "/api/report/summary", nil)
		w := httptest.NewRecorder()
		h.GetSummary(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if gen.gotWindow != "" {
			t.Errorf("window = %q, want empty passthrough", gen.gotWindow)
		}
	})

	t.Run("generator failure is 500", func(t *testing.T) {
		h := NewReportHandler(&fakeGenerator{err: errors.New("db down")}, logger.NewNop())

		r := httptest.NewRequest(http.MethodGet, "/api/report/summary?window=30d", nil)
		w := httptest.NewRecorder()
		h.GetSummary(w, r)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
	})
}
