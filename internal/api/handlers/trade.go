package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/wonny/tradescope/internal/perflog"
	"github.com/wonny/tradescope/pkg/logger"
)

// TradeLogger records closed trades into the performance log
type TradeLogger interface {
	LogClosedTrade(ctx context.Context, trade perflog.ClosedTrade, opts perflog.Options) error
}

// RecentReader reads the most recent persisted log rows
type RecentReader interface {
	RecentClosedTrades(ctx context.Context, asOf time.Time, limit int) ([]perflog.Row, error)
}

// TradeHandler handles performance log API endpoints
// ⭐ SSOT: 거래 로그 API 핸들러는 이 구조체에서만
type TradeHandler struct {
	recorder    TradeLogger
	reader      RecentReader
	recentLimit int
	logger      *logger.Logger
}

// NewTradeHandler creates a new trade handler
func NewTradeHandler(recorder TradeLogger, reader RecentReader, recentLimit int, log *logger.Logger) *TradeHandler {
	return &TradeHandler{
		recorder:    recorder,
		reader:      reader,
		recentLimit: recentLimit,
		logger:      log,
	}
}

// LogTradeRequest is the closed-trade logging request body
type LogTradeRequest struct {
	Trade        perflog.ClosedTrade `json:"trade"`
	Source       string              `json:"source"`
	TriggerLabel string              `json:"trigger_label"`
}

// LogTrade records a closed trade into the performance log
// POST /api/perflog/trades
func (h *TradeHandler) LogTrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LogTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Trade.ID == "" {
		respondError(w, http.StatusBadRequest, "trade.id is required")
		return
	}
	if req.Trade.Ticker == "" {
		respondError(w, http.StatusBadRequest, "trade.ticker is required")
		return
	}

	opts := perflog.Options{
		Source:       req.Source,
		TriggerLabel: req.TriggerLabel,
	}

	if err := h.recorder.LogClosedTrade(ctx, req.Trade, opts); err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"trade_id": req.Trade.ID,
			"ticker":   req.Trade.Ticker,
		}).Error("Failed to log closed trade")
		respondError(w, http.StatusInternalServerError, "Failed to log closed trade")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status":   "accepted",
		"trade_id": req.Trade.ID,
	})
}

// GetRecent returns the most recently closed logged trades
// GET /api/perflog/trades/recent?limit=20
func (h *TradeHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := h.recentLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= h.recentLimit {
			limit = l
		}
	}

	rows, err := h.reader.RecentClosedTrades(ctx, time.Now().UTC(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get recent trades")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve recent trades")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"trades": rows,
		"count":  len(rows),
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
