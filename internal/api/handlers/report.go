package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/tradescope/internal/report"
	"github.com/wonny/tradescope/pkg/logger"
)

// ReportSource builds windowed performance reports
type ReportSource interface {
	Weekly(ctx context.Context, asOf time.Time) (*report.WeeklyReport, error)
	Summarize(ctx context.Context, asOf time.Time, window string) (*report.Summary, error)
}

// ReportHandler handles report API endpoints
// ⭐ SSOT: 리포트 API 핸들러는 이 구조체에서만
type ReportHandler struct {
	generator ReportSource
	logger    *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(generator ReportSource, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		generator: generator,
		logger:    log,
	}
}

// GetWeekly returns the weekly performance report
// GET /api/report/weekly?as_of=YYYY-MM-DD
func (h *ReportHandler) GetWeekly(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}

	rep, err := h.generator.Weekly(ctx, asOf)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate weekly report")
		respondError(w, http.StatusInternalServerError, "Failed to generate weekly report")
		return
	}

	respondJSON(w, http.StatusOK, rep)
}

// GetSummary returns the windowed performance summary
// GET /api/report/summary?window=30d&as_of=YYYY-MM-DD
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}

	window := r.URL.Query().Get("window")

	summary, err := h.generator.Summarize(ctx, asOf, window)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"window": window,
		}).Error("Failed to generate summary")
		respondError(w, http.StatusInternalServerError, "Failed to generate summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// parseAsOf reads the optional as_of query parameter. A zero time means
// "now"; a malformed value writes a 400 and returns ok=false.
func parseAsOf(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	asOfStr := r.URL.Query().Get("as_of")
	if asOfStr == "" {
		return time.Time{}, true
	}

	asOf, err := time.Parse("2006-01-02", asOfStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'as_of' date format (expected YYYY-MM-DD)")
		return time.Time{}, false
	}
	return asOf, true
}
