package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/tradescope/internal/regime"
	"github.com/wonny/tradescope/pkg/logger"
)

// RegimeReader supplies the current market regime snapshot
type RegimeReader interface {
	Snapshot(ctx context.Context) regime.Snapshot
}

// RegimeHandler handles regime API endpoints
type RegimeHandler struct {
	provider RegimeReader
	logger   *logger.Logger
}

// NewRegimeHandler creates a new regime handler
func NewRegimeHandler(provider RegimeReader, log *logger.Logger) *RegimeHandler {
	return &RegimeHandler{
		provider: provider,
		logger:   log,
	}
}

// GetCurrent returns today's market regime snapshot
// GET /api/regime/current
func (h *RegimeHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	snapshot := h.provider.Snapshot(r.Context())
	respondJSON(w, http.StatusOK, snapshot)
}
