package jobs

import (
	"context"

	"github.com/wonny/tradescope/internal/regime"
	"github.com/wonny/tradescope/pkg/logger"
)

// RegimeSource computes the current market regime snapshot
type RegimeSource interface {
	Snapshot(ctx context.Context) regime.Snapshot
}

// RegimeWarmupJob primes the per-day regime cache before the US session
// opens, so the first trade close of the day does not pay the fetch cost.
type RegimeWarmupJob struct {
	provider RegimeSource
	logger   *logger.Logger
}

// NewRegimeWarmupJob creates a new regime warmup job
func NewRegimeWarmupJob(provider RegimeSource, log *logger.Logger) *RegimeWarmupJob {
	return &RegimeWarmupJob{
		provider: provider,
		logger:   log,
	}
}

// Name returns the job name
func (j *RegimeWarmupJob) Name() string {
	return "regime_warmup"
}

// Schedule returns the cron schedule (13:00 UTC weekdays, before NYSE open)
func (j *RegimeWarmupJob) Schedule() string {
	return "0 0 13 * * 1-5"
}

// Run computes today's regime snapshot, populating the day cache
func (j *RegimeWarmupJob) Run(ctx context.Context) error {
	snapshot := j.provider.Snapshot(ctx)

	j.logger.WithFields(map[string]interface{}{
		"group_key":         snapshot.GroupKey(),
		"volatility_bucket": snapshot.VolatilityBucket,
	}).Info("Regime cache warmed")

	return nil
}
