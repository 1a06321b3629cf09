package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/tradescope/internal/report"
	"github.com/wonny/tradescope/pkg/logger"
	"github.com/wonny/tradescope/pkg/redis"
)

// WeeklySource builds the weekly performance report
type WeeklySource interface {
	Weekly(ctx context.Context, asOf time.Time) (*report.WeeklyReport, error)
}

// WeeklyReportJob generates the weekly report every Saturday and caches
// it so the dashboard serves a precomputed copy over the weekend.
type WeeklyReportJob struct {
	generator WeeklySource
	cache     *redis.Cache
	logger    *logger.Logger
}

// NewWeeklyReportJob creates a new weekly report job
func NewWeeklyReportJob(generator WeeklySource, cache *redis.Cache, log *logger.Logger) *WeeklyReportJob {
	return &WeeklyReportJob{
		generator: generator,
		cache:     cache,
		logger:    log,
	}
}

// Name returns the job name
func (j *WeeklyReportJob) Name() string {
	return "weekly_report"
}

// Schedule returns the cron schedule (Saturday 12:00 UTC, after Friday close)
func (j *WeeklyReportJob) Schedule() string {
	return "0 0 12 * * 6"
}

// Run generates and caches the weekly report
func (j *WeeklyReportJob) Run(ctx context.Context) error {
	rep, err := j.generator.Weekly(ctx, time.Time{})
	if err != nil {
		return fmt.Errorf("failed to generate weekly report: %w", err)
	}

	key := fmt.Sprintf("report:weekly:%s", rep.AsOf.Format("2006-01-02"))
	if err := j.cache.Set(ctx, key, rep, 8*24*time.Hour); err != nil {
		j.logger.WithError(err).Warn("Failed to cache weekly report")
	}

	j.logger.WithFields(map[string]interface{}{
		"as_of":    rep.AsOf.Format("2006-01-02"),
		"last_7d":  rep.Last7d.Total,
		"warnings": len(rep.Warnings),
	}).Info("Weekly report generated")

	return nil
}
