package commands

import (
	"fmt"
	"time"

	"github.com/wonny/tradescope/internal/external/stooq"
	"github.com/wonny/tradescope/internal/external/yahoo"
	"github.com/wonny/tradescope/internal/marketdata"
	"github.com/wonny/tradescope/internal/perflog"
	"github.com/wonny/tradescope/internal/regime"
	"github.com/wonny/tradescope/internal/report"
	"github.com/wonny/tradescope/pkg/config"
	"github.com/wonny/tradescope/pkg/database"
	"github.com/wonny/tradescope/pkg/httputil"
	"github.com/wonny/tradescope/pkg/logger"
	"github.com/wonny/tradescope/pkg/redis"
)

// deps is the shared object graph behind every command
type deps struct {
	cfg    *config.Config
	logger *logger.Logger
	db     *database.DB
	redis  *redis.Client
	cache  *redis.Cache

	provider  *regime.Provider
	recorder  *perflog.Recorder
	repo      *perflog.Repository
	generator *report.Generator
}

// buildDeps wires config through to the report generator
// ⭐ SSOT: 의존성 조립은 이 함수에서만
func buildDeps() (*deps, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Connect to redis (degrades to pass-through when unavailable)
	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, caching disabled")
		redisClient = redis.Disabled()
	}
	cache := redis.NewCache(redisClient, "tradescope")

	// 5. Create HTTP client and market data clients. The cross-process
	// rate limit protects the free quote endpoints when several commands
	// run at once; the in-process token bucket in the stooq client still
	// applies on top.
	httpClient := httputil.New(cfg, log)
	if redisClient.Enabled() {
		limiter := redis.NewRateLimiter(redisClient, "tradescope")
		httpClient = httpClient.WithRateLimiter(limiter, redis.RateLimitConfig{
			Key:    "marketdata",
			Limit:  60,
			Window: time.Minute,
		})
	}
	stooqClient := stooq.NewClient(cfg, httpClient, log)
	yahooClient := yahoo.NewClient(cfg, httpClient, log)
	source := marketdata.NewSource(stooqClient, yahooClient, cache, log)

	// 6. Create regime provider with its per-day cache
	provider := regime.NewProvider(cfg, source, source, regime.NewDayCache(), log)

	// 7. Create repositories and services
	repo := perflog.NewRepository(db.Pool)
	recorder := perflog.NewRecorder(repo, provider, source, log)
	generator := report.NewGenerator(cfg, repo, log)

	return &deps{
		cfg:       cfg,
		logger:    log,
		db:        db,
		redis:     redisClient,
		cache:     cache,
		provider:  provider,
		recorder:  recorder,
		repo:      repo,
		generator: generator,
	}, nil
}

// Close releases the database and redis connections
func (d *deps) Close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.redis != nil {
		d.redis.Close()
	}
}
