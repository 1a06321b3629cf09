package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tradescope/internal/api"
	"github.com/wonny/tradescope/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 성과 로그 적재 엔드포인트 제공
- 리포트 조회 엔드포인트 제공

Endpoints:
  GET  /health                     - Health check
  POST /api/perflog/trades         - 청산 거래 기록
  GET  /api/perflog/trades/recent  - 최근 거래 조회
  GET  /api/report/weekly          - 주간 리포트
  GET  /api/report/summary         - 윈도우 요약
  GET  /api/regime/current         - 현재 레짐

Example:
  go run ./cmd/tradescope api
  go run ./cmd/tradescope api --port 8091`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본값: config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Tradescope API Server ===")

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	// Override port if flag is set
	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	log := d.logger
	log.WithFields(map[string]interface{}{
		"port": d.cfg.Port,
		"env":  d.cfg.Env,
	}).Info("Initializing API server")

	// Create handlers
	tradeHandler := handlers.NewTradeHandler(d.recorder, d.repo, d.cfg.Report.RecentTrades, log)
	reportHandler := handlers.NewReportHandler(d.generator, log)
	regimeHandler := handlers.NewRegimeHandler(d.provider, log)

	// Create router and server
	router := api.NewRouter(tradeHandler, reportHandler, regimeHandler, log)
	server := api.New(d.cfg, log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/perflog/trades")
	fmt.Println("  GET  /api/perflog/trades/recent")
	fmt.Println("  GET  /api/report/weekly")
	fmt.Println("  GET  /api/report/summary")
	fmt.Println("  GET  /api/regime/current")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
