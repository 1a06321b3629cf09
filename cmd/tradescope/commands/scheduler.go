package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/tradescope/internal/scheduler"
	"github.com/wonny/tradescope/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 시작",
	Long: `예약 작업 스케줄러를 시작합니다.

등록 작업:
  regime_warmup  - 평일 13:00 UTC, 레짐 캐시 예열
  weekly_report  - 토요일 12:00 UTC, 주간 리포트 생성

Example:
  go run ./cmd/tradescope scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Tradescope Scheduler ===")

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	log := d.logger
	sched := scheduler.New(log)

	// Register jobs
	if err := sched.AddJob(jobs.NewRegimeWarmupJob(d.provider, log)); err != nil {
		return fmt.Errorf("register regime warmup job: %w", err)
	}
	if err := sched.AddJob(jobs.NewWeeklyReportJob(d.generator, d.cache, log)); err != nil {
		return fmt.Errorf("register weekly report job: %w", err)
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler running")
	for _, name := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
