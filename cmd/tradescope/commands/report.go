package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// reportCmd represents the report command group
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "성과 리포트 생성",
	Long: `성과 리포트를 생성하여 JSON으로 출력합니다.

Example:
  go run ./cmd/tradescope report weekly
  go run ./cmd/tradescope report summary --window 90d`,
}

// reportWeeklyCmd generates the weekly report
var reportWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "주간 리포트 생성",
	RunE:  runWeeklyReport,
}

// reportSummaryCmd generates a windowed summary
var reportSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "윈도우 성과 요약 생성",
	RunE:  runSummaryReport,
}

var (
	reportAsOf   string
	reportWindow string
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportWeeklyCmd)
	reportCmd.AddCommand(reportSummaryCmd)

	// Flags
	reportCmd.PersistentFlags().StringVar(&reportAsOf, "as-of", "", "기준일 (YYYY-MM-DD, 기본값: 오늘)")
	reportSummaryCmd.Flags().StringVar(&reportWindow, "window", "30d", "집계 윈도우 (7d|30d|90d)")
}

func runWeeklyReport(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	asOf, err := parseReportAsOf()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	rep, err := d.generator.Weekly(ctx, asOf)
	if err != nil {
		return fmt.Errorf("generate weekly report: %w", err)
	}

	return printJSON(rep)
}

func runSummaryReport(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	asOf, err := parseReportAsOf()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	summary, err := d.generator.Summarize(ctx, asOf, reportWindow)
	if err != nil {
		return fmt.Errorf("generate summary: %w", err)
	}

	return printJSON(summary)
}

// parseReportAsOf reads the --as-of flag; zero time means "now"
func parseReportAsOf() (time.Time, error) {
	if reportAsOf == "" {
		return time.Time{}, nil
	}

	asOf, err := time.Parse("2006-01-02", reportAsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of date %q (expected YYYY-MM-DD)", reportAsOf)
	}
	return asOf, nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
