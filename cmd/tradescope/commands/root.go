package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tradescope",
	Short: "Tradescope - 거래 성과 귀인 분석 엔진",
	Long: `Tradescope Unified CLI

체결 기록을 성과 로그로 정규화하고 MAE/MFE, 시장 레짐을 붙여
전략별/캠페인별/레짐별 성과 리포트를 생성합니다.

Usage:
  go run ./cmd/tradescope [command]

Examples:
  go run ./cmd/tradescope api
  go run ./cmd/tradescope report weekly
  go run ./cmd/tradescope scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
