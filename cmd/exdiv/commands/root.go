package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "exdiv",
	Short: "exdiv - 미국 배당락일 스캔 엔진",
	Long: `exdiv Unified CLI

배당락일이 임박한 미국 고배당주를 스캔해서 리스크 평가와
세후 수익성 분석을 거친 순위 목록을 만들고 Slack으로 발송합니다.

Usage:
  go run ./cmd/exdiv [command]

Examples:
  go run ./cmd/exdiv scan
  go run ./cmd/exdiv scan --days 7
  go run ./cmd/exdiv digest
  go run ./cmd/exdiv api
  go run ./cmd/exdiv scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
