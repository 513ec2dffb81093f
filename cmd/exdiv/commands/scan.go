package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "배당락일 스캔 실행",
	Long: `배당락일이 임박한 고배당주를 스캔합니다.

이 명령어는:
- 요일별 스캔 범위 계산 (또는 --days 강제 지정)
- Yahoo Finance에서 배당/시세 데이터 수집
- 리스크 평가 후 HIGH 리스크 제외
- 세후 수익성 분석과 순위 정렬

Example:
  go run ./cmd/exdiv scan
  go run ./cmd/exdiv scan --days 7
  go run ./cmd/exdiv scan --json`,
	RunE: runScan,
}

var (
	scanDays int
	scanJSON bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().IntVar(&scanDays, "days", 0, "스캔 일수 강제 지정 (0이면 요일 테이블)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "JSON으로 출력")
}

func runScan(cmd *cobra.Command, args []string) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	defer svc.close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	run := svc.digest.Run(ctx, scanDays, "cli")
	result := run.Result

	if scanJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("=== 배당락일 스캔: %s ~ %s ===\n",
		result.ScanStartDate.Format("2006-01-02"),
		result.ScanEndDate.Format("2006-01-02"))
	fmt.Printf("종목 %d개 | HIGH 리스크 %d개 제외 | 소요 %dms\n\n",
		result.Count(), result.HighRiskExcluded, run.Duration.Milliseconds())

	for i, st := range result.Stocks {
		risk := "-"
		if st.Risk != nil {
			risk = string(st.Risk.Level)
		}
		fmt.Printf("%2d. %-6s %s 배당 %.2f%% [%s]\n",
			i+1, st.Ticker, st.ExDividendDate.Format("01/02"), st.DividendYield, risk)

		if st.ProfitAnalysis != nil {
			fmt.Printf("    %s\n", st.ProfitAnalysis.Verdict)
		}
	}

	if result.Count() == 0 {
		fmt.Println("조건을 만족하는 종목이 없습니다.")
	}

	return nil
}
