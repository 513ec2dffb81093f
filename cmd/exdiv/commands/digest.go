package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// digestCmd represents the digest command
var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "스캔 실행 후 Slack으로 발송",
	Long: `배당락일 스캔을 실행하고 결과 다이제스트를 Slack webhook으로 발송합니다.

SLACK_WEBHOOK_URL 환경변수가 설정되어 있어야 합니다.

Example:
  go run ./cmd/exdiv digest
  go run ./cmd/exdiv digest --days 7`,
	RunE: runDigest,
}

var digestDays int

func init() {
	rootCmd.AddCommand(digestCmd)

	digestCmd.Flags().IntVar(&digestDays, "days", 0, "스캔 일수 강제 지정 (0이면 요일 테이블)")
}

func runDigest(cmd *cobra.Command, args []string) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	defer svc.close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := svc.digest.RunAndSend(ctx, digestDays, "cli"); err != nil {
		return fmt.Errorf("digest failed: %w", err)
	}

	fmt.Println("✅ 다이제스트 발송 완료")
	return nil
}
