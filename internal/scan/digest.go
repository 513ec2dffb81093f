package scan

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/exdiv/internal/slack"
	"github.com/wonny/exdiv/pkg/logger"
)

// DigestService ties a scanner to Slack delivery and last-run tracking.
// 스케줄러 잡, /digest 슬래시 명령, HTTP 엔드포인트가 모두 이 서비스를
// 공유한다 (트리거만 다르고 동작은 동일).
type DigestService struct {
	scanner *Scanner
	webhook *slack.Webhook
	lastRun *LastRunStore
	logger  *logger.Logger
}

// NewDigestService creates the shared digest service
func NewDigestService(scanner *Scanner, webhook *slack.Webhook, lastRun *LastRunStore, log *logger.Logger) *DigestService {
	return &DigestService{
		scanner: scanner,
		webhook: webhook,
		lastRun: lastRun,
		logger:  log,
	}
}

// Run executes a scan and records it as the last run
func (s *DigestService) Run(ctx context.Context, overrideDays int, trigger string) LastRun {
	start := time.Now()
	result := s.scanner.Scan(ctx, overrideDays)

	run := LastRun{
		Result:      result,
		CompletedAt: time.Now(),
		Duration:    time.Since(start),
		Trigger:     trigger,
	}
	s.lastRun.Set(run)
	return run
}

// LastRun returns the most recent recorded run
func (s *DigestService) LastRun() (LastRun, bool) {
	return s.lastRun.Get()
}

// RunAndSend executes a scan and delivers the digest to Slack
func (s *DigestService) RunAndSend(ctx context.Context, overrideDays int, trigger string) error {
	run := s.Run(ctx, overrideDays, trigger)

	blocks := FormatForSlack(run.Result)
	fallback := fmt.Sprintf("미국 배당락일 임박 (%d종목)", run.Result.Count())

	if err := s.webhook.Send(ctx, fallback, blocks); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

// HandleCommand routes a /digest slash command.
// 반환 문자열이 사용자에게 ephemeral로 표시된다.
// `now` 뒤에 일수를 붙이면 요일 테이블 대신 그 범위로 스캔한다.
func (s *DigestService) HandleCommand(ctx context.Context, cmd slack.SlashCommand) string {
	fields := strings.Fields(cmd.Text)
	sub := ""
	if len(fields) > 0 {
		sub = fields[0]
	}

	switch sub {
	case "now":
		overrideDays := 0
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n <= 0 {
				return "일수는 양의 정수로 지정해 주세요. 예: `/digest now 7`"
			}
			overrideDays = n
		}

		if err := s.RunAndSend(ctx, overrideDays, "slash"); err != nil {
			s.logger.WithError(err).Error("Slash-triggered digest failed")
			return "스캔 실행 중 오류가 발생했습니다. 로그를 확인해 주세요."
		}
		return "스캔을 실행하고 다이제스트를 발송했습니다."

	case "status":
		return s.StatusText()

	default:
		return "사용법: `/digest now [일수]` (즉시 스캔+발송) 또는 `/digest status` (마지막 실행 상태)"
	}
}

// StatusText summarizes the last run for the status command
func (s *DigestService) StatusText() string {
	run, ok := s.lastRun.Get()
	if !ok {
		return "아직 실행된 스캔이 없습니다."
	}

	return fmt.Sprintf(
		"마지막 스캔: %s (trigger=%s)\n범위: %s ~ %s | 종목 %d개 | HIGH 제외 %d개 | 소요 %dms",
		run.CompletedAt.Format("2006-01-02 15:04:05"),
		run.Trigger,
		run.Result.ScanStartDate.Format("01/02"),
		run.Result.ScanEndDate.Format("01/02"),
		run.Result.Count(),
		run.Result.HighRiskExcluded,
		run.Duration.Milliseconds(),
	)
}
