package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/exdiv/internal/scheduler"
	"github.com/wonny/exdiv/internal/scheduler/jobs"
	"github.com/wonny/exdiv/internal/slack"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 데몬 시작",
	Long: `다이제스트 스케줄러를 시작합니다.

이 명령어는:
- cron 일정에 따라 스캔+Slack 발송 실행 (기본: 평일 08:00)
- SLACK_APP_TOKEN이 있으면 Socket Mode로 /digest 명령 수신

Example:
  go run ./cmd/exdiv scheduler
  go run ./cmd/exdiv scheduler --run-now`,
	RunE: runScheduler,
}

var runNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&runNow, "run-now", false, "시작 직후 다이제스트 1회 즉시 실행")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== exdiv Scheduler ===")

	svc, err := buildServices()
	if err != nil {
		return err
	}
	defer svc.close()

	log := svc.logger

	sched := scheduler.New(log)

	digestJob := jobs.NewDigestJob(svc.digest, svc.cfg.Slack.DigestCron, log)
	if err := sched.AddJob(digestJob); err != nil {
		return fmt.Errorf("add digest job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Socket Mode: App token이 있을 때만 슬래시 명령을 수신한다
	if svc.cfg.Slack.AppToken != "" {
		socket := slack.NewSocketClient(svc.cfg.Slack.AppToken, log)
		socket.OnCommand(func(c slack.SlashCommand) string {
			return svc.digest.HandleCommand(ctx, c)
		})

		if err := socket.Connect(ctx); err != nil {
			log.WithError(err).Warn("Socket Mode connect failed, slash commands disabled")
		} else {
			defer socket.Disconnect()
		}
	}

	if runNow {
		if err := sched.RunJob(digestJob.Name()); err != nil {
			log.WithError(err).Warn("Immediate digest run failed to start")
		}
	}

	fmt.Printf("\n✅ Scheduler running (digest: %s)\n", svc.cfg.Slack.DigestCron)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	return nil
}
