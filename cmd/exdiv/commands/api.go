package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/exdiv/internal/api"
	"github.com/wonny/exdiv/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 스캔 실행/조회 엔드포인트 제공
- Slack 슬래시 명령 엔드포인트 제공

Endpoints:
  GET  /health             - Health check
  GET  /api/scan           - 스캔 즉시 실행 (?days=N)
  GET  /api/scan/last      - 마지막 스캔 결과 조회
  POST /api/slack/command  - Slack 슬래시 명령 (HTTP 방식)

Example:
  go run ./cmd/exdiv api
  go run ./cmd/exdiv api --port 8089`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== exdiv API Server ===")

	svc, err := buildServices()
	if err != nil {
		return err
	}
	defer svc.close()

	if apiPort != "" {
		svc.cfg.Port = apiPort
	}

	log := svc.logger

	scanHandler := handlers.NewScanHandler(svc.digest, log)
	router := api.NewRouter(scanHandler, log)
	server := api.New(svc.cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", svc.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/scan")
	fmt.Println("  GET  /api/scan/last")
	fmt.Println("  POST /api/slack/command")
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
