package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/wonny/exdiv/internal/scan"
	"github.com/wonny/exdiv/internal/slack"
	"github.com/wonny/exdiv/pkg/logger"
)

// ScanHandler handles dividend scan API endpoints
// ⭐ SSOT: 스캔 API 핸들러는 이 구조체에서만
type ScanHandler struct {
	digest *scan.DigestService
	logger *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(digest *scan.DigestService, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		digest: digest,
		logger: log,
	}
}

// GetScan runs a scan synchronously and returns the result
// GET /api/scan?days=N (days 생략 시 요일 테이블 적용)
func (h *ScanHandler) GetScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	overrideDays := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid 'days' parameter (expected positive integer)")
			return
		}
		overrideDays = days
	}

	run := h.digest.Run(ctx, overrideDays, "api")
	respondJSON(w, http.StatusOK, run.Result)
}

// GetLastScan returns the most recent scan result
// GET /api/scan/last
func (h *ScanHandler) GetLastScan(w http.ResponseWriter, r *http.Request) {
	run, ok := h.digest.LastRun()
	if !ok {
		respondError(w, http.StatusNotFound, "No scan has run yet")
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// SlackCommand handles a form-encoded slash command request
// POST /api/slack/command
// Socket Mode와 같은 라우팅을 쓴다: now / status / 그 외 usage.
func (h *ScanHandler) SlackCommand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	cmd, err := slack.ParseSlashPayload(string(body))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid slash command payload")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"command": cmd.Command,
		"text":    cmd.Text,
	}).Info("Slash command via HTTP")

	text := h.digest.HandleCommand(ctx, cmd)

	// Slack 슬래시 응답 형식
	respondJSON(w, http.StatusOK, map[string]string{
		"response_type": "ephemeral",
		"text":          text,
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
