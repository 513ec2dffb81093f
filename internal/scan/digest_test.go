package scan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/exdiv/internal/contracts"
	"github.com/wonny/exdiv/internal/slack"
	"github.com/wonny/exdiv/pkg/config"
	"github.com/wonny/exdiv/pkg/httputil"
	"github.com/wonny/exdiv/pkg/logger"
)

func newTestDigest(p contracts.MarketDataProvider, webhookURL string) *DigestService {
	log := logger.NewNop()
	webhook := slack.NewWebhook(webhookURL, httputil.New(&config.Config{}, log).DisableRetry(), log)
	return NewDigestService(newTestScanner(p), webhook, NewLastRunStore(), log)
}

func TestDigestRun_RecordsLastRun(t *testing.T) {
	p := &fakeProvider{
		records:    []contracts.RawDividendRecord{record("KO", 5.0, 2_000_000_000)},
		indicators: map[string]*contracts.TechnicalIndicators{},
	}
	d := newTestDigest(p, "")

	_, ok := d.LastRun()
	assert.False(t, ok, "no run recorded yet")

	run := d.Run(context.Background(), 0, "cli")

	assert.Equal(t, 1, run.Result.Count())
	assert.Equal(t, "cli", run.Trigger)

	stored, ok := d.LastRun()
	require.True(t, ok)
	assert.Equal(t, run.Result.ScannedAt, stored.Result.ScannedAt)
}

func TestDigestRunAndSend(t *testing.T) {
	delivered := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := &fakeProvider{
		records:    []contracts.RawDividendRecord{record("KO", 5.0, 2_000_000_000)},
		indicators: map[string]*contracts.TechnicalIndicators{},
	}
	d := newTestDigest(p, server.URL)

	err := d.RunAndSend(context.Background(), 0, "schedule")
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	run, ok := d.LastRun()
	require.True(t, ok)
	assert.Equal(t, "schedule", run.Trigger)
}

// 빈 결과도 안내 블록으로 발송된다
func TestDigestRunAndSend_EmptyScanStillDelivers(t *testing.T) {
	delivered := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := newTestDigest(&fakeProvider{}, server.URL)

	err := d.RunAndSend(context.Background(), 0, "schedule")
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
}

func TestDigestHandleCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := &fakeProvider{
		records:    []contracts.RawDividendRecord{record("KO", 5.0, 2_000_000_000)},
		indicators: map[string]*contracts.TechnicalIndicators{},
	}
	d := newTestDigest(p, server.URL)

	t.Run("unknown shows usage", func(t *testing.T) {
		resp := d.HandleCommand(context.Background(), slack.SlashCommand{Command: "/digest", Text: "bogus"})
		assert.Contains(t, resp, "사용법")
	})

	t.Run("status before any run", func(t *testing.T) {
		resp := d.HandleCommand(context.Background(), slack.SlashCommand{Command: "/digest", Text: "status"})
		assert.Contains(t, resp, "아직 실행된 스캔이 없습니다")
	})

	t.Run("now runs and sends", func(t *testing.T) {
		resp := d.HandleCommand(context.Background(), slack.SlashCommand{Command: "/digest", Text: "now"})
		assert.Contains(t, resp, "발송")
	})

	t.Run("now with day count overrides the range", func(t *testing.T) {
		resp := d.HandleCommand(context.Background(), slack.SlashCommand{Command: "/digest", Text: "now 7"})
		assert.Contains(t, resp, "발송")

		run, ok := d.LastRun()
		require.True(t, ok)
		assert.Equal(t, 7, run.Result.ScanRangeDays)
	})

	t.Run("now with bad day count shows usage hint", func(t *testing.T) {
		for _, text := range []string{"now zero", "now 0", "now -3"} {
			resp := d.HandleCommand(context.Background(), slack.SlashCommand{Command: "/digest", Text: text})
			assert.Contains(t, resp, "양의 정수", text)
		}
	})

	t.Run("status after run", func(t *testing.T) {
		resp := d.HandleCommand(context.Background(), slack.SlashCommand{Command: "/digest", Text: "status"})
		assert.Contains(t, resp, "마지막 스캔")
		assert.Contains(t, resp, "trigger=slash")
	})
}
