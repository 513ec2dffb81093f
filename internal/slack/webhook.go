package slack

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/wonny/exdiv/pkg/httputil"
	"github.com/wonny/exdiv/pkg/logger"
)

// Webhook posts block messages to a Slack incoming webhook
type Webhook struct {
	url    string
	client *httputil.Client
	logger *logger.Logger
}

// NewWebhook creates a webhook sender.
// url이 비어 있으면 Send는 항상 에러를 반환한다.
func NewWebhook(url string, client *httputil.Client, log *logger.Logger) *Webhook {
	return &Webhook{
		url:    url,
		client: client,
		logger: log,
	}
}

// webhookPayload is the incoming-webhook message body.
// text는 알림 배너용 fallback.
type webhookPayload struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks"`
}

// Send delivers a block message. Empty block lists are rejected:
// Slack은 blocks가 빈 배열이면 invalid_blocks로 거절한다.
func (w *Webhook) Send(ctx context.Context, fallback string, blocks []Block) error {
	if w.url == "" {
		return fmt.Errorf("slack webhook URL not configured")
	}
	if len(blocks) == 0 {
		return fmt.Errorf("refusing to send empty block list")
	}

	payload := webhookPayload{Text: fallback, Blocks: blocks}

	resp, err := w.client.PostJSON(ctx, w.url, payload)
	if err != nil {
		return fmt.Errorf("slack webhook post failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode, string(body))
	}

	w.logger.WithField("blocks", len(blocks)).Info("Slack message delivered")
	return nil
}
