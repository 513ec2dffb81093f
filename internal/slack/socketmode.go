package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/exdiv/pkg/logger"
)

const (
	connectionsOpenURL = "https://slack.com/api/apps.connections.open"

	ReconnectInitialDelay = 1 * time.Second
	ReconnectMaxDelay     = 30 * time.Second
	MaxReconnectAttempts  = 10
)

// SlashCommand is an incoming slash command
type SlashCommand struct {
	Command string
	Text    string
	UserID  string
}

// SocketClient maintains a Slack Socket Mode connection
// and routes slash commands to a handler.
type SocketClient struct {
	appToken string
	logger   *logger.Logger

	conn      *websocket.Conn
	connMu    sync.Mutex
	connected bool

	onCommand func(SlashCommand) string

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewSocketClient creates a Socket Mode client
func NewSocketClient(appToken string, log *logger.Logger) *SocketClient {
	return &SocketClient{
		appToken: appToken,
		logger:   log,
		stopCh:   make(chan struct{}),
	}
}

// OnCommand registers the slash command handler.
// handler가 반환한 문자열은 ack 응답 텍스트로 쓰인다.
func (c *SocketClient) OnCommand(fn func(SlashCommand) string) { c.onCommand = fn }

// Connect opens the Socket Mode connection and starts the read loop
func (c *SocketClient) Connect(ctx context.Context) error {
	if c.appToken == "" {
		return fmt.Errorf("slack app token not configured")
	}

	wsURL, err := c.openConnection(ctx)
	if err != nil {
		return fmt.Errorf("apps.connections.open: %w", err)
	}

	if err := c.connect(ctx, wsURL); err != nil {
		return fmt.Errorf("websocket connect: %w", err)
	}

	c.wg.Add(1)
	go c.readLoop(ctx)

	c.logger.Info("Slack Socket Mode connected")
	return nil
}

// openConnection requests a fresh WebSocket URL from Slack
func (c *SocketClient) openConnection(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, connectionsOpenURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.appToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result struct {
		OK    bool   `json:"ok"`
		URL   string `json:"url"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if !result.OK {
		return "", fmt.Errorf("slack API error: %s", result.Error)
	}

	return result.URL, nil
}

// connect dials the Socket Mode WebSocket URL
func (c *SocketClient) connect(ctx context.Context, wsURL string) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}

	c.conn = conn
	c.connected = true
	return nil
}

// Disconnect closes the connection
func (c *SocketClient) Disconnect() error {
	close(c.stopCh)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.connected = false
	}
	c.connMu.Unlock()

	c.wg.Wait()

	c.logger.Info("Slack Socket Mode disconnected")
	return nil
}

// IsConnected returns connection status
func (c *SocketClient) IsConnected() bool {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.connected
}

// envelope is the Socket Mode wire frame
type envelope struct {
	Type       string          `json:"type"`
	EnvelopeID string          `json:"envelope_id"`
	Payload    json.RawMessage `json:"payload"`
}

// readLoop handles incoming envelopes
func (c *SocketClient) readLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-c.stopCh:
			return
		default:
		}

		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}

			select {
			case <-c.stopCh:
				return
			default:
			}

			c.logger.WithError(err).Warn("Socket Mode read error, reconnecting")
			c.handleDisconnect()
			if rerr := c.reconnect(ctx); rerr != nil {
				c.logger.WithError(rerr).Error("Socket Mode reconnect failed")
				return
			}
			continue
		}

		c.handleEnvelope(message)
	}
}

// handleEnvelope routes a single envelope.
// 모든 envelope은 수신 즉시 ack해야 한다. slash command는 ack payload에
// 응답 텍스트를 실어 보낸다 (3초 제한 내 응답).
func (c *SocketClient) handleEnvelope(data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.logger.WithError(err).Warn("Unparseable Socket Mode envelope")
		return
	}

	switch env.Type {
	case "hello":
		c.logger.Debug("Socket Mode hello received")

	case "disconnect":
		// Slack이 곧 연결을 닫는다: read 에러에서 재접속 처리
		c.logger.Info("Socket Mode disconnect requested by Slack")

	case "slash_commands":
		var payload struct {
			Command string `json:"command"`
			Text    string `json:"text"`
			UserID  string `json:"user_id"`
		}
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			c.ack(env.EnvelopeID, "")
			return
		}

		cmd := SlashCommand{
			Command: payload.Command,
			Text:    strings.TrimSpace(payload.Text),
			UserID:  payload.UserID,
		}

		c.logger.WithFields(map[string]interface{}{
			"command": cmd.Command,
			"text":    cmd.Text,
			"user_id": cmd.UserID,
		}).Info("Slash command received")

		response := ""
		if c.onCommand != nil {
			response = c.onCommand(cmd)
		}
		c.ack(env.EnvelopeID, response)

	default:
		if env.EnvelopeID != "" {
			c.ack(env.EnvelopeID, "")
		}
	}
}

// ack acknowledges an envelope, optionally with response text
func (c *SocketClient) ack(envelopeID, text string) {
	ackMsg := map[string]interface{}{
		"envelope_id": envelopeID,
	}
	if text != "" {
		ackMsg["payload"] = map[string]string{
			"response_type": "ephemeral",
			"text":          text,
		}
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return
	}
	if err := c.conn.WriteJSON(ackMsg); err != nil {
		c.logger.WithError(err).Warn("Socket Mode ack failed")
	}
}

// handleDisconnect handles connection loss
func (c *SocketClient) handleDisconnect() {
	c.connMu.Lock()
	c.connected = false
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()
}

// reconnect attempts to re-establish the connection with backoff
func (c *SocketClient) reconnect(ctx context.Context) error {
	delay := ReconnectInitialDelay

	for attempt := 1; attempt <= MaxReconnectAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			return fmt.Errorf("client stopped")
		case <-time.After(delay):
		}

		c.logger.WithField("attempt", attempt).Info("Attempting Socket Mode reconnection")

		wsURL, err := c.openConnection(ctx)
		if err == nil {
			if err = c.connect(ctx, wsURL); err == nil {
				c.logger.Info("Socket Mode reconnected")
				return nil
			}
		}

		delay *= 2
		if delay > ReconnectMaxDelay {
			delay = ReconnectMaxDelay
		}
	}

	return fmt.Errorf("max reconnect attempts reached")
}

// ParseSlashPayload parses a form-encoded slash command request body.
// HTTP 엔드포인트(POST /api/slack/command)와 Socket Mode가 같은
// 명령 구조를 공유한다.
func ParseSlashPayload(body string) (SlashCommand, error) {
	values, err := url.ParseQuery(body)
	if err != nil {
		return SlashCommand{}, fmt.Errorf("parse slash payload: %w", err)
	}
	return SlashCommand{
		Command: values.Get("command"),
		Text:    strings.TrimSpace(values.Get("text")),
		UserID:  values.Get("user_id"),
	}, nil
}
