package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tanakritw/officestock-backend/pkg/config"
	"github.com/tanakritw/officestock-backend/pkg/logger"
)

const pushPath = "/v2/bot/message/push"

// Client pushes text messages through the LINE Messaging API. When the
// credentials are unconfigured the client becomes a no-op sink so the rest
// of the system keeps working without a bot account.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	recipientID string
	enabled     bool
	logger      *logger.Logger
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewClient initializes the LINE wrapper. Missing credentials disable the
// client instead of failing startup.
func NewClient(ctx context.Context, cfg config.LineConfig, logg *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: strings.TrimSpace(cfg.AccessToken),
		recipientID: strings.TrimSpace(cfg.RecipientID),
		enabled:     cfg.Enabled(),
		logger:      logg,
	}

	if logg != nil {
		if c.enabled {
			logg.Info(ctx, "line client initialized")
		} else {
			logg.Warn(ctx, "line credentials missing, notifications disabled")
		}
	}
	return c
}

// Enabled reports whether the client has credentials to push with.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// Notify pushes a text message to the configured recipient. A disabled
// client returns nil so callers can stay fire-and-forget.
func (c *Client) Notify(ctx context.Context, text string) error {
	if !c.Enabled() {
		return nil
	}

	payload, err := json.Marshal(pushRequest{
		To:       c.recipientID,
		Messages: []textMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pushPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push message: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
