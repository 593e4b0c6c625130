package report

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rustyeddy/daytrader/logger"
)

// Telegram delivers reports to a Telegram chat. Delivery is best effort: the
// ack is logged, never waited on by the trading cycle beyond the request
// timeout, and an unconfigured sink is a silent no-op.
type Telegram struct {
	client *resty.Client
	token  string
	chatID string
}

// NewTelegram builds the sink. Empty token or chat ID leaves it unconfigured.
func NewTelegram(token, chatID string, timeout time.Duration) *Telegram {
	client := resty.New()
	client.SetBaseURL("https://api.telegram.org")
	client.SetTimeout(timeout)
	return &Telegram{client: client, token: token, chatID: chatID}
}

// Configured reports whether the sink has credentials.
func (t *Telegram) Configured() bool {
	return t.token != "" && t.chatID != ""
}

type sendResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Send posts a pre-formatted text report, truncated to the platform limit.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if !t.Configured() {
		logger.Debug(ctx, "telegram not configured, skipping delivery")
		return nil
	}

	var sr sendResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id": t.chatID,
			"text":    Truncate(text, MaxMessageLen),
		}).
		SetResult(&sr).
		Post(fmt.Sprintf("/bot%s/sendMessage", t.token))
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if resp.IsError() || !sr.OK {
		return fmt.Errorf("telegram send: http %d: %s", resp.StatusCode(), resp.String())
	}

	logger.Info(ctx, "report delivered", "message_id", sr.Result.MessageID, "chars", len(text))
	return nil
}
