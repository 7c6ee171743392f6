package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"broilerfarm/internal/infrastructure/storage/postgres"
)

// WhatsAppConfig holds WhatsApp Cloud API settings.
type WhatsAppConfig struct {
	BaseURL       string
	APIVersion    string
	AccessToken   string
	PhoneNumberID string

	// Recipient is the farm owner's phone number in E.164 format
	Recipient string
}

// WhatsAppSender delivers outbox notifications as WhatsApp text
// messages. It implements postgres.NotificationSender.
type WhatsAppSender struct {
	httpClient    *resty.Client
	phoneNumberID string
	recipient     string
}

// NewWhatsAppSender builds a WhatsApp sender from configuration.
func NewWhatsAppSender(cfg WhatsAppConfig) *WhatsAppSender {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AccessToken)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &WhatsAppSender{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
		recipient:     cfg.Recipient,
	}
}

// sendResponse mirrors the successful response from Meta.
type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// apiError represents a WhatsApp Cloud API error payload.
type apiError struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		FBTraceID    string `json:"fbtrace_id"`
	} `json:"error"`
}

// Send implements postgres.NotificationSender.
func (s *WhatsAppSender) Send(ctx context.Context, n *postgres.Notification) error {
	body, err := formatMessage(n)
	if err != nil {
		return err
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                s.recipient,
		"type":              "text",
		"text": map[string]any{
			"body":        body,
			"preview_url": false,
		},
	}

	result := new(sendResponse)
	sendErr := new(apiError)

	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(sendErr).
		Post(fmt.Sprintf("%s/messages", s.phoneNumberID))
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		code := resp.StatusCode()
		if sendErr.Error.Code != 0 {
			code = sendErr.Error.Code
		}
		return fmt.Errorf("whatsapp api error: code=%d, message=%s", code, sendErr.Error.Message)
	}

	return nil
}

// formatMessage renders a notification payload as message text.
func formatMessage(n *postgres.Notification) (string, error) {
	switch n.Kind {
	case KindLowStock:
		var alert LowStockAlert
		if err := json.Unmarshal(n.Payload, &alert); err != nil {
			return "", fmt.Errorf("decode low-stock payload: %w", err)
		}
		return fmt.Sprintf(
			"Low stock alert: %s is down to %s %s (buffer %s %s). Time to restock.",
			alert.Name, alert.CurrentStock, alert.Unit, alert.BufferStock, alert.Unit,
		), nil
	default:
		return "", fmt.Errorf("unknown notification kind %q", n.Kind)
	}
}
