// Package delivery sends reply directives to the WhatsApp Cloud API.
// The router hands over abstract directives; all gateway payload
// framing lives here.
package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/swasthyasaathi/bot/internal/models"
)

// Sender is the outbound-delivery boundary.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
	SendButtons(ctx context.Context, to, body string, buttons []models.Button) error
}

// Graph API payload frames.

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type interactivePayload struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Interactive      interactive `json:"interactive"`
}

type interactive struct {
	Type   string            `json:"type"`
	Body   interactiveBody   `json:"body"`
	Action interactiveAction `json:"action"`
}

type interactiveBody struct {
	Text string `json:"text"`
}

type interactiveAction struct {
	Buttons []replyButton `json:"buttons"`
}

type replyButton struct {
	Type  string      `json:"type"`
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// WhatsAppClient talks to the WhatsApp Cloud (Graph) API.
type WhatsAppClient struct {
	httpClient    *resty.Client
	phoneNumberID string
	logger        *zap.Logger
}

func NewWhatsAppClient(baseURL, accessToken, phoneNumberID string, timeout time.Duration, logger *zap.Logger) *WhatsAppClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &WhatsAppClient{
		httpClient:    client,
		phoneNumberID: phoneNumberID,
		logger:        logger,
	}
}

func (c *WhatsAppClient) SendText(ctx context.Context, to, body string) error {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	}
	return c.post(ctx, payload, to)
}

func (c *WhatsAppClient) SendButtons(ctx context.Context, to, body string, buttons []models.Button) error {
	frames := make([]replyButton, len(buttons))
	for i, b := range buttons {
		frames[i] = replyButton{
			Type:  "reply",
			Reply: buttonReply{ID: b.ID, Title: b.Title},
		}
	}

	payload := interactivePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: interactive{
			Type:   "button",
			Body:   interactiveBody{Text: body},
			Action: interactiveAction{Buttons: frames},
		},
	}
	return c.post(ctx, payload, to)
}

func (c *WhatsAppClient) post(ctx context.Context, payload any, to string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(fmt.Sprintf("/%s/messages", c.phoneNumberID))
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("WhatsApp API rejected message",
			zap.Int("status", resp.StatusCode()),
			zap.String("to", to),
			zap.String("response", resp.String()))
		return fmt.Errorf("whatsapp api returned status %d", resp.StatusCode())
	}

	return nil
}
