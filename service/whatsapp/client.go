package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client sends text messages through the 360dialog WhatsApp API.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

func NewClient(url, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{},
		url:        url,
		apiKey:     apiKey,
	}
}

type textMessage struct {
	MessagingProduct string      `json:"messaging_product"`
	RecipientType    string      `json:"recipient_type"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             messageBody `json:"text"`
}

type messageBody struct {
	Body string `json:"body"`
}

// SendMessage delivers a text reply to the given phone number. Delivery is
// fire-and-forget from the webhook's point of view; the caller logs the
// returned error and moves on.
func (c *Client) SendMessage(ctx context.Context, phoneNumber, text string) error {
	if c.apiKey == "" {
		return fmt.Errorf("D360_API_KEY not set")
	}

	payload, err := json.Marshal(textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               phoneNumber,
		Type:             "text",
		Text:             messageBody{Body: text},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("D360-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp send failed: %d %s", resp.StatusCode, string(detail))
	}

	return nil
}
