package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"kurswatch/internal/httpx"
)

const defaultBaseURL = "https://api.telegram.org"

// Client sends plain-text messages through the Telegram Bot API.
type Client struct {
	BaseURL string
	Token   string
	ChatIDs []string
	HTTP    *http.Client
}

func New(token string, chatIDs []string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		Token:   token,
		ChatIDs: chatIDs,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers text to every configured chat in order and returns on the
// first failure. A partial delivery therefore surfaces as an error instead of
// silently passing for the remaining recipients.
func (c *Client) Send(ctx context.Context, text string) error {
	if c.Token == "" {
		return errors.New("telegram: missing bot token")
	}
	if len(c.ChatIDs) == 0 {
		return errors.New("telegram: no chat ids configured")
	}

	for _, chatID := range c.ChatIDs {
		if err := c.sendMessage(ctx, chatID, text); err != nil {
			return fmt.Errorf("telegram: chat %s: %w", chatID, err)
		}
	}
	return nil
}

func (c *Client) sendMessage(ctx context.Context, chatID, text string) error {
	b, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}

	_, body, err := httpx.Do(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/bot"+c.Token+"/sendMessage", bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/json")
		return r, nil
	})
	if err != nil {
		return err
	}

	// The Bot API can answer 200 with ok=false on semantic errors.
	var out sendMessageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("api error: %s", out.Description)
	}
	return nil
}
