package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Default endpoints.
const (
	DefaultGatewayURL = "wss://gateway.discord.gg/?v=10&encoding=json"
	DefaultAPIURL     = "https://discord.com/api/v10"
)

// maxMessageLen is the longest content the chat API accepts.
const maxMessageLen = 2000

// Poster posts a reply into a channel.
type Poster interface {
	PostMessage(ctx context.Context, channelID, content string) error
}

// REST is a minimal chat REST API client.
type REST struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewREST creates a REST client against baseURL.
func NewREST(baseURL, token string) *REST {
	return &REST{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// PostMessage sends content to channelID, truncated to the API limit.
func (r *REST) PostMessage(ctx context.Context, channelID, content string) error {
	if len(content) > maxMessageLen {
		content = content[:maxMessageLen-3] + "..."
	}
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/channels/%s/messages", r.baseURL, channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+r.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post message: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
