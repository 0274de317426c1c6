package jaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the provider's moderation REST API.
type Client struct {
	baseURL string
	minter  *TokenMinter
	http    *http.Client
}

func NewClient(baseURL string, minter *TokenMinter) *Client {
	return &Client{
		baseURL: baseURL,
		minter:  minter,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Kick forcibly disconnects one live connection from a conference. Callers
// treat it as fire-and-forget; a failed kick is logged, not retried.
func (c *Client) Kick(ctx context.Context, roomID, participantID string) error {
	token, err := c.minter.ConferenceToken(Identity{ID: "meet-server"}, roomID, true)
	if err != nil {
		return fmt.Errorf("mint moderation token: %w", err)
	}

	body, err := json.Marshal(map[string]string{"participantId": participantID})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/%s/kick", c.baseURL, c.minter.AppID(), roomID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("kick request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("kick %s/%s: status %d", roomID, participantID, resp.StatusCode)
	}
	return nil
}
