package users

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/internxt/meet-server/internal/domain"
)

// Client is the user directory lookup.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FindManyByUUID resolves user records in a single batch call. Blank and
// duplicate ids are dropped before the request; unknown ids are simply
// absent from the result.
func (c *Client) FindManyByUUID(ctx context.Context, uuids []string) ([]domain.UserRecord, error) {
	clean := make([]string, 0, len(uuids))
	seen := make(map[string]bool, len(uuids))
	for _, id := range uuids {
		id = strings.TrimSpace(id)
		if id != "" && !seen[id] {
			clean = append(clean, id)
			seen[id] = true
		}
	}
	if len(clean) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(map[string][]string{"uuids": clean})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("users request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("users lookup: status %d", resp.StatusCode)
	}

	var records []domain.UserRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode users response: %w", err)
	}
	return records, nil
}
