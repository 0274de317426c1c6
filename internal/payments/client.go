package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/internxt/meet-server/internal/domain"
)

// Client looks up subscription tiers on the payments service.
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

type tierResponse struct {
	FeaturesPerService struct {
		Meet struct {
			Enabled    bool `json:"enabled"`
			PaxPerCall int  `json:"paxPerCall"`
		} `json:"meet"`
	} `json:"featuresPerService"`
}

func (c *Client) GetUserTier(ctx context.Context, userID string) (*domain.Tier, error) {
	url := fmt.Sprintf("%s/users/%s/tier", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payments request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payments tier lookup for %s: status %d", userID, resp.StatusCode)
	}

	var tr tierResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode tier response: %w", err)
	}

	return &domain.Tier{
		Enabled:    tr.FeaturesPerService.Meet.Enabled,
		PaxPerCall: tr.FeaturesPerService.Meet.PaxPerCall,
	}, nil
}
