// Package client is a small HTTP client for the service, used by frontends
// and integration scripts that poll for pipeline results.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"forge-ai-be/internal/entity"
	"forge-ai-be/internal/pkg/serverutils"
)

// ErrPollExhausted means the expected artifact never appeared within the
// attempt budget. The session may still be processing.
var ErrPollExhausted = errors.New("client: polling attempts exhausted")

type Client struct {
	BaseURL    string
	ServiceKey string
	HTTPClient *http.Client

	// PollInterval and PollAttempts bound WaitForSynthesis.
	PollInterval time.Duration
	PollAttempts int
}

func New(baseURL, serviceKey string) *Client {
	return &Client{
		BaseURL:      baseURL,
		ServiceKey:   serviceKey,
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
		PollInterval: 2 * time.Second,
		PollAttempts: 15,
	}
}

// GetState fetches the current session document.
func (c *Client) GetState(ctx context.Context, forgeId string) (*entity.Session, error) {
	url := fmt.Sprintf("%s/api/state?forgeId=%s", c.BaseURL, neturl.QueryEscape(forgeId))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("client: state fetch returned %d: %s", resp.StatusCode, string(body))
	}

	var envelope serverutils.BaseResponse[entity.Session]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// WaitForSynthesis polls the state endpoint until a synthesis newer than
// afterSynthesisCount appears with a non-empty briefing set, or the attempt
// budget runs out.
func (c *Client) WaitForSynthesis(ctx context.Context, forgeId string, afterSynthesisCount int) (*entity.Synthesis, error) {
	for attempt := 0; attempt < c.PollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.PollInterval):
			}
		}

		state, err := c.GetState(ctx, forgeId)
		if err != nil {
			continue
		}

		if len(state.Syntheses) > afterSynthesisCount {
			latest := state.Syntheses[len(state.Syntheses)-1]
			if len(state.Todos[latest.Id]) > 0 {
				return &latest, nil
			}
		}
	}
	return nil, ErrPollExhausted
}
