// Package authorizer calls the external service that approves or declines
// transfer attempts.
package authorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// authorizeResponse is the authorizer wire contract: a success status and
// a boolean decision. Additional fields are opaque to us.
type authorizeResponse struct {
	Authorized bool `json:"authorized"`
}

// Client implements ports.Authorizer over HTTP. The call carries no
// request parameters; the decision applies to the current attempt only.
type Client struct {
	httpClient *http.Client
	url        string
	log        zerolog.Logger
}

// NewClient creates an authorizer client. The http.Client's timeout bounds
// how long a transfer waits on the authorizer.
func NewClient(httpClient *http.Client, url string, log zerolog.Logger) *Client {
	return &Client{httpClient: httpClient, url: url, log: log}
}

// Authorize asks the external service whether the transfer may proceed.
// A transport error, timeout or non-2xx status is returned as an error —
// distinct from a successful response that declines — and the engine must
// treat it as unavailable, never as approval.
func (c *Client) Authorize(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return false, fmt.Errorf("build authorize request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("call authorizer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("authorizer returned status %d", resp.StatusCode)
	}

	var body authorizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode authorizer response: %w", err)
	}

	c.log.Debug().Bool("authorized", body.Authorized).Msg("authorizer decision")
	return body.Authorized, nil
}
