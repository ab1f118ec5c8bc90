// Package upstream fetches model explainability data from the scoring service.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ShapClient pulls the global SHAP feature-importance summary exposed by the
// scoring service. The summary maps raw feature names to mean absolute SHAP
// values; callers pass it to the aggregation store unmodified.
type ShapClient struct {
	baseURL string
	client  *http.Client
}

// NewShapClient returns a client for the scoring service at baseURL.
func NewShapClient(baseURL string) *ShapClient {
	return &ShapClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchSummary retrieves the feature-importance map, retrying transient
// failures with exponential backoff until ctx is done.
func (c *ShapClient) FetchSummary(ctx context.Context) (map[string]float64, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("shap: base URL not configured")
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second

	var summary map[string]float64
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/shap-summary", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			return fmt.Errorf("shap: server error %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("shap: unexpected status %d", resp.StatusCode))
		}
		if err := json.Unmarshal(body, &summary); err != nil {
			return backoff.Permanent(fmt.Errorf("shap: decode summary: %w", err))
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return summary, nil
}
