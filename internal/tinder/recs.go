package tinder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spigell/profile-optimizer/internal/dating"
)

const recsPath = "/recs/core"

// DatesResult is the outcome of a recommendation run.
type DatesResult struct {
	Candidates []dating.Candidate
	// Requests is the number of successful recommendation requests.
	Requests int
	// TimedOut is set when the API signalled a timeout. Candidates then hold
	// everything collected before the signal.
	TimedOut bool
}

type recsData struct {
	Results []dating.Candidate `json:"results"`
	Timeout json.RawMessage    `json:"timeout"`
}

// GetDates collects recommendations over several requests, waiting Interval
// between two requests. A non-success status aborts the run and discards
// collected candidates. A timeout signal stops the run early and keeps them.
func (c *Client) GetDates(ctx context.Context) (*DatesResult, error) {
	limit := rate.Inf
	if c.Interval > 0 {
		limit = rate.Every(c.Interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	q := url.Values{}
	q.Set("locale", locale)

	result := &DatesResult{}
	for i := 0; i < c.Iterations; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for next recommendations request: %w", err)
		}

		var data recsData
		if err := c.getData(ctx, recsPath, q, &data); err != nil {
			return nil, fmt.Errorf("getting recommendations: %w", err)
		}

		if len(data.Timeout) > 0 {
			c.logger.Error("recommendations request timed out",
				zap.ByteString("timeout", data.Timeout),
				zap.Int("iteration", i),
				zap.Int("collected", len(result.Candidates)),
			)
			result.TimedOut = true
			break
		}

		result.Requests++
		result.Candidates = append(result.Candidates, data.Results...)

		c.logger.Info("recommendations iteration complete",
			zap.Int("iteration", i),
			zap.Int("received", len(data.Results)),
			zap.Int("collected", len(result.Candidates)),
		)
	}

	return result, nil
}
