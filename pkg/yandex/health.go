package yandex

import (
	"context"
	"fmt"
	"time"
)

// unhealthyThreshold is the number of consecutive failures after which the
// client reports itself unhealthy.
const unhealthyThreshold = 3

// Health is a snapshot of the client's health tracking.
type Health struct {
	IsHealthy             bool
	ConsecutiveFailures   int
	LastError             error
	LastCheck             time.Time
	LastSuccessfulRequest time.Time
	TotalRequests         int64
	FailedRequests        int64
}

// IsHealthy returns the current health status.
func (c *Client) IsHealthy() bool {
	c.healthMu.RLock()
	defer c.healthMu.RUnlock()
	return c.health.IsHealthy
}

// GetHealth returns detailed health information.
func (c *Client) GetHealth() Health {
	c.healthMu.RLock()
	defer c.healthMu.RUnlock()
	return c.health
}

// updateHealth records the result of one upstream call. Rejections that say
// nothing about upstream availability (404, 429, undecodable bodies) are
// passed as success.
func (c *Client) updateHealth(success bool, err error) {
	c.healthMu.Lock()

	c.health.LastCheck = time.Now()
	c.health.TotalRequests++
	wasHealthy := c.health.IsHealthy

	if success {
		c.health.IsHealthy = true
		c.health.ConsecutiveFailures = 0
		c.health.LastError = nil
		c.health.LastSuccessfulRequest = time.Now()
	} else {
		c.health.FailedRequests++
		c.health.ConsecutiveFailures++
		c.health.LastError = err
		if c.health.ConsecutiveFailures >= unhealthyThreshold {
			c.health.IsHealthy = false
		}
	}

	healthy := c.health.IsHealthy
	failures := c.health.ConsecutiveFailures
	c.healthMu.Unlock()

	if wasHealthy == healthy {
		return
	}
	c.metrics.UpdateUpstreamHealth(healthy)
	if healthy {
		c.logger.Info("upstream marked healthy")
	} else {
		c.logger.Warn("upstream marked unhealthy",
			"consecutive_failures", failures,
			"error", err,
		)
	}
}

// HealthCheck calls the account status endpoint and discards the body.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.AccountStatus(ctx)
	return err
}

// Ready is a readiness check. It fails when consecutive failures have
// marked the client unhealthy, and also probes the upstream when probe is
// set.
func (c *Client) Ready(probe bool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if probe {
			return c.HealthCheck(ctx)
		}
		if h := c.GetHealth(); !h.IsHealthy {
			return fmt.Errorf("%d consecutive upstream failures: %v", h.ConsecutiveFailures, h.LastError)
		}
		return nil
	}
}
