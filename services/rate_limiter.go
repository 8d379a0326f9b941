package services

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiter caps requests per sliding one-minute window.
type RateLimiter struct {
	mu                sync.Mutex
	requestsPerMinute int
	lastRequests      []time.Time
}

// NewRateLimiter creates a rate limiter allowing rpm requests a minute.
func NewRateLimiter(rpm int) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: rpm,
		lastRequests:      make([]time.Time, 0),
	}
}

// Wait blocks until a request can be made within rate limits.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-time.Minute)

	// Drop requests that fell out of the window
	validRequests := make([]time.Time, 0, len(r.lastRequests))
	for _, t := range r.lastRequests {
		if t.After(windowStart) {
			validRequests = append(validRequests, t)
		}
	}
	r.lastRequests = validRequests

	if len(r.lastRequests) >= r.requestsPerMinute {
		oldestRequest := r.lastRequests[0]
		waitUntil := oldestRequest.Add(time.Minute)
		waitDuration := waitUntil.Sub(now)

		if waitDuration > 0 {
			slog.Info("Rate limit reached, waiting...",
				"waitSeconds", waitDuration.Seconds(),
				"rpm", r.requestsPerMinute,
			)

			select {
			case <-time.After(waitDuration):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	r.lastRequests = append(r.lastRequests, now)
	return nil
}

// Shared limiter for the Voyage embeddings API (free tier is 3 RPM).
var voyageRateLimiter = NewRateLimiter(3)
