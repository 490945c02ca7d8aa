package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrLimiterClosed is returned to waiters when the limiter shuts down.
var ErrLimiterClosed = errors.New("rate limiter closed")

// RateLimiter is a token bucket shared by the remote adapters of one council
// run. Tokens live on a buffered channel: acquiring is a receive, refilling
// is a non-blocking send, and waiters park on the channel instead of polling.
type RateLimiter struct {
	tokens chan struct{}
	stopCh chan struct{}
}

// NewRateLimiter creates a rate limiter with the specified requests per
// minute. The bucket starts full.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	rl := &RateLimiter{
		tokens: make(chan struct{}, requestsPerMinute),
		stopCh: make(chan struct{}),
	}
	for i := 0; i < requestsPerMinute; i++ {
		rl.tokens <- struct{}{}
	}

	go rl.refill(time.Minute / time.Duration(requestsPerMinute))

	return rl
}

// wait blocks until a token is available, the limiter closes, or the context
// is canceled.
func (rl *RateLimiter) wait(ctx context.Context) error {
	select {
	case <-rl.tokens:
		return nil
	case <-rl.stopCh:
		return ErrLimiterClosed
	case <-ctx.Done():
		return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
	}
}

// refill returns one token per interval. A full bucket drops the token.
func (rl *RateLimiter) refill(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			select {
			case rl.tokens <- struct{}{}:
			default:
			}
		}
	}
}

// Close stops the refill goroutine and releases any parked waiters.
func (rl *RateLimiter) Close() {
	close(rl.stopCh)
}
