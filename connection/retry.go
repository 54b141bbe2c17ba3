package connection

import (
	"context"
	"math"
	"time"

	"github.com/theapemachine/errnie"
)

// RetryPolicy defines retry behavior
type RetryPolicy struct {
	MaxAttempts int
	Strategy    RetryStrategy
	// Filter reports whether an error is worth another attempt. Nil retries everything.
	Filter func(error) bool
}

// RetryStrategy defines the interface for retry behavior
type RetryStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff doubles the delay after every attempt, capped at Max when Max is set.
type ExponentialBackoff struct {
	Initial time.Duration
	Max     time.Duration
}

func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	limit := time.Duration(math.MaxInt64)
	if eb.Max > 0 {
		limit = eb.Max
	}

	// compare before shifting so the doubling can never overflow
	shift := min(max(attempt-1, 0), 62)
	if eb.Initial > limit>>shift {
		return limit
	}
	return eb.Initial << shift
}

/*
Do calls fn until it succeeds, the filter rejects its error, the attempts run
out or ctx is done. Attempts are numbered from 1. The last error is returned.
*/
func (p *RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := max(p.MaxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(attempt); err == nil {
			return nil
		}

		if attempt == attempts || (p.Filter != nil && !p.Filter(err)) {
			return err
		}

		delay := time.Duration(0)
		if p.Strategy != nil {
			delay = p.Strategy.NextDelay(attempt)
		}

		errnie.Info("RetryPolicy - attempt %d/%d failed: %v, retrying in %v", attempt, attempts, err, delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return err
}
