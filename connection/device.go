package connection

import (
	"context"
	"errors"
	"time"

	"github.com/theapemachine/errnie"
	"github.com/theapemachine/qestimate"
	"github.com/theapemachine/qestimate/quil"
)

var ErrCircuitOpen = errors.New("device circuit breaker is open")

var _ qestimate.Device = (*ResilientDevice)(nil)

/*
ResilientDevice wraps a device with the usual connection-layer safeguards:
runs are paced by a token bucket, a circuit breaker stops hammering a device
that keeps failing, and failed runs are retried with exponential backoff.
The estimator never retries on its own, so wrap the device here when the
backend is flaky.
*/
type ResilientDevice struct {
	inner   qestimate.Device
	retry   *RetryPolicy
	breaker *CircuitBreaker
	limiter *RateLimiter
	metrics *Metrics
}

// NewResilientDevice wraps inner; a nil config uses NewConfig.
func NewResilientDevice(inner qestimate.Device, config *Config) *ResilientDevice {
	if config == nil {
		config = NewConfig()
	}

	return &ResilientDevice{
		inner: inner,
		retry: &RetryPolicy{
			MaxAttempts: config.MaxAttempts,
			Strategy:    &ExponentialBackoff{Initial: config.InitialBackoff, Max: config.MaxBackoff},
			Filter:      retryable,
		},
		breaker: NewCircuitBreaker(config.MaxFailures, config.ResetTimeout, config.HalfOpenMax),
		limiter: NewRateLimiter(config.MaxTokens, config.RefillRate),
		metrics: NewMetrics(),
	}
}

func retryable(err error) bool {
	return !errors.Is(err, ErrCircuitOpen) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

func (d *ResilientDevice) RunAndMeasure(
	ctx context.Context, program *quil.Program, qubits []int, shots int,
) ([][]uint8, error) {
	var bits [][]uint8

	err := d.retry.Do(ctx, func(attempt int) error {
		if err := d.limiter.Wait(ctx); err != nil {
			return err
		}

		if !d.breaker.Allow() {
			d.metrics.recordRejected()
			return ErrCircuitOpen
		}

		start := time.Now()
		out, err := d.inner.RunAndMeasure(ctx, program, qubits, shots)
		d.metrics.recordRun(start, shots, err == nil)

		if err != nil {
			d.breaker.RecordFailure()
			return err
		}

		d.breaker.RecordSuccess()
		if attempt > 1 {
			errnie.Info("ResilientDevice - run succeeded on attempt %d", attempt)
		}
		bits = out
		return nil
	})

	return bits, err
}

func (d *ResilientDevice) Metrics() *Metrics {
	return d.metrics
}

func (d *ResilientDevice) CircuitState() CircuitState {
	return d.breaker.State()
}
