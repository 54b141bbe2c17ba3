package connection

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

var errFlaky = errors.New("flaky")

func TestExponentialBackoff(t *testing.T) {
	Convey("Given an exponential backoff", t, func() {
		eb := &ExponentialBackoff{Initial: 10 * time.Millisecond, Max: 50 * time.Millisecond}

		Convey("It should double the delay per attempt", func() {
			So(eb.NextDelay(1), ShouldEqual, 10*time.Millisecond)
			So(eb.NextDelay(2), ShouldEqual, 20*time.Millisecond)
			So(eb.NextDelay(3), ShouldEqual, 40*time.Millisecond)
		})

		Convey("It should cap the delay at Max", func() {
			So(eb.NextDelay(4), ShouldEqual, 50*time.Millisecond)
			So(eb.NextDelay(10), ShouldEqual, 50*time.Millisecond)
		})

		Convey("Huge attempt counts should stay at the cap", func() {
			So(eb.NextDelay(64), ShouldEqual, 50*time.Millisecond)
			So(eb.NextDelay(1000), ShouldEqual, 50*time.Millisecond)
		})

		Convey("Without a cap the delay should saturate instead of wrapping", func() {
			uncapped := &ExponentialBackoff{Initial: time.Second}
			So(uncapped.NextDelay(20), ShouldEqual, time.Second<<19)
			So(uncapped.NextDelay(1000), ShouldBeGreaterThan, uncapped.NextDelay(20))
			So(uncapped.NextDelay(1000), ShouldEqual, time.Duration(math.MaxInt64))
		})
	})
}

func TestRetryPolicyDo(t *testing.T) {
	Convey("Given a retry policy with three attempts", t, func() {
		policy := &RetryPolicy{
			MaxAttempts: 3,
			Strategy:    &ExponentialBackoff{Initial: time.Millisecond},
		}

		Convey("It should stop at the first success", func() {
			calls := 0
			err := policy.Do(context.Background(), func(attempt int) error {
				calls++
				if attempt < 2 {
					return errFlaky
				}
				return nil
			})

			So(err, ShouldBeNil)
			So(calls, ShouldEqual, 2)
		})

		Convey("It should return the last error when attempts run out", func() {
			calls := 0
			err := policy.Do(context.Background(), func(int) error {
				calls++
				return errFlaky
			})

			So(errors.Is(err, errFlaky), ShouldBeTrue)
			So(calls, ShouldEqual, 3)
		})

		Convey("It should not retry errors the filter rejects", func() {
			policy.Filter = func(err error) bool { return !errors.Is(err, errFlaky) }

			calls := 0
			err := policy.Do(context.Background(), func(int) error {
				calls++
				return errFlaky
			})

			So(errors.Is(err, errFlaky), ShouldBeTrue)
			So(calls, ShouldEqual, 1)
		})

		Convey("It should stop waiting when the context is done", func() {
			policy.Strategy = &ExponentialBackoff{Initial: time.Hour}

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()

			err := policy.Do(ctx, func(int) error { return errFlaky })
			So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
		})
	})
}
