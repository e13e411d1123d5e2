// Package retry implements the constant-interval retry driver used for
// notifier sends: a fixed number of attempts at a fixed interval, with no
// wait inserted after the final failed attempt.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Spec describes one component's retry configuration: how many times to
// attempt an operation and how long to wait between attempts.
type Spec struct {
	Times    int
	Interval time.Duration
}

// Option configures a Driver.
type Option func(*Driver)

// Driver runs an attempt function under a constant-interval retry policy,
// logging each failed attempt and the final exhaustion.
type Driver struct {
	logger *slog.Logger
}

// New creates a retry Driver with the given options.
func New(opts ...Option) *Driver {
	d := &Driver{logger: slog.New(slog.NewTextHandler(discard{}, nil))}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithLogger overrides the Driver's logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// discard is an io.Writer that drops everything written to it, used as
// the default retry logger sink so New() never requires a logger.
type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Do runs attempt up to spec.Times times, waiting spec.Interval between
// attempts but never after the last one. kind/name/tag identify the
// calling component in log output (e.g. "log", "applog", "Notification").
// It returns nil on success; otherwise the final attempt's error wrapped
// in a summary naming kind/name/tag and the number of attempts made.
func (d *Driver) Do(ctx context.Context, kind, name, tag string, spec Spec, attempt func(ctx context.Context) error) error {
	if spec.Times <= 0 {
		spec.Times = 1
	}

	policy := backoff.WithContext(
		&constantNoTailWait{interval: spec.Interval, maxTries: uint64(spec.Times)},
		ctx,
	)

	tries := 0
	var lastErr error
	op := func() error {
		tries++
		err := attempt(ctx)
		if err != nil {
			lastErr = err
			d.logger.Warn("attempt failed",
				"kind", kind, "name", name, "tag", tag,
				"attempt", tries, "of", spec.Times, "error", err)
		}
		return err
	}

	err := backoff.Retry(op, policy)
	if err != nil {
		d.logger.Warn("retries exhausted",
			"kind", kind, "name", name, "tag", tag, "attempts", tries)
		if lastErr != nil {
			err = lastErr
		}
		return fmt.Errorf("%s/%s/%s: all %d attempts failed: %w", kind, name, tag, tries, err)
	}
	return nil
}

// constantNoTailWait is a backoff.BackOff that waits a fixed interval
// between attempts, up to maxTries total, and signals backoff.Stop on the
// final attempt so the driver never sleeps after its last try.
type constantNoTailWait struct {
	interval time.Duration
	maxTries uint64
	tries    uint64
}

func (c *constantNoTailWait) Reset() { c.tries = 0 }

func (c *constantNoTailWait) NextBackOff() time.Duration {
	c.tries++
	if c.tries >= c.maxTries {
		return backoff.Stop
	}
	return c.interval
}

var _ backoff.BackOff = (*constantNoTailWait)(nil)
