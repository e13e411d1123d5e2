// Package prober defines the Prober interface, the Base helper that
// every kind embeds for its status-transition bookkeeping, and the HTTP
// reference implementation.
package prober

import (
	"context"
	"time"

	"github.com/rathix/command-center/internal/proberesult"
	"github.com/rathix/command-center/internal/status"
)

// Prober is one monitored target. Probe performs a single check,
// updates the prober's own status-transition state, and returns the
// cycle's raw success/message pair. Implementations must be safe to
// call repeatedly from a single driver goroutine; no internal
// concurrency is required or expected.
type Prober interface {
	Name() string
	Channels() []string
	Probe(ctx context.Context) (success bool, message string)
	Result() proberesult.Result
}

// AttemptFunc performs one raw probe attempt, independent of status
// bookkeeping.
type AttemptFunc func(ctx context.Context) (success bool, message string)

// Base implements the status-transition bookkeeping shared by every
// Prober kind: the sliding status counter, the threshold-driven
// Up/Down/Init flip, and the Result snapshot a Channel dispatches. A
// concrete kind embeds Base and supplies only its AttemptFunc.
//
// State transition rule: the probe flips from Up to Down when the
// counter's current run is a failure run at least threshold.Failure
// long; it flips from Down to Up when the current run is a success run
// at least threshold.Success long. Before the first flip, status stays
// Init; otherwise it retains its prior value.
type Base struct {
	name      string
	kind      string
	tag       string
	channels  []string
	threshold status.Threshold
	result    proberesult.Result
}

// NewBase constructs the shared bookkeeping for one prober instance. kind
// and tag identify the prober's concrete implementation for the
// "<status.title> (<kind>[/<tag>]): <raw_message>" message format every
// kind shares; tag may be empty.
func NewBase(name, kind, tag string, channels []string, threshold status.Threshold, counterLen int, strategy *status.StrategyData) *Base {
	return &Base{
		name:      name,
		kind:      kind,
		tag:       tag,
		channels:  channels,
		threshold: threshold,
		result: proberesult.Result{
			Name: name,
			Stat: proberesult.NewStat(counterLen, strategy),
		},
	}
}

func (b *Base) Name() string       { return b.name }
func (b *Base) Channels() []string { return b.channels }

// Result returns a snapshot of the prober's current result, safe to hand
// to a Channel.
func (b *Base) Result() proberesult.Result { return b.result.Clone() }

// Cycle runs one probe attempt through attempt, folds the outcome into
// the status counter and statistics, computes the resulting status
// transition, and returns the cycle's (success, message) pair.
func (b *Base) Cycle(ctx context.Context, endpoint string, attempt AttemptFunc) (bool, string) {
	start := time.Now()
	success, message := attempt(ctx)

	b.result.Endpoint = endpoint
	b.result.Stat.Counter.Append(success, message)
	b.result.Stat.Record(success, start)

	prev := b.result.Status
	next := nextStatus(prev, b.result.Stat.Counter, b.threshold)

	if prev == status.Down && next == status.Up {
		b.result.RecoveryTime = time.Since(b.result.LatestDowntime)
	}
	if next == status.Down {
		b.result.LatestDowntime = start
		b.result.RecoveryTime = 0
	}

	b.result.PreStatus = prev
	b.result.Status = next
	b.result.Message = b.formatMessage(success, message)
	b.result.StartTime = start
	b.result.StartTimestampMs = start.UnixMilli()
	b.result.RoundTripTime = time.Since(start)

	return success, message
}

// formatMessage renders "<status.title> (<kind>[/<tag>]): <raw_message>",
// where status.title reflects this single observation (Up on success,
// Down on failure), independent of the coarse-grained status transition.
func (b *Base) formatMessage(success bool, raw string) string {
	observed := status.Down
	if success {
		observed = status.Up
	}
	kindTag := b.kind
	if b.tag != "" {
		kindTag += "/" + b.tag
	}
	return observed.Title() + " (" + kindTag + "): " + raw
}

// nextStatus applies the threshold-driven flip rule against the
// counter's current run.
func nextStatus(prev status.Status, c *status.Counter, th status.Threshold) status.Status {
	if !c.Current && c.Count >= th.Failure {
		return status.Down
	}
	if c.Current && c.Count >= th.Success {
		return status.Up
	}
	return prev
}
