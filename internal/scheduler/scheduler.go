// Package scheduler drives each registered prober on its own interval,
// one goroutine per prober, fanning each cycle's result out through the
// Channel Manager.
package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rathix/command-center/internal/channelmgr"
	"github.com/rathix/command-center/internal/prober"
)

// Driven is a prober plus the fixed interval its driver goroutine sleeps
// between probes.
type Driven struct {
	Prober   prober.Prober
	Interval time.Duration
}

// Scheduler drives a fixed set of probers, one goroutine each.
type Scheduler struct {
	logger *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger overrides the scheduler's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New constructs a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run spawns one independent driver goroutine per entry in probers and
// blocks until every driver has observed ctx's cancellation. Each
// driver: calls Probe (which owns the prober's own exclusive state and
// folds the outcome into it), snapshots the result and its channel
// names, fans the result out via mgr, then sleeps the configured
// interval — never holding any lock across the sleep.
func (s *Scheduler) Run(ctx context.Context, mgr *channelmgr.Manager, probers []Driven) {
	var wg sync.WaitGroup
	for _, d := range probers {
		wg.Add(1)
		go func(d Driven) {
			defer wg.Done()
			s.drive(ctx, mgr, d)
		}(d)
	}
	wg.Wait()
}

func (s *Scheduler) drive(ctx context.Context, mgr *channelmgr.Manager, d Driven) {
	interval := d.Interval
	if interval <= 0 {
		interval = time.Second
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		d.Prober.Probe(ctx)
		result := d.Prober.Result()
		names := d.Prober.Channels()
		if len(names) == 0 {
			names = []string{channelmgr.DefaultChannel}
		}
		for _, name := range names {
			c, ok := mgr.GetChannel(name)
			if !ok {
				s.logger.Warn("prober references unknown channel", "prober", d.Prober.Name(), "channel", name)
				continue
			}
			c.Send(result.Clone())
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}
