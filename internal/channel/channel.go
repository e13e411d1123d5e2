// Package channel implements the named routing point binding probers to
// notifiers: the ingress queue, the evaluation loop, and the
// notification-decision procedure that gates each status transition.
package channel

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/rathix/command-center/internal/notifier"
	"github.com/rathix/command-center/internal/prober"
	"github.com/rathix/command-center/internal/proberesult"
	"github.com/rathix/command-center/internal/retry"
	"github.com/rathix/command-center/internal/status"
)

// ingressCapacity is the bounded ingress queue size; overflow drops the
// result with an ERROR log rather than blocking the sending prober.
const ingressCapacity = 100

// notifierBinding pairs a registered notifier with its own normalized
// retry spec, since each notifier kind may configure a different
// times/interval pair at config() time.
type notifierBinding struct {
	notifier.Notifier
	retry retry.Spec
	dry   bool
}

// Channel aggregates N probers' results and fans notification decisions
// out to M notifiers.
type Channel struct {
	name string

	mu        sync.RWMutex
	probers   map[string]prober.Prober
	notifiers map[string]notifierBinding

	queue    chan proberesult.Result
	stopOnce sync.Once
	stopCh   chan struct{}

	retryDriver *retry.Driver
	dryNotify   func() bool
	logger      *slog.Logger
}

// Option configures a Channel.
type Option func(*Channel)

// WithLogger overrides the channel's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Channel) { c.logger = l }
}

// WithDryNotify wires the channel to the process-wide dry-notify flag.
// When unset, the channel always performs real sends.
func WithDryNotify(fn func() bool) Option {
	return func(c *Channel) { c.dryNotify = fn }
}

// WithRetryDriver overrides the retry driver used for notifier sends.
func WithRetryDriver(d *retry.Driver) Option {
	return func(c *Channel) { c.retryDriver = d }
}

// New constructs a Channel with an empty prober map, empty notifier map,
// a bounded ingress queue, and an un-signaled stop signal.
func New(name string, opts ...Option) *Channel {
	c := &Channel{
		name:      name,
		probers:   make(map[string]prober.Prober),
		notifiers: make(map[string]notifierBinding),
		queue:     make(chan proberesult.Result, ingressCapacity),
		stopCh:    make(chan struct{}),
		dryNotify: func() bool { return false },
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retryDriver == nil {
		c.retryDriver = retry.New(retry.WithLogger(c.logger))
	}
	return c
}

func (c *Channel) Name() string { return c.name }

// AddProber registers p, keyed by its name. A duplicate name is a no-op
// logged as a warning.
func (c *Channel) AddProber(p prober.Prober) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.probers[p.Name()]; exists {
		c.logger.Warn("duplicate prober name ignored", "channel", c.name, "prober", p.Name())
		return
	}
	c.probers[p.Name()] = p
}

// AddProbers registers each of ps via AddProber.
func (c *Channel) AddProbers(ps []prober.Prober) {
	for _, p := range ps {
		c.AddProber(p)
	}
}

// AddNotifier registers n, keyed by its name, with the retry spec to use
// for its sends and whether this particular notifier is configured for
// dry-run regardless of the process-wide dry-notify flag. A duplicate
// name is a no-op logged as a warning.
func (c *Channel) AddNotifier(n notifier.Notifier, spec retry.Spec, dry bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.notifiers[n.Name()]; exists {
		c.logger.Warn("duplicate notifier name ignored", "channel", c.name, "notifier", n.Name())
		return
	}
	c.notifiers[n.Name()] = notifierBinding{Notifier: n, retry: spec, dry: dry}
}

// GetProber looks up a registered prober by name.
func (c *Channel) GetProber(name string) (prober.Prober, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.probers[name]
	return p, ok
}

// Notifiers returns a snapshot slice of every notifier currently
// registered on this channel.
func (c *Channel) Notifiers() []notifier.Notifier {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]notifier.Notifier, 0, len(c.notifiers))
	for _, b := range c.notifiers {
		out = append(out, b.Notifier)
	}
	return out
}

// GetNotifier looks up a registered notifier by name.
func (c *Channel) GetNotifier(name string) (notifier.Notifier, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.notifiers[name]
	if !ok {
		return nil, false
	}
	return b.Notifier, true
}

// Send publishes result onto the ingress queue without blocking. If the
// queue is full (or the channel has stopped), the result is dropped and
// an ERROR is logged identifying the channel.
func (c *Channel) Send(result proberesult.Result) {
	select {
	case <-c.stopCh:
		c.logger.Error("channel stopped, dropping result", "channel", c.name, "prober", result.Name)
		return
	default:
	}
	select {
	case c.queue <- result:
	default:
		c.logger.Error("channel ingress queue full, dropping result", "channel", c.name, "prober", result.Name)
	}
}

// Stop raises the channel's stop signal; safe to call more than once.
func (c *Channel) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// WatchEvent runs the evaluation loop until Stop is called or ctx is
// cancelled. It is safe to launch exactly once per Channel.
func (c *Channel) WatchEvent(ctx context.Context) {
	for {
		select {
		case <-c.stopCh:
			c.logger.Info("channel exiting", "channel", c.name)
			return
		case <-ctx.Done():
			c.logger.Info("channel exiting", "channel", c.name)
			return
		case result := <-c.queue:
			c.evaluate(ctx, result)
		}
	}
}

// evaluate runs the notification-decision procedure for one ProbeResult
// and, if warranted, dispatches it concurrently to every registered
// notifier.
func (c *Channel) evaluate(ctx context.Context, r proberesult.Result) {
	if r.PreStatus == status.Init && r.Status == status.Up {
		c.logger.Debug("first success, no notification", "channel", c.name, "prober", r.Name)
		return
	}
	if r.PreStatus == r.Status && (r.Status == status.Up || r.Status == status.Init) {
		c.logger.Debug("steady state, no notification", "channel", c.name, "prober", r.Name)
		return
	}

	if r.Status == status.Up && r.Stat != nil && r.Stat.StrategyData != nil {
		r.Stat.StrategyData.Reset()
	}

	if r.Status == status.Down && r.Stat != nil && r.Stat.StrategyData != nil {
		if !r.Stat.StrategyData.NeedToSendNotification() {
			c.logger.Debug("notification strategy gated this observation", "channel", c.name, "prober", r.Name)
			return
		}
	}

	if r.PreStatus != r.Status {
		c.logger.Info("status changed", "channel", c.name, "prober", r.Name, "from", r.PreStatus, "to", r.Status)
	} else {
		c.logger.Debug("meet the notification condition", "channel", c.name, "prober", r.Name)
	}

	c.dispatch(ctx, r)
}

// dispatch snapshots the registered notifiers and fans the result out to
// each one concurrently and unordered; it does not wait for completion.
func (c *Channel) dispatch(ctx context.Context, r proberesult.Result) {
	c.mu.RLock()
	bindings := make([]notifierBinding, 0, len(c.notifiers))
	for _, b := range c.notifiers {
		bindings = append(bindings, b)
	}
	c.mu.RUnlock()

	globalDry := c.dryNotify()
	for _, b := range bindings {
		b := b
		if globalDry || b.dry {
			c.logger.Info("dry_notify", "kind", b.Kind(), "name", b.Name(), "title", r.Title(), "message", r.Message)
			continue
		}
		go c.send(ctx, b, r)
	}
}

func (c *Channel) send(ctx context.Context, b notifierBinding, r proberesult.Result) {
	err := c.retryDriver.Do(ctx, b.Kind(), b.Name(), "Notification", b.retry, func(ctx context.Context) error {
		return b.Notify(ctx, r)
	})
	if err != nil {
		c.logger.Error("notification send failed", "kind", b.Kind(), "name", b.Name(), "prober", r.Name, "error", err)
		return
	}
	c.logger.Info("notification sent", "kind", b.Kind(), "name", b.Name(), "prober", r.Name)
}
