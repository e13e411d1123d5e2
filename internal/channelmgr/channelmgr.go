// Package channelmgr implements the process-wide Channel Directory: the
// single registry every prober and notifier is wired through, plus the
// dry-notify flag shared across all channels.
package channelmgr

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/rathix/command-center/internal/channel"
	"github.com/rathix/command-center/internal/notifier"
	"github.com/rathix/command-center/internal/prober"
	"github.com/rathix/command-center/internal/retry"
)

// DefaultChannel is the channel an entity is bound to when it declares no
// explicit channels: SetProber and SetNotifier register it there, and the
// scheduler sends its results there.
const DefaultChannel = "__EaseProbe_Channel__"

// Manager is the Channel Directory: name -> Channel, plus the
// process-wide dry-notify flag. It is safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	channels map[string]*channel.Channel

	dryNotify atomic.Bool
	logger    *slog.Logger
	retry     *retry.Driver

	wg sync.WaitGroup
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger overrides the manager's (and every channel it creates)
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithRetryDriver overrides the retry driver handed to every channel
// this manager creates.
func WithRetryDriver(d *retry.Driver) Option {
	return func(m *Manager) { m.retry = d }
}

// New constructs an empty Channel Directory.
func New(opts ...Option) *Manager {
	m := &Manager{
		channels: make(map[string]*channel.Channel),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.retry == nil {
		m.retry = retry.New(retry.WithLogger(m.logger))
	}
	return m
}

// SetDryNotify sets the process-wide dry-notify flag.
func (m *Manager) SetDryNotify(v bool) { m.dryNotify.Store(v) }

// IsDryNotify reports the current dry-notify flag.
func (m *Manager) IsDryNotify() bool { return m.dryNotify.Load() }

// GetChannel looks up a channel by name.
func (m *Manager) GetChannel(name string) (*channel.Channel, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.channels[name]
	return c, ok
}

// SetChannel idempotently creates the named channel if absent and
// launches its evaluation loop, bound to ctx's lifetime.
func (m *Manager) SetChannel(ctx context.Context, name string) *channel.Channel {
	m.mu.Lock()
	if c, ok := m.channels[name]; ok {
		m.mu.Unlock()
		return c
	}
	c := channel.New(name,
		channel.WithLogger(m.logger),
		channel.WithDryNotify(m.IsDryNotify),
		channel.WithRetryDriver(m.retry),
	)
	m.channels[name] = c
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		c.WatchEvent(ctx)
	}()
	return c
}

// SetProber ensures every channel p declares exists, then registers p on
// each of them.
func (m *Manager) SetProber(ctx context.Context, p prober.Prober) {
	names := p.Channels()
	if len(names) == 0 {
		names = []string{DefaultChannel}
	}
	for _, name := range names {
		c := m.SetChannel(ctx, name)
		c.AddProber(p)
	}
}

// SetProbers registers each of ps via SetProber.
func (m *Manager) SetProbers(ctx context.Context, ps []prober.Prober) {
	for _, p := range ps {
		m.SetProber(ctx, p)
	}
}

// NotifierBinding pairs a notifier with the channel names it is bound to,
// its normalized retry spec, and whether this entity is individually
// configured for dry-run regardless of the process-wide flag.
type NotifierBinding struct {
	Notifier notifier.Notifier
	Channels []string
	Retry    retry.Spec
	Dry      bool
}

// SetNotifier ensures every channel b.Channels declares exists, then
// registers the notifier on each of them.
func (m *Manager) SetNotifier(ctx context.Context, b NotifierBinding) {
	names := b.Channels
	if len(names) == 0 {
		names = []string{DefaultChannel}
	}
	for _, name := range names {
		c := m.SetChannel(ctx, name)
		c.AddNotifier(b.Notifier, b.Retry, b.Dry)
	}
}

// SetNotifiers registers each binding via SetNotifier.
func (m *Manager) SetNotifiers(ctx context.Context, bs []NotifierBinding) {
	for _, b := range bs {
		m.SetNotifier(ctx, b)
	}
}

// GetNotifiers returns the union of notifiers bound to any of the listed
// channel names, deduplicated by notifier name (first-seen wins).
func (m *Manager) GetNotifiers(channelNames []string) map[string]notifier.Notifier {
	result := make(map[string]notifier.Notifier)
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, name := range channelNames {
		c, ok := m.channels[name]
		if !ok {
			continue
		}
		for _, n := range c.Notifiers() {
			if _, seen := result[n.Name()]; !seen {
				result[n.Name()] = n
			}
		}
	}
	return result
}

// GetAllChannels returns a snapshot copy of the channel directory.
func (m *Manager) GetAllChannels() map[string]*channel.Channel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*channel.Channel, len(m.channels))
	for name, c := range m.channels {
		out[name] = c
	}
	return out
}

// AllDone stops every channel and waits for their evaluation loops to
// return.
func (m *Manager) AllDone() {
	m.mu.RLock()
	channels := make([]*channel.Channel, 0, len(m.channels))
	for _, c := range m.channels {
		channels = append(channels, c)
	}
	m.mu.RUnlock()

	for _, c := range channels {
		c.Stop()
	}
	m.wg.Wait()
}
