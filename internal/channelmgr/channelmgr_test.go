package channelmgr

import (
	"context"
	"testing"
	"time"

	"github.com/rathix/command-center/internal/proberesult"
	"github.com/rathix/command-center/internal/retry"
)

type stubProber struct {
	name     string
	channels []string
}

func (s stubProber) Name() string                             { return s.name }
func (s stubProber) Channels() []string                       { return s.channels }
func (s stubProber) Probe(ctx context.Context) (bool, string) { return true, "" }
func (s stubProber) Result() proberesult.Result               { return proberesult.Result{} }

type stubNotifier struct{ name string }

func (s stubNotifier) Kind() string { return "stub" }
func (s stubNotifier) Name() string { return s.name }
func (s stubNotifier) Notify(ctx context.Context, r proberesult.Result) error { return nil }

func TestManager_SetChannelIsIdempotent(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c1 := m.SetChannel(ctx, "A")
	c2 := m.SetChannel(ctx, "A")
	if c1 != c2 {
		t.Fatal("expected SetChannel to return the same instance on repeated calls")
	}
}

func TestManager_SetProberUsesDefaultChannelWhenUnset(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.SetProber(ctx, stubProber{name: "p1"})
	c, ok := m.GetChannel(DefaultChannel)
	if !ok {
		t.Fatal("expected the default channel to be created")
	}
	if _, ok := c.GetProber("p1"); !ok {
		t.Fatal("expected p1 to be registered on the default channel")
	}
}

func TestManager_GetNotifiersDedupesAcrossChannels(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := stubNotifier{name: "n1"}
	m.SetNotifier(ctx, NotifierBinding{Notifier: n, Channels: []string{"X", "Y"}, Retry: retry.Spec{Times: 1, Interval: time.Millisecond}})

	got := m.GetNotifiers([]string{"X", "Y"})
	if len(got) != 1 {
		t.Fatalf("expected exactly one distinct notifier, got %d", len(got))
	}
}

func TestManager_AllDoneStopsEveryChannel(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.SetChannel(ctx, "A")
	m.SetChannel(ctx, "B")

	done := make(chan struct{})
	go func() {
		m.AllDone()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("AllDone did not return after stopping all channels")
	}
}
