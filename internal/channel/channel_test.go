package channel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rathix/command-center/internal/proberesult"
	"github.com/rathix/command-center/internal/retry"
	"github.com/rathix/command-center/internal/status"
)

type fakeProber struct{ name string }

func (f fakeProber) Name() string                             { return f.name }
func (f fakeProber) Channels() []string                       { return nil }
func (f fakeProber) Probe(ctx context.Context) (bool, string) { return true, "" }
func (f fakeProber) Result() proberesult.Result                { return proberesult.Result{} }

type fakeNotifier struct {
	name  string
	mu    sync.Mutex
	calls []proberesult.Result
}

func (f *fakeNotifier) Kind() string { return "fake" }
func (f *fakeNotifier) Name() string { return f.name }
func (f *fakeNotifier) Notify(ctx context.Context, r proberesult.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r)
	return nil
}
func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestChannel(dryNotify func() bool) (*Channel, *fakeNotifier) {
	fn := &fakeNotifier{name: "n1"}
	opts := []Option{WithRetryDriver(retry.New())}
	if dryNotify != nil {
		opts = append(opts, WithDryNotify(dryNotify))
	}
	c := New("A", opts...)
	c.AddNotifier(fn, retry.Spec{Times: 1, Interval: time.Millisecond}, false)
	return c, fn
}

func runEvalSync(c *Channel, r proberesult.Result) {
	c.evaluate(context.Background(), r)
	// dispatch spawns goroutines for real sends; give them a tick.
	time.Sleep(20 * time.Millisecond)
}

func TestChannel_SilentFirstSuccess(t *testing.T) {
	c, fn := newTestChannel(nil)
	runEvalSync(c, proberesult.Result{Name: "p1", PreStatus: status.Init, Status: status.Up})
	if fn.count() != 0 {
		t.Fatalf("expected zero notifications, got %d", fn.count())
	}
}

func TestChannel_SteadyUpIsSilent(t *testing.T) {
	c, fn := newTestChannel(nil)
	runEvalSync(c, proberesult.Result{Name: "p1", PreStatus: status.Up, Status: status.Up})
	if fn.count() != 0 {
		t.Fatalf("expected zero notifications, got %d", fn.count())
	}
}

func TestChannel_InitToDownNotifies(t *testing.T) {
	c, fn := newTestChannel(nil)
	stat := proberesult.NewStat(5, status.NewStrategyData(status.Regular, 1, 1))
	r := proberesult.Result{Name: "p1", PreStatus: status.Init, Status: status.Down, Stat: stat}
	runEvalSync(c, r)
	if fn.count() != 1 {
		t.Fatalf("expected exactly one notification, got %d", fn.count())
	}
}

func TestChannel_RecoveryResetsStrategyAndNotifies(t *testing.T) {
	c, fn := newTestChannel(nil)
	stat := proberesult.NewStat(5, status.NewStrategyData(status.Regular, 1, 1))

	runEvalSync(c, proberesult.Result{Name: "p1", PreStatus: status.Init, Status: status.Down, Stat: stat})
	runEvalSync(c, proberesult.Result{Name: "p1", PreStatus: status.Down, Status: status.Up, Stat: stat, RecoveryTime: 90 * time.Second})

	if fn.count() != 2 {
		t.Fatalf("expected one failure + one recovery notification, got %d", fn.count())
	}
	if !stat.StrategyData.NeedToSendNotification() {
		t.Fatal("expected strategy to allow a fresh send after reset by recovery")
	}
}

func TestChannel_DuplicateProberRejected(t *testing.T) {
	c, _ := newTestChannel(nil)
	c.AddProber(fakeProber{name: "p1"})
	c.AddProber(fakeProber{name: "p1"})
	if _, ok := c.GetProber("p1"); !ok {
		t.Fatal("expected p1 to be registered")
	}
	c.mu.RLock()
	count := len(c.probers)
	c.mu.RUnlock()
	if count != 1 {
		t.Fatalf("expected exactly one prober registered, got %d", count)
	}
}

func TestChannel_DryNotifySkipsRealSend(t *testing.T) {
	c, fn := newTestChannel(func() bool { return true })
	stat := proberesult.NewStat(5, status.NewStrategyData(status.Regular, 1, 1))
	runEvalSync(c, proberesult.Result{Name: "p1", PreStatus: status.Init, Status: status.Down, Stat: stat})
	if fn.count() != 0 {
		t.Fatalf("expected zero real sends under dry_notify, got %d", fn.count())
	}
}

func TestChannel_PerNotifierDrySkipsRealSendEvenWhenGlobalDryIsOff(t *testing.T) {
	fn := &fakeNotifier{name: "n1"}
	c := New("A", WithRetryDriver(retry.New()))
	c.AddNotifier(fn, retry.Spec{Times: 1, Interval: time.Millisecond}, true)

	stat := proberesult.NewStat(5, status.NewStrategyData(status.Regular, 1, 1))
	runEvalSync(c, proberesult.Result{Name: "p1", PreStatus: status.Init, Status: status.Down, Stat: stat})
	if fn.count() != 0 {
		t.Fatalf("expected zero real sends for a dry-configured notifier, got %d", fn.count())
	}
}

func TestChannel_SendDropsOnFullQueue(t *testing.T) {
	c := New("B", WithRetryDriver(retry.New()))
	for i := 0; i < ingressCapacity; i++ {
		c.Send(proberesult.Result{Name: "p1"})
	}
	// One more send should be dropped silently (logged, not panicking).
	c.Send(proberesult.Result{Name: "p1"})
}
