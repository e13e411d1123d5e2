package prober

import (
	"context"
	"testing"

	"github.com/rathix/command-center/internal/status"
)

func TestBase_FlipsDownAfterFailureThreshold(t *testing.T) {
	b := NewBase("p1", "test", "", []string{"A"}, status.Threshold{Failure: 2, Success: 1}, 5, status.NewStrategyData(status.Regular, 1, 1))

	ok, _ := b.Cycle(context.Background(), "e", func(ctx context.Context) (bool, string) { return false, "fail" })
	if ok {
		t.Fatal("attempt should report failure")
	}
	if b.Result().Status != status.Init {
		t.Fatalf("expected status to remain Init before threshold is met, got %v", b.Result().Status)
	}

	b.Cycle(context.Background(), "e", func(ctx context.Context) (bool, string) { return false, "fail" })
	if b.Result().Status != status.Down {
		t.Fatalf("expected Down after 2 consecutive failures, got %v", b.Result().Status)
	}
}

func TestBase_RecoveryTimeSetOnUpFlip(t *testing.T) {
	b := NewBase("p1", "test", "", nil, status.Threshold{Failure: 1, Success: 1}, 5, status.NewStrategyData(status.Regular, 1, 1))

	b.Cycle(context.Background(), "e", func(ctx context.Context) (bool, string) { return false, "down" })
	if b.Result().Status != status.Down {
		t.Fatalf("expected Down, got %v", b.Result().Status)
	}

	b.Cycle(context.Background(), "e", func(ctx context.Context) (bool, string) { return true, "up" })
	r := b.Result()
	if r.Status != status.Up {
		t.Fatalf("expected Up, got %v", r.Status)
	}
	if r.PreStatus != status.Down {
		t.Fatalf("expected PreStatus Down, got %v", r.PreStatus)
	}
	if r.RecoveryTime <= 0 {
		t.Error("expected a positive recovery time after a down-to-up flip")
	}
}

func TestBase_FirstSuccessKeepsPreStatusInit(t *testing.T) {
	b := NewBase("p1", "test", "", nil, status.Threshold{Failure: 1, Success: 1}, 5, status.NewStrategyData(status.Regular, 1, 1))
	b.Cycle(context.Background(), "e", func(ctx context.Context) (bool, string) { return true, "ok" })
	r := b.Result()
	if r.PreStatus != status.Init || r.Status != status.Up {
		t.Fatalf("expected Init -> Up, got %v -> %v", r.PreStatus, r.Status)
	}
}
