// Package proberesult defines the value object carrying one probe
// evaluation's data, and the per-probe statistics that ride along with it.
package proberesult

import (
	"time"

	"github.com/rathix/command-center/internal/status"
)

// Stat bundles the running statistics for one prober: since when it has
// been tracked, total observation count, per-status counters, cumulative
// uptime/downtime, the notification-strategy state, and the sliding
// status counter driving status transitions.
type Stat struct {
	Since     time.Time
	Total     int64
	UpCount   int64
	DownCount int64
	Uptime    time.Duration
	Downtime  time.Duration

	StrategyData *status.StrategyData
	Counter      *status.Counter

	lastObserved time.Time
}

// NewStat creates a Stat with a fresh status counter bounded by
// counterLen, and the given notification strategy.
func NewStat(counterLen int, strategy *status.StrategyData) *Stat {
	return &Stat{
		Since:        time.Time{},
		StrategyData: strategy,
		Counter:      status.NewCounter(counterLen),
	}
}

// Clone returns a deep-enough copy of the Stat so that a ProbeResult can
// be handed off by value without the receiver mutating the sender's
// bookkeeping. StrategyData and Counter are intentionally shared: they
// are the prober's own long-lived state, not part of the snapshot.
func (s *Stat) Clone() *Stat {
	cp := *s
	return &cp
}

// Record folds one boolean observation into the running statistics
// (counters, uptime/downtime), following the same truth-table style the
// composite status fusion uses: a single source of truth for how one
// new data point updates cumulative state.
func (s *Stat) Record(success bool, at time.Time) {
	if s.Since.IsZero() {
		s.Since = at
	}
	s.Total++
	if success {
		s.UpCount++
	} else {
		s.DownCount++
	}
	if !s.lastObserved.IsZero() {
		elapsed := at.Sub(s.lastObserved)
		if elapsed > 0 {
			if success {
				s.Uptime += elapsed
			} else {
				s.Downtime += elapsed
			}
		}
	}
	s.lastObserved = at
}

// Result is the value object carrying one probe evaluation's data. It is
// cloneable by value: the Channel that receives it takes ownership of
// its own copy on send.
type Result struct {
	Name             string
	Endpoint         string
	StartTime        time.Time
	StartTimestampMs int64
	RoundTripTime    time.Duration
	Status           status.Status
	PreStatus        status.Status
	Message          string
	LatestDowntime   time.Time
	RecoveryTime     time.Duration
	Stat             *Stat
}

// Clone returns a value copy of the Result with an independent Stat
// snapshot, suitable for handing to a Channel's ingress queue.
func (r Result) Clone() Result {
	cp := r
	if r.Stat != nil {
		cp.Stat = r.Stat.Clone()
	}
	return cp
}

// Title renders the notifier-facing title for a status transition, e.g.
// "p1 Failure" or "p1 Recovery - 1m30s".
func (r Result) Title() string {
	switch r.Status {
	case status.Down:
		return r.Name + " Failure"
	case status.Up:
		if r.PreStatus == status.Down {
			return r.Name + " Recovery - " + r.RecoveryTime.String()
		}
		return r.Name + " Recovery"
	default:
		return r.Name + " " + r.Status.Title()
	}
}
