package settings

import (
	"time"

	"github.com/rathix/command-center/internal/status"
)

// Hard defaults used when neither a local nor a global value is set.
// These mirror the reference implementation's DEFAULT_* constants.
const (
	DefaultProbeInterval    = 60 * time.Second
	DefaultProbeTimeout     = 30 * time.Second
	DefaultFailureThreshold = 1
	DefaultSuccessThreshold = 1
	DefaultStrategy         = status.Regular
	DefaultStrategyFactor   = status.DefaultFactor
	DefaultStrategyMaxTimes = status.DefaultMaxTimes

	DefaultNotifyTimeout       = 30 * time.Second
	DefaultNotifyRetryTimes    = 3
	DefaultNotifyRetryInterval = 5 * time.Second
	DefaultTimeFormat          = "2006-01-02 15:04:05 Z0700"
)

// ProbeSettings carries the global defaults every prober configuration is
// merged against at config() time. A zero-value ProbeSettings normalizes
// every local field down to the package's hard defaults.
type ProbeSettings struct {
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold int
	SuccessThreshold int
	Strategy         status.Strategy
	StrategyFactor   int
	StrategyMaxTimes int
}

// NormalizeInterval merges a prober's local interval against the global
// default, falling back to DefaultProbeInterval when neither is set.
func (g ProbeSettings) NormalizeInterval(local time.Duration) time.Duration {
	return Normalize(g.Interval, local, 0, DefaultProbeInterval)
}

// NormalizeTimeout merges a prober's local timeout.
func (g ProbeSettings) NormalizeTimeout(local time.Duration) time.Duration {
	return Normalize(g.Timeout, local, 0, DefaultProbeTimeout)
}

// NormalizeThreshold merges a prober's local status-change threshold
// component-wise; zero on either axis means "unset" for that axis.
func (g ProbeSettings) NormalizeThreshold(local status.Threshold) status.Threshold {
	return status.Threshold{
		Failure: Normalize(g.FailureThreshold, local.Failure, 0, DefaultFailureThreshold),
		Success: Normalize(g.SuccessThreshold, local.Success, 0, DefaultSuccessThreshold),
	}
}

// NormalizeStrategy merges a prober's local notification strategy.
// localSet reports whether the entity configured a strategy at all; when
// it is false the global strategy applies (Regular's zero value is itself
// a valid explicit choice, so no sentinel value can mark "unset" here).
func (g ProbeSettings) NormalizeStrategy(local status.Strategy, localSet bool) status.Strategy {
	if localSet {
		return local
	}
	return g.Strategy
}

// NormalizeStrategyFactor merges a prober's local strategy factor.
func (g ProbeSettings) NormalizeStrategyFactor(local int) int {
	return Normalize(g.StrategyFactor, local, 0, DefaultStrategyFactor)
}

// NormalizeStrategyMaxTimes merges a prober's local strategy max-times.
func (g ProbeSettings) NormalizeStrategyMaxTimes(local int) int {
	return Normalize(g.StrategyMaxTimes, local, 0, DefaultStrategyMaxTimes)
}

// NotifierSetting carries the global defaults every notifier configuration
// is merged against at config() time.
type NotifierSetting struct {
	TimeFormat    string
	Timeout       time.Duration
	RetryTimes    int
	RetryInterval time.Duration
}

// NormalizeTimeFormat merges a notifier's local time format string; the
// empty string is the sentinel for "unset".
func (g NotifierSetting) NormalizeTimeFormat(local string) string {
	return Normalize(g.TimeFormat, local, "", DefaultTimeFormat)
}

// NormalizeTimeout merges a notifier's local send timeout.
func (g NotifierSetting) NormalizeTimeout(local time.Duration) time.Duration {
	return Normalize(g.Timeout, local, 0, DefaultNotifyTimeout)
}

// NormalizeRetryTimes merges a notifier's local retry count.
func (g NotifierSetting) NormalizeRetryTimes(local int) int {
	return Normalize(g.RetryTimes, local, 0, DefaultNotifyRetryTimes)
}

// NormalizeRetryInterval merges a notifier's local retry interval.
func (g NotifierSetting) NormalizeRetryInterval(local time.Duration) time.Duration {
	return Normalize(g.RetryInterval, local, 0, DefaultNotifyRetryInterval)
}
