// Package status implements the coarse-grained health status enum, the
// sliding-window status counter, and the per-probe notification strategy
// used to decide whether a status transition warrants an alert.
package status

import "fmt"

// Status is the coarse-grained health state of a probed endpoint.
type Status int

const (
	// Init is the status before the first state transition has occurred.
	Init Status = iota
	// Up indicates the probe is currently succeeding.
	Up
	// Down indicates the probe is currently failing.
	Down
	// Unknown marks a status that has not been determined. It is not the
	// zero value of Status; the zero value is Init.
	Unknown
	// Bad indicates the prober could not be configured at all.
	Bad
)

// String returns the short lowercase tag for the status.
func (s Status) String() string {
	return s.Tag()
}

// Title returns the short textual title for the status.
func (s Status) Title() string {
	switch s {
	case Init:
		return "Initialization"
	case Up:
		return "Success"
	case Down:
		return "Error"
	case Bad:
		return "Bad"
	default:
		return "Unknown"
	}
}

// Tag returns the short lowercase identifier for the status.
func (s Status) Tag() string {
	switch s {
	case Init:
		return "init"
	case Up:
		return "up"
	case Down:
		return "down"
	case Bad:
		return "bad"
	default:
		return "unknown"
	}
}

// Emoji returns the display emoji for the status.
func (s Status) Emoji() string {
	switch s {
	case Init:
		return "🔎"
	case Up:
		return "✅"
	case Down:
		return "❌"
	case Bad:
		return "💔"
	default:
		return "❓"
	}
}

var _ fmt.Stringer = Status(0)

// Threshold is the number of consecutive observations required to flip
// the coarse-grained status.
type Threshold struct {
	Failure int
	Success int
}

// DefaultThreshold is used when a Threshold has not been configured.
var DefaultThreshold = Threshold{Failure: 1, Success: 1}
