package status

// Observation is a single recorded probe outcome.
type Observation struct {
	Status  bool
	Message string
}

// Counter is a bounded FIFO of recent observations. It tracks the run
// length of the most recent identical observations, capped at MaxLen.
//
// Invariant: Count is the number of consecutive most-recent observations
// equal to Current, capped at MaxLen; the history never exceeds MaxLen.
type Counter struct {
	history []Observation
	Current bool
	Count   int
	MaxLen  int
}

// NewCounter creates a Counter with the given history cap. A non-positive
// maxLen defaults to 1.
func NewCounter(maxLen int) *Counter {
	if maxLen <= 0 {
		maxLen = 1
	}
	return &Counter{MaxLen: maxLen}
}

// Append records a new observation, updating Current and Count, and
// trims the history to MaxLen.
func (c *Counter) Append(success bool, message string) {
	if len(c.history) > 0 && success == c.Current {
		if c.Count < c.MaxLen {
			c.Count++
		}
	} else {
		c.Current = success
		c.Count = 1
	}

	c.history = append(c.history, Observation{Status: success, Message: message})
	if len(c.history) > c.MaxLen {
		c.history = c.history[len(c.history)-c.MaxLen:]
	}
}

// History returns a copy of the recorded observations, oldest first.
func (c *Counter) History() []Observation {
	out := make([]Observation, len(c.history))
	copy(out, c.history)
	return out
}

// Len returns the number of observations currently retained.
func (c *Counter) Len() int {
	return len(c.history)
}
