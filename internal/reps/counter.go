package reps

import (
	"errors"
	"fmt"
)

type Stage string

const (
	StageUnset Stage = ""
	StageDown  Stage = "down"
	StageUp    Stage = "up"
)

func (s Stage) String() string {
	if s == StageUnset {
		return "unset"
	}
	return string(s)
}

// MarshalText writes the same name String reports, so an unset stage is never encoded as "".
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	switch Stage(text) {
	case StageUnset, "unset":
		*s = StageUnset
	case StageDown, StageUp:
		*s = Stage(text)
	default:
		return fmt.Errorf("unknown stage: %q", text)
	}
	return nil
}

const (
	DefaultDownThreshold = 150.0
	DefaultUpThreshold   = 40.0
)

var ErrInvalidThresholds = errors.New("up threshold must be lower than down threshold")

// Thresholds in degrees. An arm extended past Down marks the rep start,
// a curl tighter than Up completes it.
type Thresholds struct {
	Down float64 `json:"down"`
	Up   float64 `json:"up"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{Down: DefaultDownThreshold, Up: DefaultUpThreshold}
}

func (t Thresholds) Validate() error {
	if t.Up >= t.Down {
		return fmt.Errorf("%w: up=%.1f, down=%.1f", ErrInvalidThresholds, t.Up, t.Down)
	}
	return nil
}

// Counter is the rep counting state machine. The zero value is not usable, use NewCounter.
// Not safe for concurrent use.
type Counter struct {
	thresholds Thresholds
	stage      Stage
	count      int
}

// State is a point-in-time view of a Counter.
type State struct {
	Stage Stage `json:"stage"`
	Count int   `json:"count"`
}

func NewCounter(thresholds Thresholds) *Counter {
	return &Counter{thresholds: thresholds}
}

func NewDefaultCounter() *Counter {
	return NewCounter(DefaultThresholds())
}

// Observe feeds one elbow angle sample and reports whether it completed a rep.
// Both checks run against the same sample, in order.
func (c *Counter) Observe(angle float64) bool {
	if angle > c.thresholds.Down {
		c.stage = StageDown
	}

	if angle < c.thresholds.Up && c.stage == StageDown {
		c.stage = StageUp
		c.count++
		return true
	}

	return false
}

func (c *Counter) State() State {
	return State{Stage: c.stage, Count: c.count}
}

func (c *Counter) Count() int {
	return c.count
}

func (c *Counter) Stage() Stage {
	return c.stage
}

func (c *Counter) Reset() {
	c.stage = StageUnset
	c.count = 0
}

// Replay runs all the given angles through a fresh counter.
func Replay(thresholds Thresholds, angles []float64) State {
	c := NewCounter(thresholds)
	for _, a := range angles {
		c.Observe(a)
	}
	return c.State()
}
