package engine

import (
	"time"

	"github.com/robmorgan/encore/audio"
	"github.com/robmorgan/encore/cuegraph"
	"github.com/robmorgan/encore/fade"
	"github.com/robmorgan/encore/utils"
)

// Instance is one active, in-flight playback of a cue. It lives in the
// registry from play until completion or stop, and every mutation happens
// under the engine's lock.
type Instance struct {
	// ID is the source cue's id; it doubles as the registry key, so there
	// is at most one instance per cue at any time.
	ID string

	// gen distinguishes this instance from earlier or later playbacks of
	// the same cue id, so work captured against a replaced instance can
	// detect it went stale.
	gen uint64

	// Display snapshot taken from the cue at play time.
	Name  string
	Color string

	// Volume is the remembered target level; gain is what is currently
	// applied to the handle. They differ while a fade or duck is running.
	Volume float64
	gain   float64

	// Ducked marks an instance lowered by another cue's duck policy.
	Ducked bool

	// stopping marks an instance fading to zero on its way out. Stopping
	// instances no longer complete naturally and never chain.
	stopping bool

	StartedAt time.Time
	Total     time.Duration
	Current   time.Duration

	// stopFade is the cue's own fade-out, applied when another cue's
	// stop-all duck policy takes this instance down.
	stopFade time.Duration

	endBehavior cuegraph.EndBehavior
	endTarget   string

	handle audio.Handle

	// ramp is the pending fade, if any. Dropping it abandons the remaining
	// steps.
	ramp *gainRamp
}

// gainRamp pairs a fade ramp with how many steps of it have been applied.
type gainRamp struct {
	ramp    fade.Ramp
	applied int
}

// status renders the instance into one row of the read view.
func (inst *Instance) status() Status {
	progress := 0.0
	if inst.Total > 0 {
		progress = utils.ClampUnit(inst.Current.Seconds() / inst.Total.Seconds())
	}
	remaining := inst.Total - inst.Current
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		ID:            inst.ID,
		Name:          inst.Name,
		Color:         inst.Color,
		CurrentTime:   inst.Current,
		TotalDuration: inst.Total,
		Progress:      progress,
		TimeRemaining: remaining,
		Gain:          inst.gain,
		Ducked:        inst.Ducked,
	}
}

// Status is one row of the engine's read view, safe to hold outside the
// lock.
type Status struct {
	ID            string
	Name          string
	Color         string
	CurrentTime   time.Duration
	TotalDuration time.Duration
	Progress      float64
	TimeRemaining time.Duration
	Gain          float64
	Ducked        bool
}

// EventType represents a playback event type.
type EventType int

const (
	EventStarted EventType = iota // An instance entered the registry
	EventChanged                  // A tick moved progress or gain
	EventEnded                    // An instance left the registry
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventChanged:
		return "changed"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is a playback notification. Changed events are aggregated per tick
// and carry no id.
type Event struct {
	Type EventType
	ID   string
	Name string
}
