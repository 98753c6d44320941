// Package fade turns fade durations into discrete, steppable gain ramps.
// A ramp is a fixed number of gain values walked one step per engine tick
// rather than a continuous curve, which keeps fades cancellable between any
// two steps.
package fade

import (
	"math"
	"time"

	"github.com/fogleman/ease"

	"github.com/robmorgan/encore/utils"
)

// Ramp interpolates a gain from From to To across Steps boundaries. A nil
// Shape means linear.
type Ramp struct {
	From  float64
	To    float64
	Steps int
	Shape ease.Function
}

// New builds a ramp from one gain to another lasting d at the given step
// cadence.
func New(from, to float64, d time.Duration, stepsPerSecond int) Ramp {
	steps := int(math.Round(d.Seconds() * float64(stepsPerSecond)))
	if steps < 0 {
		steps = 0
	}
	return Ramp{From: from, To: to, Steps: steps}
}

// GainAt returns the gain at a step boundary: step 0 is From, step Steps is
// To, and anything outside clamps to the travel interval whichever way the
// ramp runs. A zero-step ramp short-circuits straight to To, which also
// guards the division below.
func (r Ramp) GainAt(step int) float64 {
	if r.Steps <= 0 {
		return r.To
	}
	shape := r.Shape
	if shape == nil {
		shape = ease.Linear
	}
	t := shape(utils.ClampUnit(float64(step) / float64(r.Steps)))
	g := r.From + (r.To-r.From)*t
	return utils.Clamp(g, r.From, r.To)
}

// Done reports whether applied steps complete the ramp.
func (r Ramp) Done(applied int) bool {
	return applied >= r.Steps
}
