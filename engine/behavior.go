package engine

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/robmorgan/encore/cuegraph"
	"github.com/robmorgan/encore/fade"
	"github.com/robmorgan/encore/logger"
)

// resolveDuckingLocked applies a starting cue's duck policy to every
// instance already in the registry. Runs before the cue's own instance
// exists, so the policy never touches it.
func (e *Engine) resolveDuckingLocked(cue *cuegraph.AudioCue) {
	switch cue.Ducking.Mode {
	case cuegraph.DuckStopAll:
		for _, id := range slices.Clone(e.order) {
			if id == cue.ID {
				continue
			}
			inst, ok := e.instances[id]
			if !ok {
				continue
			}
			// Each instance goes down on its own configured fade.
			e.stopLocked(id, inst.stopFade)
		}

	case cuegraph.DuckOthers:
		log := logger.GetProjectLogger()
		ducked := 0
		for _, id := range e.order {
			inst, ok := e.instances[id]
			if !ok || inst.ID == cue.ID || inst.stopping {
				continue
			}
			inst.Ducked = true
			inst.ramp = &gainRamp{ramp: fade.Ramp{From: inst.gain, To: cue.Ducking.Level, Steps: e.duckSteps}}
			ducked++
		}
		if ducked > 0 {
			log.WithFields(logrus.Fields{
				"cue_id": cue.ID,
				"level":  cue.Ducking.Level,
				"others": ducked,
			}).Info("ducking others")
		}
	}
}

// UnduckAll ramps every ducked instance back to its remembered volume and
// clears the flag. Ducking is only ever reversed through this explicit
// operation, not by the ducking cue stopping.
func (e *Engine) UnduckAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := logger.GetProjectLogger()
	for _, id := range e.order {
		inst, ok := e.instances[id]
		if !ok || !inst.Ducked || inst.stopping {
			continue
		}
		inst.Ducked = false
		inst.ramp = &gainRamp{ramp: fade.Ramp{From: inst.gain, To: inst.Volume, Steps: e.duckSteps}}
		log.WithFields(logrus.Fields{"cue_id": id, "volume": inst.Volume}).Debug("unducking")
	}
}

// resolveEndBehaviorLocked chains whatever a finished cue asks for. Only
// natural completion lands here; explicit stops never chain.
func (e *Engine) resolveEndBehaviorLocked(inst *Instance) {
	visited := map[string]struct{}{}

	switch inst.endBehavior {
	case cuegraph.EndNext:
		if next := e.source.FindNextAfter(inst.ID); next != nil {
			_ = e.playLocked(next.ID, visited)
		}
	case cuegraph.EndLoop:
		_ = e.playLocked(inst.ID, visited)
	case cuegraph.EndGoto:
		if inst.endTarget != "" {
			// A deleted target resolves to nothing inside playLocked.
			_ = e.playLocked(inst.endTarget, visited)
		}
	}
}
