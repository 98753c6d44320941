// Package engine is the cue playback state machine: it owns the registry of
// active instances, applies fades and ducking, resolves start and end
// behaviors, and advances everything on a fixed wall-clock tick.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
	"k8s.io/utils/clock"

	"github.com/robmorgan/encore/audio"
	"github.com/robmorgan/encore/config"
	"github.com/robmorgan/encore/cuegraph"
	"github.com/robmorgan/encore/fade"
	"github.com/robmorgan/encore/logger"
	"github.com/robmorgan/encore/utils"
)

// eventBufferSize bounds the notification channel. Sends never block; a
// lagging subscriber just misses events.
const eventBufferSize = 64

// CueSource is the read-only slice of the cue graph the engine consumes. It
// never writes back.
type CueSource interface {
	FindByID(id string) *cuegraph.AudioCue
	FindNextAfter(id string) *cuegraph.AudioCue
}

// Manager is the operation surface the control layers (TUI, OSC) drive.
type Manager interface {
	Play(id string) error
	Stop(id string, fadeOut time.Duration)
	StopAll(fadeOut time.Duration)
	SetVolume(id string, v float64)
	IsPlaying(id string) bool
	ActiveCount() int
	UnduckAll()
	SetMasterGain(g float64)
	MasterGain() float64
	Snapshot() []Status
	Events() <-chan Event
	Run(ctx context.Context, wg *sync.WaitGroup)
}

// Engine owns the set of active playback instances. One mutex serializes
// every registry and gain mutation; all time-driven work happens on the
// tick, which is the only thing that fires completions.
type Engine struct {
	clock  clock.WithTicker
	out    audio.Output
	source CueSource

	mu         sync.Mutex
	instances  map[string]*Instance
	order      []string
	gen        uint64
	masterGain float64

	events chan Event

	tickInterval       time.Duration
	fadeStepsPerSecond int
	duckSteps          int
}

var _ Manager = (*Engine)(nil)

// New creates a playback engine reading cue definitions from source and playing
// them through out.
func New(cfg config.EncoreConfig, cl clock.WithTicker, out audio.Output, source CueSource) *Engine {
	e := &Engine{
		clock:              cl,
		out:                out,
		source:             source,
		instances:          map[string]*Instance{},
		masterGain:         utils.ClampUnit(cfg.MasterGain),
		events:             make(chan Event, eventBufferSize),
		tickInterval:       cfg.TickInterval,
		fadeStepsPerSecond: cfg.FadeStepsPerSecond,
		duckSteps:          cfg.DuckSteps,
	}
	out.SetMasterGain(e.masterGain)
	return e
}

// Play starts the cue with the given id. Unknown ids are a silent no-op; a
// media file that cannot be opened returns the error with no instance
// created. Playing an id that is already active replaces the old instance.
func (e *Engine) Play(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playLocked(id, map[string]struct{}{})
}

// playLocked is the re-entrant core of Play, shared with start and end
// behavior chaining. visited caps a chain at one play per cue id, which
// also stops start-trigger cycles from recursing forever.
func (e *Engine) playLocked(id string, visited map[string]struct{}) error {
	if _, seen := visited[id]; seen {
		return nil
	}
	visited[id] = struct{}{}

	log := logger.GetProjectLogger()

	cue := e.source.FindByID(id)
	if cue == nil {
		// Pressing go on an empty or deleted slot must never take the
		// show down.
		log.WithFields(logrus.Fields{"cue_id": id}).Debug("play: no such cue")
		return nil
	}

	// The new cue's duck policy applies to whatever is already active,
	// before its own instance exists.
	e.resolveDuckingLocked(cue)

	handle, err := e.out.Open(cue.Path, cue.InPoint, cue.OutPoint)
	if err != nil {
		log.WithFields(logrus.Fields{"cue_id": id, "path": cue.Path}).
			WithError(err).Error("play: media unavailable")
		return err
	}

	// One instance per cue id: replaying tears the old instance down
	// first.
	if old, ok := e.instances[cue.ID]; ok {
		e.removeLocked(old)
		e.emit(EventEnded, old)
	}

	e.gen++
	inst := &Instance{
		ID:          cue.ID,
		gen:         e.gen,
		Name:        cue.Name,
		Color:       cue.Color,
		Volume:      cue.Volume,
		gain:        cue.Volume,
		StartedAt:   e.clock.Now(),
		Total:       cue.EffectiveDuration(),
		stopFade:    cue.StopFadeDuration(),
		endBehavior: cue.EndBehavior,
		endTarget:   cue.EndTarget,
		handle:      handle,
	}
	if cue.PlayFade > 0 {
		inst.gain = 0
		inst.ramp = &gainRamp{
			ramp: fade.New(0, cue.Volume, time.Duration(cue.PlayFade*float64(time.Second)), e.fadeStepsPerSecond),
		}
	}
	handle.SetGain(inst.gain)

	e.instances[inst.ID] = inst
	e.order = append(e.order, inst.ID)
	handle.Start()
	e.emit(EventStarted, inst)

	log.WithFields(logrus.Fields{
		"cue_id":   inst.ID,
		"cue_name": inst.Name,
		"duration": inst.Total,
		"ducking":  cue.Ducking.Mode.String(),
	}).Info("play")

	// Start behavior fires now, alongside the cue just started. It is not
	// a post-completion trigger.
	switch cue.StartBehavior {
	case cuegraph.StartPlayNext:
		if next := e.source.FindNextAfter(cue.ID); next != nil {
			_ = e.playLocked(next.ID, visited)
		}
	case cuegraph.StartPlaySpecific:
		if cue.StartTarget != "" {
			_ = e.playLocked(cue.StartTarget, visited)
		}
	}
	return nil
}

// Stop takes the instance for id out of the registry, fading over fadeOut
// first when it is positive. Explicit stops never chain end behavior.
func (e *Engine) Stop(id string, fadeOut time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked(id, fadeOut)
}

func (e *Engine) stopLocked(id string, fadeOut time.Duration) {
	inst, ok := e.instances[id]
	if !ok {
		return
	}

	log := logger.GetProjectLogger()
	log.WithFields(logrus.Fields{"cue_id": id, "fade": fadeOut}).Info("stop")

	if fadeOut > 0 {
		r := fade.New(inst.gain, 0, fadeOut, e.fadeStepsPerSecond)
		if r.Steps > 0 {
			inst.stopping = true
			inst.ramp = &gainRamp{ramp: r}
			return
		}
		// A fade shorter than one step is an immediate stop.
	}
	e.removeLocked(inst)
	e.emit(EventEnded, inst)
}

// StopAll stops every active instance with the same fade.
func (e *Engine) StopAll(fadeOut time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := logger.GetProjectLogger()
	log.WithFields(logrus.Fields{"active": len(e.instances), "fade": fadeOut}).Info("stop all")

	for _, id := range slices.Clone(e.order) {
		e.stopLocked(id, fadeOut)
	}
}

// SetVolume sets an instance's live gain and its remembered target. A
// pending fade (other than a stop-fade) is abandoned; the manual level wins.
func (e *Engine) SetVolume(id string, v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[id]
	if !ok {
		return
	}
	v = utils.Clamp(v, 0, 1.5)
	inst.Volume = v
	inst.gain = v
	inst.handle.SetGain(v)
	if inst.ramp != nil && !inst.stopping {
		inst.ramp = nil
	}
}

// IsPlaying reports whether the cue id has an instance in the registry.
func (e *Engine) IsPlaying(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.instances[id]
	return ok
}

// ActiveCount returns the number of active instances.
func (e *Engine) ActiveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.instances)
}

// SetMasterGain sets the overall output level (clamped to 0-1).
func (e *Engine) SetMasterGain(g float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.masterGain = utils.ClampUnit(g)
	e.out.SetMasterGain(e.masterGain)
}

// MasterGain returns the overall output level.
func (e *Engine) MasterGain() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.masterGain
}

// Snapshot returns the read view of the registry in insertion order.
func (e *Engine) Snapshot() []Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Status, 0, len(e.order))
	for _, id := range e.order {
		if inst, ok := e.instances[id]; ok {
			out = append(out, inst.status())
		}
	}
	return out
}

// Events returns the notification channel. Events are dropped, never
// blocked on, when the subscriber lags.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Run drives the engine at its tick cadence until ctx is done. Progress,
// fades and completions all advance here and nowhere else.
func (e *Engine) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	log := logger.GetProjectLogger()
	log.WithFields(logrus.Fields{"interval": e.tickInterval}).Info("engine loop started")

	t := e.clock.NewTicker(e.tickInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("engine loop shutdown")
			return
		case <-t.C():
			e.step(e.clock.Now())
		}
	}
}

// step advances every instance one tick: progress from the wall clock, at
// most one ramp step, then completion and end-behavior chaining. Being the
// single completion authority means there is no deadline timer anywhere to
// race with a stop.
func (e *Engine) step(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	changed := false
	var completed []*Instance

	for _, id := range slices.Clone(e.order) {
		inst, ok := e.instances[id]
		if !ok {
			continue
		}

		cur := now.Sub(inst.StartedAt)
		if cur < 0 {
			cur = 0
		}
		if cur != inst.Current {
			inst.Current = cur
			changed = true
		}

		if inst.ramp != nil {
			e.applyRampStepLocked(inst)
			changed = true
			if _, alive := e.instances[id]; !alive {
				continue
			}
		}

		if !inst.stopping && inst.Current >= inst.Total {
			completed = append(completed, inst)
		}
	}

	log := logger.GetProjectLogger()
	for _, inst := range completed {
		// An earlier completion in this pass may have replaced this id
		// already; the generation counter spots that.
		cur, ok := e.instances[inst.ID]
		if !ok || cur.gen != inst.gen {
			continue
		}
		e.removeLocked(inst)
		e.emit(EventEnded, inst)
		log.WithFields(logrus.Fields{
			"cue_id":       inst.ID,
			"cue_name":     inst.Name,
			"end_behavior": inst.endBehavior.String(),
		}).Info("cue finished")
		e.resolveEndBehaviorLocked(inst)
	}

	if changed {
		e.emitEvent(Event{Type: EventChanged})
	}
}

// applyRampStepLocked advances an instance's fade by one step, removing the
// instance when a stop-fade lands.
func (e *Engine) applyRampStepLocked(inst *Instance) {
	r := inst.ramp
	r.applied++
	inst.gain = r.ramp.GainAt(r.applied)
	inst.handle.SetGain(inst.gain)

	if r.ramp.Done(r.applied) {
		inst.ramp = nil
		if inst.stopping {
			e.removeLocked(inst)
			e.emit(EventEnded, inst)
		}
	}
}

// removeLocked releases the instance's audio resources and drops it from
// the registry. Stale references (an id already replaced or removed) are a
// no-op.
func (e *Engine) removeLocked(inst *Instance) {
	cur, ok := e.instances[inst.ID]
	if !ok || cur.gen != inst.gen {
		return
	}
	inst.handle.Close()
	delete(e.instances, inst.ID)
	e.order = cutID(e.order, inst.ID)
}

func (e *Engine) emit(t EventType, inst *Instance) {
	e.emitEvent(Event{Type: t, ID: inst.ID, Name: inst.Name})
}

func (e *Engine) emitEvent(ev Event) {
	select {
	case e.events <- ev:
	default:
	}
}

// cutID removes the first occurrence of id from ids.
func cutID(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
