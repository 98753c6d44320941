package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmorgan/encore/cuegraph"
)

func TestDuckStopAllLeavesOnlyTheNewCue(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "bed", Path: "bed.wav", OutPoint: 60, Volume: 1, StopFade: 1}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "fx", Path: "fx.wav", OutPoint: 60, Volume: 1}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "anthem", Path: "anthem.wav", OutPoint: 60, Volume: 1,
		Ducking: cuegraph.DuckingBehavior{Mode: cuegraph.DuckStopAll},
	}))

	e, out, fc := newTestEngine(t, g)
	require.NoError(t, e.Play("bed"))
	require.NoError(t, e.Play("fx"))

	require.NoError(t, e.Play("anthem"))

	// fx has no fade configured, so it is gone at once; bed is fading down
	// on its own one second stop fade.
	assert.False(t, e.IsPlaying("fx"))
	assert.True(t, e.IsPlaying("bed"))
	assert.True(t, e.IsPlaying("anthem"))

	advance(e, fc, time.Second)
	assert.Equal(t, []string{"anthem"}, activeIDs(e))
	assert.True(t, out.handleFor("bed.wav").isClosed())
	assert.True(t, out.handleFor("fx.wav").isClosed())
}

func TestDuckOthersAndUnduck(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "bed", Path: "bed.wav", OutPoint: 60, Volume: 1}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "voice", Path: "voice.wav", OutPoint: 60, Volume: 1,
		Ducking: cuegraph.DuckingBehavior{Mode: cuegraph.DuckOthers, Level: 0.2},
	}))

	e, out, fc := newTestEngine(t, g)
	require.NoError(t, e.Play("bed"))
	require.NoError(t, e.Play("voice"))

	st := e.Snapshot()
	require.Len(t, st, 2)
	assert.True(t, st[0].Ducked)
	assert.False(t, st[1].Ducked, "the ducking cue itself is untouched")

	// The duck lands over the fixed five-step ramp.
	advance(e, fc, 500*time.Millisecond)
	bed := out.handleFor("bed.wav")
	gains := bed.gainLog()
	assert.InDelta(t, 0.2, gains[len(gains)-1], 1e-9)
	assert.InDelta(t, 0.84, gains[1], 1e-9)

	// Stopping the voice-over does not restore anything on its own.
	e.Stop("voice", 0)
	advance(e, fc, 500*time.Millisecond)
	st = e.Snapshot()
	require.Len(t, st, 1)
	assert.True(t, st[0].Ducked)
	assert.InDelta(t, 0.2, st[0].Gain, 1e-9)

	// Only the explicit unduck brings the bed back to its own volume.
	e.UnduckAll()
	st = e.Snapshot()
	assert.False(t, st[0].Ducked)

	advance(e, fc, 500*time.Millisecond)
	gains = bed.gainLog()
	assert.InDelta(t, 1.0, gains[len(gains)-1], 1e-9)
}

func TestDuckNoneLeavesOthersAlone(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "bed", Path: "bed.wav", OutPoint: 60, Volume: 0.7}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "fx", Path: "fx.wav", OutPoint: 60, Volume: 1}))

	e, out, _ := newTestEngine(t, g)
	require.NoError(t, e.Play("bed"))
	require.NoError(t, e.Play("fx"))

	assert.Equal(t, 2, e.ActiveCount())
	gains := out.handleFor("bed.wav").gainLog()
	assert.Equal(t, []float64{0.7}, gains)
	for _, s := range e.Snapshot() {
		assert.False(t, s.Ducked)
	}
}

func TestEndNextChainsThroughTheShow(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "a", Path: "a.wav", OutPoint: 10, Volume: 1, EndBehavior: cuegraph.EndNext,
	}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "b", Path: "b.wav", OutPoint: 4, Volume: 1}))

	e, _, fc := newTestEngine(t, g)
	require.NoError(t, e.Play("a"))

	advance(e, fc, 10*time.Second)
	assert.False(t, e.IsPlaying("a"))
	assert.True(t, e.IsPlaying("b"), "completion hands off to the next cue")

	advance(e, fc, 4*time.Second)
	assert.Equal(t, 0, e.ActiveCount(), "the chain ends with an empty registry")
}

func TestEndNextWithNoSuccessor(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "last", Path: "last.wav", OutPoint: 1, Volume: 1, EndBehavior: cuegraph.EndNext,
	}))

	e, _, fc := newTestEngine(t, g)
	require.NoError(t, e.Play("last"))

	advance(e, fc, time.Second)
	assert.Equal(t, 0, e.ActiveCount())
}

func TestEndNextReplacesTargetFinishingSameTick(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "a", Path: "a.wav", OutPoint: 1, Volume: 1, EndBehavior: cuegraph.EndNext,
	}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "b", Path: "b.wav", OutPoint: 1, Volume: 1}))

	e, out, fc := newTestEngine(t, g)
	require.NoError(t, e.Play("a"))
	require.NoError(t, e.Play("b"))

	// Both land on the same tick. a's handoff replaces the b that was
	// finishing, and b's own completion is stale by the time it is
	// processed; it must not take the fresh instance down.
	advance(e, fc, time.Second)
	assert.Equal(t, []string{"b"}, activeIDs(e))
	assert.Equal(t, 3, out.openCount())

	advance(e, fc, 900*time.Millisecond)
	assert.Equal(t, []string{"b"}, activeIDs(e), "the fresh instance plays through")

	advance(e, fc, 100*time.Millisecond)
	assert.Equal(t, 0, e.ActiveCount())
}

func TestEndLoopKeepsExactlyOneInstance(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "drone", Path: "drone.wav", OutPoint: 1, Volume: 1, EndBehavior: cuegraph.EndLoop,
	}))

	e, out, fc := newTestEngine(t, g)
	require.NoError(t, e.Play("drone"))

	for i := 0; i < 3; i++ {
		advance(e, fc, time.Second)
		assert.Equal(t, []string{"drone"}, activeIDs(e), "loop pass %d", i)
	}
	assert.Equal(t, 4, out.openCount(), "each loop opens the media fresh")

	e.Stop("drone", 0)
	advance(e, fc, time.Second)
	assert.Equal(t, 0, e.ActiveCount(), "a stopped loop stays stopped")
}

func TestEndGotoTarget(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "a", Path: "a.wav", OutPoint: 1, Volume: 1,
		EndBehavior: cuegraph.EndGoto, EndTarget: "c",
	}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "b", Path: "b.wav", OutPoint: 1, Volume: 1}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "c", Path: "c.wav", OutPoint: 1, Volume: 1}))

	e, _, fc := newTestEngine(t, g)
	require.NoError(t, e.Play("a"))

	advance(e, fc, time.Second)
	assert.Equal(t, []string{"c"}, activeIDs(e), "goto skips over b")
}

func TestEndGotoDeletedTargetIsSilent(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "a", Path: "a.wav", OutPoint: 1, Volume: 1,
		EndBehavior: cuegraph.EndGoto, EndTarget: "doomed",
	}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "doomed", Path: "d.wav", OutPoint: 1, Volume: 1}))

	e, _, fc := newTestEngine(t, g)
	require.NoError(t, e.Play("a"))
	g.Remove("doomed")

	advance(e, fc, time.Second)
	assert.Equal(t, 0, e.ActiveCount(), "a deleted goto target resolves to nothing")
}

func TestEndGotoSelfRestartsFromTheTop(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "riff", Path: "riff.wav", OutPoint: 1, Volume: 1,
		EndBehavior: cuegraph.EndGoto, EndTarget: "riff",
	}))

	e, out, fc := newTestEngine(t, g)
	require.NoError(t, e.Play("riff"))

	advance(e, fc, 2500*time.Millisecond)
	assert.Equal(t, []string{"riff"}, activeIDs(e))
	assert.Equal(t, 3, out.openCount(), "each pass reopens the media")

	st := e.Snapshot()
	require.Len(t, st, 1)
	assert.InDelta(t, 0.5, st[0].Progress, 1e-9)
}

func TestExplicitStopNeverChains(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "a", Path: "a.wav", OutPoint: 10, Volume: 1, EndBehavior: cuegraph.EndNext,
	}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "b", Path: "b.wav", OutPoint: 10, Volume: 1}))

	e, _, fc := newTestEngine(t, g)
	require.NoError(t, e.Play("a"))

	e.Stop("a", 500*time.Millisecond)
	advance(e, fc, time.Second)

	assert.Equal(t, 0, e.ActiveCount())
	assert.False(t, e.IsPlaying("b"), "only natural completion drives chaining")
}

func TestStartPlayNext(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "a", Path: "a.wav", OutPoint: 10, Volume: 1, StartBehavior: cuegraph.StartPlayNext,
	}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "b", Path: "b.wav", OutPoint: 10, Volume: 1}))

	e, _, _ := newTestEngine(t, g)
	require.NoError(t, e.Play("a"))

	// Both run from the same go, a alongside b.
	assert.Equal(t, []string{"a", "b"}, activeIDs(e))
}

func TestStartPlaySpecific(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "walkin", Path: "w.wav", OutPoint: 10, Volume: 1,
		StartBehavior: cuegraph.StartPlaySpecific, StartTarget: "sfx",
	}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "filler", Path: "f.wav", OutPoint: 10, Volume: 1}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{ID: "sfx", Path: "s.wav", OutPoint: 10, Volume: 1}))

	e, _, _ := newTestEngine(t, g)
	require.NoError(t, e.Play("walkin"))

	assert.Equal(t, []string{"walkin", "sfx"}, activeIDs(e))
}

func TestStartTriggerCyclesDoNotRecurse(t *testing.T) {
	t.Parallel()

	g := cuegraph.NewGraph()
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "a", Path: "a.wav", OutPoint: 10, Volume: 1,
		StartBehavior: cuegraph.StartPlaySpecific, StartTarget: "b",
	}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "b", Path: "b.wav", OutPoint: 10, Volume: 1,
		StartBehavior: cuegraph.StartPlaySpecific, StartTarget: "a",
	}))
	require.NotNil(t, g.AddCue("", &cuegraph.AudioCue{
		ID: "self", Path: "self.wav", OutPoint: 10, Volume: 1,
		StartBehavior: cuegraph.StartPlaySpecific, StartTarget: "self",
	}))

	e, out, _ := newTestEngine(t, g)

	// a starts b; b's pointer back at a goes nowhere.
	require.NoError(t, e.Play("a"))
	assert.Equal(t, []string{"a", "b"}, activeIDs(e))
	assert.Equal(t, 2, out.openCount())

	e.StopAll(0)

	// A cue pointing at itself plays once.
	require.NoError(t, e.Play("self"))
	assert.Equal(t, []string{"self"}, activeIDs(e))
	assert.Equal(t, 3, out.openCount())
}

// activeIDs reads the registry order out of the read view.
func activeIDs(e *Engine) []string {
	var ids []string
	for _, s := range e.Snapshot() {
		ids = append(ids, s.ID)
	}
	return ids
}
