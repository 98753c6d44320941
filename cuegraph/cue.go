// Package cuegraph holds the show's cue data model: audio cues, groups, and
// the ordered forest they hang off. The playback engine only ever reads it
// through lookup queries; editing happens through the graph's add/remove
// operations.
package cuegraph

import "time"

// StartBehavior controls what else a cue triggers the moment it starts.
type StartBehavior int

const (
	StartNothing      StartBehavior = iota // Start nothing else
	StartPlayNext                          // Also start the next audio cue in flattened order
	StartPlaySpecific                      // Also start the cue named by StartTarget
)

// String returns the string representation of the behavior.
func (b StartBehavior) String() string {
	switch b {
	case StartNothing:
		return "nothing"
	case StartPlayNext:
		return "play_next"
	case StartPlaySpecific:
		return "play_specific"
	default:
		return "unknown"
	}
}

// EndBehavior controls what happens when a cue finishes playing on its own.
type EndBehavior int

const (
	EndNothing EndBehavior = iota // Do nothing
	EndNext                      // Play the next audio cue in flattened order
	EndLoop                      // Play the same cue again
	EndGoto                      // Play the cue named by EndTarget
)

// String returns the string representation of the behavior.
func (b EndBehavior) String() string {
	switch b {
	case EndNothing:
		return "nothing"
	case EndNext:
		return "next"
	case EndLoop:
		return "loop"
	case EndGoto:
		return "goto"
	default:
		return "unknown"
	}
}

// DuckMode selects what a starting cue does to instances already playing.
type DuckMode int

const (
	DuckNone    DuckMode = iota // Leave other instances alone
	DuckOthers                  // Lower other instances to Level
	DuckStopAll                 // Stop every other instance
)

// String returns the string representation of the mode.
func (m DuckMode) String() string {
	switch m {
	case DuckNone:
		return "none"
	case DuckOthers:
		return "duck_others"
	case DuckStopAll:
		return "stop_all"
	default:
		return "unknown"
	}
}

// DuckingBehavior is a cue's policy toward whatever is already playing when
// it starts.
type DuckingBehavior struct {
	Mode DuckMode

	// Level is the gain other instances are lowered to (0-1).
	Level float64

	// FadeIn and FadeOut are the show-file duck fade times in seconds. The
	// engine ramps ducks at its own fixed cadence; these fields ride along
	// for editors.
	FadeIn  float64
	FadeOut float64
}

// AudioCue is one playable clip: a media file, a trim window, a level, fade
// times and the behavior rules that chain it to other cues.
type AudioCue struct {
	// ID uniquely identifies the cue. Blank IDs are minted on insert.
	ID string

	// Name is the display name.
	Name string

	// Color is a display color tag, a name like "red" or a hex string.
	Color string

	// Path is the media file on disk.
	Path string

	// InPoint and OutPoint trim the source media, in seconds from the start
	// of the file. Playback covers [InPoint, OutPoint).
	InPoint  float64
	OutPoint float64

	// Volume is the playback level (0-1.5).
	Volume float64

	// PlayFade is the fade-in time in seconds applied when the cue starts.
	PlayFade float64

	// StopFade is the fade-out time in seconds applied when the cue is
	// stopped by its own rule (ducking stop-all, group stops).
	StopFade float64

	// FadeOutDuration is the show-file fade-out field. It backs up StopFade
	// when that is zero.
	FadeOutDuration float64

	StartBehavior StartBehavior

	// StartTarget names the cue started by StartPlaySpecific.
	StartTarget string

	EndBehavior EndBehavior

	// EndTarget names the cue started by EndGoto.
	EndTarget string

	Ducking DuckingBehavior

	// Notes is operator freetext.
	Notes string
}

// EffectiveDuration is the audible length of the trim window.
func (c *AudioCue) EffectiveDuration() time.Duration {
	return time.Duration((c.OutPoint - c.InPoint) * float64(time.Second))
}

// StopFadeDuration is the fade applied when the cue is stopped by another
// cue's rule: StopFade when set, otherwise FadeOutDuration.
func (c *AudioCue) StopFadeDuration() time.Duration {
	secs := c.StopFade
	if secs <= 0 {
		secs = c.FadeOutDuration
	}
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// GroupStartBehavior selects which children a group trigger starts.
type GroupStartBehavior int

const (
	GroupPlayFirst GroupStartBehavior = iota // Start the first audio cue in the group
	GroupPlayAll                             // Start every audio cue in the group
)

// String returns the string representation of the behavior.
func (b GroupStartBehavior) String() string {
	switch b {
	case GroupPlayFirst:
		return "play_first"
	case GroupPlayAll:
		return "play_all"
	default:
		return "unknown"
	}
}

// GroupCue is an ordered container of cues. Children are held by ID; the
// nodes themselves live in the graph's table.
type GroupCue struct {
	ID    string
	Name  string
	Color string

	// Children holds child node IDs in display order. A child belongs to
	// exactly one parent.
	Children []string

	StartBehavior GroupStartBehavior
	EndBehavior   EndBehavior
}

// Kind discriminates the two node types in the graph.
type Kind int

const (
	KindAudio Kind = iota
	KindGroup
)

// Node is one entry in the cue graph: exactly one of Audio or Group is set.
type Node struct {
	Audio *AudioCue
	Group *GroupCue
}

// Kind reports whether the node is an audio leaf or a group.
func (n *Node) Kind() Kind {
	if n.Group != nil {
		return KindGroup
	}
	return KindAudio
}

// ID returns the node's cue id.
func (n *Node) ID() string {
	if n.Group != nil {
		return n.Group.ID
	}
	if n.Audio != nil {
		return n.Audio.ID
	}
	return ""
}
