// Package show carries the built-in demo show: a small cue graph with trim
// windows, fades, chaining and a ducking voice-over. The console and the
// control surfaces all load this until real project files exist.
package show

import "github.com/robmorgan/encore/cuegraph"

// BuildDemoShow assembles the demo cue graph.
func BuildDemoShow() *cuegraph.Graph {
	g := cuegraph.NewGraph()

	g.AddCue("", &cuegraph.AudioCue{
		ID:          "house",
		Name:        "House Music",
		Color:       "blue",
		Path:        "media/house.wav",
		OutPoint:    300,
		Volume:      0.6,
		PlayFade:    3,
		StopFade:    2,
		EndBehavior: cuegraph.EndLoop,
		Notes:       "Loops until the opener goes.",
	})

	g.AddGroup("", &cuegraph.GroupCue{
		ID:            "act1",
		Name:          "Act 1",
		Color:         "purple",
		StartBehavior: cuegraph.GroupPlayAll,
	})
	g.AddCue("act1", &cuegraph.AudioCue{
		ID:       "opener",
		Name:     "Opener",
		Color:    "red",
		Path:     "media/opener.wav",
		InPoint:  4.5,
		OutPoint: 192,
		Volume:   1,
		PlayFade: 0.5,
		StopFade: 2,
		// The opener takes the stage: everything still playing goes down
		// on its own stop fade.
		Ducking:     cuegraph.DuckingBehavior{Mode: cuegraph.DuckStopAll},
		EndBehavior: cuegraph.EndNext,
	})
	g.AddCue("act1", &cuegraph.AudioCue{
		ID:          "ballad",
		Name:        "Ballad",
		Color:       "cyan",
		Path:        "media/ballad.flac",
		OutPoint:    241,
		Volume:      0.9,
		StopFade:    2,
		EndBehavior: cuegraph.EndNext,
	})
	g.AddCue("act1", &cuegraph.AudioCue{
		ID:       "stinger",
		Name:     "Stinger",
		Color:    "yellow",
		Path:     "media/stinger.wav",
		OutPoint: 3.2,
		Volume:   1.2,
	})

	g.AddCue("", &cuegraph.AudioCue{
		ID:       "vo-welcome",
		Name:     "Welcome VO",
		Color:    "green",
		Path:     "media/vo_welcome.mp3",
		OutPoint: 18,
		Volume:   1,
		Ducking: cuegraph.DuckingBehavior{
			Mode:    cuegraph.DuckOthers,
			Level:   0.2,
			FadeIn:  0.5,
			FadeOut: 0.5,
		},
		Notes: "Duck the band, unduck manually after the applause.",
	})

	g.AddCue("", &cuegraph.AudioCue{
		ID:       "walkout",
		Name:     "Walkout",
		Color:    "magenta",
		Path:     "media/walkout.ogg",
		InPoint:  60,
		OutPoint: 245,
		Volume:   0.8,
		PlayFade: 4,
		StopFade: 6,
	})

	return g
}
