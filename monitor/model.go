package main

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/robmorgan/encore/config"
	"github.com/robmorgan/encore/cuegraph"
	"github.com/robmorgan/encore/engine"
)

// MaxActiveCues caps how many instance rows the monitor renders; the
// progress bar pool is sized to it.
const MaxActiveCues = 8

type model struct {
	cfg  config.EncoreConfig
	eng  engine.Manager
	flat []*cuegraph.AudioCue // flattened show order driving the go key
	next int                  // index of the cue the next go fires

	spinner        spinner.Model
	activeProgress []progress.Model // we reuse a pool of progress bars for active cues
	statuses       []engine.Status
	quitting       bool
}

func newModel(cfg config.EncoreConfig, eng engine.Manager, graph *cuegraph.Graph) model {
	s := spinner.New()
	s.Style = spinnerStyle

	// prepare a pool of progress bars
	pp := make([]progress.Model, 0, MaxActiveCues)
	for i := 0; i < MaxActiveCues; i++ {
		pp = append(pp, progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		))
	}

	return model{
		cfg:            cfg,
		eng:            eng,
		flat:           graph.FlattenAudioCues(),
		spinner:        s,
		activeProgress: pp,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.cfg.TickInterval), m.spinner.Tick)
}

type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
