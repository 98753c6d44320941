package main

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "g":
			if len(m.flat) > 0 {
				cue := m.flat[m.next%len(m.flat)]
				m.next++
				// Open failures are already logged; the monitor keeps going.
				_ = m.eng.Play(cue.ID)
			}
		case "s":
			m.eng.StopAll(m.cfg.DefaultStopFade)
		case "u":
			m.eng.UnduckAll()
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case tickMsg:
		m.statuses = m.eng.Snapshot()
		return m, tickCmd(m.cfg.TickInterval)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}
