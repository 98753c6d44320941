package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/robmorgan/encore/utils"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	duckedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	appStyle     = lipgloss.NewStyle().Margin(1, 2, 0, 2)
)

func (m model) View() string {
	var s string
	s += fmt.Sprintf("%s encore: %d active\n\n", m.spinner.View(), len(m.statuses))

	// render a progress bar for each active instance
	for i, st := range m.statuses {
		if i >= len(m.activeProgress) {
			break
		}
		name := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.GetColorFromString(st.Color).Hex())).
			Render(st.Name)
		if st.Ducked {
			name += duckedStyle.Render(" (ducked)")
		}
		s += fmt.Sprintf("%s\n%s %s\n\n",
			name,
			m.activeProgress[i].ViewAs(st.Progress),
			st.TimeRemaining.Round(time.Second))
	}

	s += helpStyle.Render("(g)o (s)top all (u)nduck\n\nPress q to exit\n")

	if m.quitting {
		s += "\n"
	}
	return appStyle.Render(s)
}
