package util

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduler delivers msg to the update loop after d. Controllers take one so
// tests can replace real timers.
type Scheduler func(d time.Duration, msg tea.Msg) tea.Cmd

// After is the production Scheduler. A non-positive delay delivers msg on
// the next loop iteration without a timer.
func After(d time.Duration, msg tea.Msg) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}
