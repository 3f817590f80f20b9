package main

import (
	"github.com/charmbracelet/lipgloss"

	"investoredge/internal/dashboard"
)

// Styles.
var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	modalBarStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3")) // black on yellow
	tickerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tickerHlStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	sectionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	colHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Padding(0, 1)
	tabEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
	cardStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	cardHlStyle    = cardStyle.BorderForeground(lipgloss.Color("75"))
	highlightBG    = lipgloss.Color("236") // dark grey background
)

// toneStyles maps the symbolic dashboard styles to terminal colours.
var toneStyles = map[dashboard.Style]lipgloss.Style{
	dashboard.StyleNeutral:        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	dashboard.StyleStrongPositive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
	dashboard.StylePositive:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	dashboard.StyleCaution:        lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	dashboard.StyleWarning:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	dashboard.StyleNegative:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	dashboard.StyleStrongNegative: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
}

func tone(s dashboard.Style) lipgloss.Style {
	if st, ok := toneStyles[s]; ok {
		return st
	}
	return toneStyles[dashboard.StyleNeutral]
}

// hlStyle returns a copy of s with the highlight background applied when hl is true.
func hlStyle(s lipgloss.Style, hl bool) lipgloss.Style {
	if hl {
		return s.Background(highlightBG)
	}
	return s
}
