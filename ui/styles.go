package ui

import (
	"github.com/EmilioVenegas/hacknation-Falcon270/core"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))

	speakerStyles = map[string]lipgloss.Style{
		"Designer":    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		"Validator":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("178")),
		"Synthesizer": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")),
		"Router":      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244")),
	}
	defaultSpeakerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))

	phaseStyles = map[optimization.Phase]lipgloss.Style{
		optimization.PhaseRunning:   badge("63"),
		optimization.PhaseSucceeded: badge("35"),
		optimization.PhaseFailed:    badge("161"),
		optimization.PhaseCancelled: badge("240"),
		optimization.PhaseIdle:      badge("240"),
	}

	structureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("158"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("161"))
	faintStyle     = lipgloss.NewStyle().Faint(true)
)

func badge(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("231")).
		Background(lipgloss.Color(color))
}

func speakerStyle(speaker string) lipgloss.Style {
	if style, ok := speakerStyles[speaker]; ok {
		return style
	}
	return defaultSpeakerStyle
}
