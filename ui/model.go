// Package ui renders a live optimization run in the terminal.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/EmilioVenegas/hacknation-Falcon270/core"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
)

const defaultWidth = 80

type snapshotMsg optimization.State

type runFinishedMsg struct{ err error }

// Model is the bubbletea model for one run. It starts the run itself and
// repaints on every published snapshot.
type Model struct {
	session *optimization.Session
	request optimization.Request

	state   optimization.State
	spinner spinner.Model
	width   int
	runErr  error
	done    bool

	snapshots chan optimization.State
}

func New(session *optimization.Session, request optimization.Request) Model {
	return Model{
		session:   session,
		request:   request,
		state:     session.Snapshot(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		width:     defaultWidth,
		snapshots: make(chan optimization.State, 128),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun(), m.waitForSnapshot())
}

// startRun drives the session on its own goroutine; snapshots flow back
// through the channel. A full channel drops intermediate snapshots, never
// the final state, which is re-read from the session once the run ends.
func (m Model) startRun() tea.Cmd {
	session, request, snapshots := m.session, m.request, m.snapshots
	return func() tea.Msg {
		err := session.Run(context.Background(), request,
			optimization.WithSnapshotCallback(func(state optimization.State) {
				select {
				case snapshots <- state:
				default:
				}
			}),
		)
		return runFinishedMsg{err: err}
	}
}

func (m Model) waitForSnapshot() tea.Cmd {
	snapshots := m.snapshots
	return func() tea.Msg {
		return snapshotMsg(<-snapshots)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.session.Cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case snapshotMsg:
		m.state = optimization.State(msg)
		return m, m.waitForSnapshot()

	case runFinishedMsg:
		m.state = m.session.Snapshot()
		m.runErr = msg.err
		m.done = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	var view strings.Builder

	view.WriteString(titleStyle.Render("Agentic Medicinal Chemist"))
	view.WriteString("  ")
	view.WriteString(phaseStyles[m.state.Phase].Render(strings.ToUpper(string(m.state.Phase))))
	if m.state.Phase == optimization.PhaseRunning {
		view.WriteString(" " + m.spinner.View())
	}
	view.WriteString("\n")
	view.WriteString(faintStyle.Render(fmt.Sprintf("%s  →  %s", m.request.Structure, m.request.Goal)))
	view.WriteString("\n\n")

	for _, thought := range m.state.Log {
		line := speakerStyle(thought.Speaker).Render(thought.Speaker) + " " + thought.Message
		view.WriteString(wordwrap.String(line, m.width))
		view.WriteString("\n")
	}

	if report := m.state.FinalReport; report != nil {
		view.WriteString("\n")
		view.WriteString(titleStyle.Render("Final report"))
		view.WriteString("\n")
		view.WriteString(fmt.Sprintf("Status: %s   Attempts: %d\n", report.Status, report.Attempts))
		view.WriteString("Structure: " + structureStyle.Render(report.FinalStructure) + "\n")
		if report.ExecutiveSummary != "" {
			view.WriteString("\n")
			view.WriteString(wordwrap.String(report.ExecutiveSummary, m.width))
			view.WriteString("\n")
		}
	}

	if m.state.LastError != "" {
		view.WriteString("\n" + errorStyle.Render("Error: "+m.state.LastError) + "\n")
	}
	if m.runErr != nil {
		view.WriteString("\n" + errorStyle.Render(m.runErr.Error()) + "\n")
	}
	if m.state.ImplicitEnd {
		view.WriteString(faintStyle.Render("stream closed without an explicit end signal") + "\n")
	}

	if m.done {
		view.WriteString("\n" + faintStyle.Render("press q to exit") + "\n")
	} else {
		view.WriteString("\n" + faintStyle.Render("press q to cancel") + "\n")
	}

	return view.String()
}
