package optimization

import (
	"slices"
	"sync"

	"github.com/EmilioVenegas/hacknation-Falcon270/core/events"
	"github.com/jinzhu/copier"
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
	PhaseCancelled Phase = "cancelled"
)

// Terminal reports whether the phase ends a run. Terminal phases only
// change by starting a new run.
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed || p == PhaseCancelled
}

// State is the observable snapshot of one run. Snapshots are deep copies;
// observers can hold them across runs without seeing later mutations.
type State struct {
	RunID string
	Phase Phase
	// Log is the ordered, append-only sequence of agent thoughts. Frozen
	// once the run reaches a terminal phase.
	Log []events.AgentThought
	// FinalReport is set by the first final_report of the run; later
	// duplicates are ignored.
	FinalReport *events.FinalReport
	LastError   string
	// UnknownEvents counts payloads this client could not classify.
	UnknownEvents int
	// ImplicitEnd records that the stream closed without an explicit
	// terminal event and the run was treated as a clean completion.
	ImplicitEnd bool
}

// stateMachine owns the run state. All transitions go through it; every
// method is a no-op unless the current phase permits the transition, so
// events racing past a terminal transition are dropped rather than
// double-counted.
type stateMachine struct {
	mu    sync.Mutex
	state State
}

func newStateMachine() *stateMachine {
	return &stateMachine{state: State{Phase: PhaseIdle}}
}

// start resets to a fresh running state. Refused while a run is active.
func (m *stateMachine) start(runID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase == PhaseRunning {
		return false
	}
	m.state = State{RunID: runID, Phase: PhaseRunning}
	return true
}

// apply feeds one event through the machine, returning whether it changed
// state and whether it ended the run. The first terminal-capable event
// wins; everything after it is a no-op.
func (m *stateMachine) apply(event events.Event) (applied, terminal bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseRunning {
		return false, false
	}

	switch typed := event.(type) {
	case events.AgentThought:
		m.state.Log = append(m.state.Log, typed)
		return true, false

	case events.FinalReport:
		report := typed
		m.state.FinalReport = &report
		if report.Succeeded() {
			m.state.Phase = PhaseSucceeded
		} else {
			m.state.Phase = PhaseFailed
		}
		return true, true

	case events.RunError:
		m.state.LastError = typed.Message
		m.state.Phase = PhaseFailed
		return true, true

	case events.StreamEnd:
		m.state.Phase = PhaseSucceeded
		return true, true

	case events.Unknown:
		m.state.UnknownEvents++
		return true, false
	}

	return false, false
}

// fail records a transport-level failure. No-op once terminal.
func (m *stateMachine) fail(message string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseRunning {
		return false
	}
	m.state.LastError = message
	m.state.Phase = PhaseFailed
	return true
}

// cancel marks a user-requested cancellation. No-op once terminal.
func (m *stateMachine) cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseRunning {
		return false
	}
	m.state.Phase = PhaseCancelled
	return true
}

// finishSilently resolves a stream that closed without a terminal event.
// Absence of an explicit signal is not itself an error, so the run counts
// as a clean completion, flagged so callers can tell the two apart.
func (m *stateMachine) finishSilently() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseRunning {
		return false
	}
	m.state.Phase = PhaseSucceeded
	m.state.ImplicitEnd = true
	return true
}

// snapshot deep-copies the current state. Events are value types, so the
// copies only need fresh backing storage for the log, the history, and
// the nested validation payloads.
func (m *stateMachine) snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state
	snapshot.Log = make([]events.AgentThought, len(m.state.Log))
	for i, thought := range m.state.Log {
		thought.Validation = clonePayload(thought.Validation)
		snapshot.Log[i] = thought
	}
	if m.state.FinalReport != nil {
		report := *m.state.FinalReport
		report.Validation = clonePayload(report.Validation)
		report.History = slices.Clone(report.History)
		snapshot.FinalReport = &report
	}
	return snapshot
}

// clonePayload deep-copies a decoded JSON object, nested values included.
func clonePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	cloned := map[string]any{}
	copier.CopyWithOption(&cloned, &payload, copier.Option{DeepCopy: true})
	return cloned
}
