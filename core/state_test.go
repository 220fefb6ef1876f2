package optimization

import (
	"testing"

	"github.com/EmilioVenegas/hacknation-Falcon270/core/events"
)

func TestEventsBeforeStartAreDropped(t *testing.T) {
	machine := newStateMachine()

	applied, terminal := machine.apply(events.NewAgentThought("Designer", "hello"))
	if applied || terminal {
		t.Fatal("expected events in the idle phase to be dropped")
	}
	if got := machine.snapshot(); got.Phase != PhaseIdle || len(got.Log) != 0 {
		t.Fatalf("idle state mutated: %+v", got)
	}
}

func TestThoughtsAppendWithoutDeduplication(t *testing.T) {
	machine := newStateMachine()
	machine.start("run-1")

	thought := events.NewAgentThought("Designer", "same line")
	machine.apply(thought)
	machine.apply(events.NewAgentThought("Validator", "other line"))
	machine.apply(thought)

	got := machine.snapshot()
	if len(got.Log) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(got.Log))
	}
	if got.Log[0].Message != "same line" || got.Log[1].Speaker != "Validator" || got.Log[2].Message != "same line" {
		t.Fatalf("log order not preserved: %+v", got.Log)
	}
	if got.Phase != PhaseRunning {
		t.Fatalf("thoughts must not change the phase, got %s", got.Phase)
	}
}

func TestFinalReportSetsPhaseByStatus(t *testing.T) {
	for _, c := range []struct {
		status events.ReportStatus
		phase  Phase
	}{
		{events.StatusSuccess, PhaseSucceeded},
		{events.StatusFailure, PhaseFailed},
	} {
		machine := newStateMachine()
		machine.start("run-1")

		applied, terminal := machine.apply(events.NewFinalReport(c.status, "CCN"))
		if !applied || !terminal {
			t.Fatalf("%s: expected an applied terminal transition", c.status)
		}
		got := machine.snapshot()
		if got.Phase != c.phase {
			t.Fatalf("%s: expected phase %s, got %s", c.status, c.phase, got.Phase)
		}
		if got.FinalReport == nil || got.FinalReport.FinalStructure != "CCN" {
			t.Fatalf("%s: report not stored: %+v", c.status, got.FinalReport)
		}
	}
}

func TestFirstTerminalEventWins(t *testing.T) {
	machine := newStateMachine()
	machine.start("run-1")

	machine.apply(events.NewFinalReport(events.StatusSuccess, "CCN"))

	if applied, _ := machine.apply(events.NewFinalReport(events.StatusFailure, "XXX")); applied {
		t.Fatal("expected a duplicate final report to be ignored")
	}
	if applied, _ := machine.apply(events.NewRunError("late error")); applied {
		t.Fatal("expected a late error to be ignored")
	}
	if applied, _ := machine.apply(events.NewAgentThought("Designer", "late thought")); applied {
		t.Fatal("expected the log to freeze after the terminal transition")
	}

	got := machine.snapshot()
	if got.Phase != PhaseSucceeded || got.FinalReport.FinalStructure != "CCN" || got.LastError != "" {
		t.Fatalf("terminal state mutated: %+v", got)
	}
}

func TestRunErrorFailsTheRun(t *testing.T) {
	machine := newStateMachine()
	machine.start("run-1")

	applied, terminal := machine.apply(events.NewRunError("boom"))
	if !applied || !terminal {
		t.Fatal("expected an applied terminal transition")
	}
	got := machine.snapshot()
	if got.Phase != PhaseFailed || got.LastError != "boom" {
		t.Fatalf("unexpected failure state: %+v", got)
	}
}

func TestStreamEndSucceedsTheRun(t *testing.T) {
	machine := newStateMachine()
	machine.start("run-1")

	if _, terminal := machine.apply(events.NewStreamEnd()); !terminal {
		t.Fatal("expected stream end to be terminal")
	}
	if got := machine.snapshot(); got.Phase != PhaseSucceeded {
		t.Fatalf("expected succeeded, got %s", got.Phase)
	}
}

func TestUnknownEventsAreCountedOnly(t *testing.T) {
	machine := newStateMachine()
	machine.start("run-1")

	applied, terminal := machine.apply(events.NewUnknown(map[string]any{"type": "telemetry"}))
	if !applied || terminal {
		t.Fatal("expected unknown events to be recorded without ending the run")
	}
	got := machine.snapshot()
	if got.UnknownEvents != 1 || got.Phase != PhaseRunning {
		t.Fatalf("unexpected state after unknown event: %+v", got)
	}
}

func TestStartRebuildsState(t *testing.T) {
	machine := newStateMachine()
	machine.start("run-1")
	machine.apply(events.NewAgentThought("Designer", "hello"))
	machine.apply(events.NewRunError("boom"))

	if !machine.start("run-2") {
		t.Fatal("expected start from a terminal phase to be allowed")
	}
	got := machine.snapshot()
	if got.RunID != "run-2" || got.Phase != PhaseRunning {
		t.Fatalf("unexpected restarted state: %+v", got)
	}
	if len(got.Log) != 0 || got.LastError != "" || got.FinalReport != nil {
		t.Fatalf("state leaked across runs: %+v", got)
	}
}

func TestStartRefusedWhileRunning(t *testing.T) {
	machine := newStateMachine()
	machine.start("run-1")

	if machine.start("run-2") {
		t.Fatal("expected start to be refused while running")
	}
}

func TestFinishSilentlyOnlyFromRunning(t *testing.T) {
	machine := newStateMachine()
	machine.start("run-1")

	if !machine.finishSilently() {
		t.Fatal("expected a silent close to resolve a running state")
	}
	got := machine.snapshot()
	if got.Phase != PhaseSucceeded || !got.ImplicitEnd {
		t.Fatalf("unexpected silent-close state: %+v", got)
	}

	if machine.finishSilently() {
		t.Fatal("expected a second silent close to be a no-op")
	}
}

func TestCancelOnlyFromRunning(t *testing.T) {
	machine := newStateMachine()
	if machine.cancel() {
		t.Fatal("expected cancel before start to be a no-op")
	}

	machine.start("run-1")
	if !machine.cancel() {
		t.Fatal("expected cancel to take effect while running")
	}
	if got := machine.snapshot(); got.Phase != PhaseCancelled {
		t.Fatalf("expected cancelled, got %s", got.Phase)
	}
	if machine.cancel() {
		t.Fatal("expected a second cancel to be a no-op")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	machine := newStateMachine()
	machine.start("run-1")

	thought := events.NewAgentThought("Validator", "measured")
	thought.Validation = map[string]any{"logp": 1.2}
	machine.apply(thought)

	snapshot := machine.snapshot()
	snapshot.Log[0].Validation["logp"] = 99.0
	snapshot.Log = append(snapshot.Log, events.NewAgentThought("Designer", "injected"))

	fresh := machine.snapshot()
	if len(fresh.Log) != 1 {
		t.Fatalf("snapshot mutation leaked into the machine: %d entries", len(fresh.Log))
	}
	if logp := fresh.Log[0].Validation["logp"]; logp != 1.2 {
		t.Fatalf("snapshot map shared with the machine: logp = %v", logp)
	}
}
