package optimization

import "github.com/EmilioVenegas/hacknation-Falcon270/core/events"

// callbackEmitter fans applied events out to whichever run callbacks were
// registered. Callbacks run on the read loop's goroutine; slow observers
// slow the run down rather than racing it.
type callbackEmitter struct {
	options runOptions
}

func (e callbackEmitter) event(event events.Event) {
	switch typedEvent := event.(type) {
	case events.AgentThought:
		if e.options.onThought != nil {
			e.options.onThought(typedEvent)
		}
	case events.FinalReport:
		if e.options.onReport != nil {
			e.options.onReport(typedEvent)
		}
	case events.RunError:
		if e.options.onRunError != nil {
			e.options.onRunError(typedEvent.Message)
		}
	case events.Unknown:
		if e.options.onUnknown != nil {
			e.options.onUnknown(typedEvent)
		}
	}
}

func (e callbackEmitter) phase(phase Phase) {
	if e.options.onPhase != nil {
		e.options.onPhase(phase)
	}
}

func (e callbackEmitter) snapshot(state State) {
	if e.options.onSnapshot != nil {
		e.options.onSnapshot(state)
	}
}
