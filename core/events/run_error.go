package events

// KindRunError identifies a pipeline-reported failure.
const KindRunError Kind = "error"

// RunError means the pipeline aborted the run and reported why.
type RunError struct {
	Base
	Message string
}

// NewRunError creates a run error event.
func NewRunError(message string) RunError {
	return RunError{Base: NewBase(KindRunError), Message: message}
}

func (e RunError) String() string {
	return e.Message
}
