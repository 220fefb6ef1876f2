package events

// KindStreamEnd identifies explicit stream closure by the pipeline.
const KindStreamEnd Kind = "stream_end"

// StreamEnd marks explicit stream closure.
type StreamEnd struct{ Base }

// NewStreamEnd creates a stream end event.
func NewStreamEnd() StreamEnd {
	return StreamEnd{Base: NewBase(KindStreamEnd)}
}
