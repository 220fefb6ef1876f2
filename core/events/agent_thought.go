package events

// KindAgentThought identifies one streamed line of agent reasoning.
const KindAgentThought Kind = "agent_thought"

// AgentThought carries one line of agent reasoning. Speaker is the agent
// the line is attributed to ("Designer", "Validator", ...); lines without
// an attribution belong to "System".
type AgentThought struct {
	Base
	Speaker string
	Message string
	// ProposedStructure is the candidate structure at the time the
	// thought was emitted, when the pipeline included one.
	ProposedStructure string
	// Validation holds property measurements attached to the thought,
	// keyed the way the pipeline reports them (logp, mw, tpsa, qed, ...).
	Validation map[string]any
}

// NewAgentThought creates an agent thought event.
func NewAgentThought(speaker, message string) AgentThought {
	return AgentThought{Base: NewBase(KindAgentThought), Speaker: speaker, Message: message}
}

func (t AgentThought) String() string {
	if t.Speaker == "" {
		return t.Message
	}
	return t.Speaker + ": " + t.Message
}
