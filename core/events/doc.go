// Package events defines the typed events of one optimization run.
//
// Event kinds mirror the wire discriminators emitted by the agent
// pipeline:
//
//   - AgentThought (agent_thought): one line of agent reasoning, attributed
//     to a speaker, possibly carrying the structure proposed so far.
//   - FinalReport (final_report): the terminal report compiled by the
//     synthesizer, with status, final structure, validation data and the
//     full history.
//   - RunError (error): the pipeline aborted and reported why.
//   - StreamEnd (stream_end): the pipeline closed the stream explicitly.
//   - Unknown (unknown): forward-compatibility fallback for payloads this
//     client does not recognize; carries the raw decoded object.
package events
