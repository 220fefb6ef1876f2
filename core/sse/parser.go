package sse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/EmilioVenegas/hacknation-Falcon270/core/events"
)

// defaultSpeaker attributes history lines that name no agent.
const defaultSpeaker = "System"

// envelope is the wire shape shared by every frame payload. Which fields
// are populated depends on the type discriminator.
type envelope struct {
	Type           string          `json:"type"`
	Message        string          `json:"message"`
	ProposedSmiles string          `json:"proposed_smiles"`
	ValidationData map[string]any  `json:"validation_data"`
	Data           json.RawMessage `json:"data"`
}

// reportPayload is the data field of a final_report frame.
type reportPayload struct {
	Status           string         `json:"status"`
	FinalSmiles      string         `json:"final_smiles"`
	Validation       map[string]any `json:"validation"`
	History          []string       `json:"history"`
	Attempts         int            `json:"attempts"`
	ExecutiveSummary string         `json:"executive_summary"`
}

// ParseFrame decodes one frame into a typed run event. A returned error
// means the frame is unusable; callers drop it and keep reading the
// stream. An unrecognized type discriminator is not an error, it degrades
// to events.Unknown.
func ParseFrame(frame RawFrame) (events.Event, error) {
	payload := framePayload(frame)

	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return nil, fmt.Errorf("undecodable frame payload: %w", err)
	}

	switch events.Kind(env.Type) {
	case events.KindAgentThought:
		speaker, message := splitSpeaker(env.Message)
		thought := events.NewAgentThought(speaker, message)
		thought.ProposedStructure = env.ProposedSmiles
		thought.Validation = env.ValidationData
		return thought, nil

	case events.KindFinalReport:
		var body reportPayload
		if err := json.Unmarshal(env.Data, &body); err != nil {
			return nil, fmt.Errorf("undecodable final report payload: %w", err)
		}
		status := events.StatusFailure
		if body.Status == string(events.StatusSuccess) {
			status = events.StatusSuccess
		}
		report := events.NewFinalReport(status, body.FinalSmiles)
		report.Validation = body.Validation
		report.History = body.History
		report.Attempts = body.Attempts
		report.ExecutiveSummary = body.ExecutiveSummary
		return report, nil

	case events.KindRunError:
		return events.NewRunError(env.Message), nil

	case events.KindStreamEnd:
		return events.NewStreamEnd(), nil

	default:
		raw := map[string]any{}
		// Already known to be valid JSON; a non-object payload simply
		// leaves the map empty.
		_ = json.Unmarshal([]byte(payload), &raw)
		return events.NewUnknown(raw), nil
	}
}

// framePayload strips the data prefix from each retained line and rejoins
// them into the JSON payload.
func framePayload(frame RawFrame) string {
	lines := strings.Split(string(frame), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, dataPrefix)
	}
	return strings.Join(lines, "\n")
}

// splitSpeaker pulls the agent name off a history line. Lines look like
// "Designer (Attempt 3): Proposed CCO"; anything without a ": " separator
// is attributed to the default speaker. The rule is heuristic: a message
// body containing ": " moves the split point, which matches how the
// pipeline formats its history lines.
func splitSpeaker(raw string) (speaker, message string) {
	head, rest, found := strings.Cut(raw, ": ")
	if !found {
		return defaultSpeaker, raw
	}
	if name, _, hasAttempt := strings.Cut(head, " ("); hasAttempt {
		head = name
	}
	return strings.TrimSpace(head), rest
}
