package sse

import (
	"encoding/json"
	"fmt"

	"github.com/EmilioVenegas/hacknation-Falcon270/core/events"
)

// EncodeFrame renders an event as one wire frame, delimiter included.
// The inverse of ParseFrame; used by fakes and fixtures.
func EncodeFrame(event events.Event) (string, error) {
	var payload any

	switch typed := event.(type) {
	case events.AgentThought:
		message := typed.Message
		if typed.Speaker != "" && typed.Speaker != defaultSpeaker {
			message = typed.Speaker + ": " + typed.Message
		}
		body := map[string]any{
			"type":            string(events.KindAgentThought),
			"message":         message,
			"proposed_smiles": typed.ProposedStructure,
		}
		if typed.Validation != nil {
			body["validation_data"] = typed.Validation
		}
		payload = body

	case events.FinalReport:
		payload = map[string]any{
			"type": string(events.KindFinalReport),
			"data": map[string]any{
				"status":            string(typed.Status),
				"final_smiles":      typed.FinalStructure,
				"validation":        typed.Validation,
				"history":           typed.History,
				"attempts":          typed.Attempts,
				"executive_summary": typed.ExecutiveSummary,
			},
		}

	case events.RunError:
		payload = map[string]any{
			"type":    string(events.KindRunError),
			"message": typed.Message,
		}

	case events.StreamEnd:
		payload = map[string]any{"type": string(events.KindStreamEnd)}

	case events.Unknown:
		payload = typed.Raw

	default:
		return "", fmt.Errorf("unsupported event kind %q", event.Kind())
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshalling frame payload: %w", err)
	}
	return dataPrefix + string(encoded) + frameDelimiter, nil
}
