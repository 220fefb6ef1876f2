package optimization

import "github.com/invopop/jsonschema"

// RequestSchema reflects the JSON schema of the run submission body.
// Exported so the wire contract can be diffed against the backend's
// request model when either side changes.
func RequestSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}
	return reflector.Reflect(Request{})
}
