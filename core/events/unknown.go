package events

// KindUnknown identifies payloads this client does not recognize.
const KindUnknown Kind = "unknown"

// Unknown carries a decoded payload whose type discriminator this client
// does not know. Never fatal; newer backends may emit kinds this client
// predates.
type Unknown struct {
	Base
	Raw map[string]any
}

// NewUnknown creates an unknown event wrapping the raw decoded payload.
func NewUnknown(raw map[string]any) Unknown {
	return Unknown{Base: NewBase(KindUnknown), Raw: raw}
}
