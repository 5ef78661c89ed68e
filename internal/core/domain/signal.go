package domain

import "encoding/json"

// SignalKind is a session-negotiation message type. The hub relays these
// without interpreting them.
type SignalKind string

const (
	SignalOffer        SignalKind = "offer"
	SignalAnswer       SignalKind = "answer"
	SignalIceCandidate SignalKind = "ice-candidate"
)

// PayloadField is the wire field carrying the negotiation body for this
// kind of signal.
func (k SignalKind) PayloadField() string {
	switch k {
	case SignalOffer:
		return "offer"
	case SignalAnswer:
		return "answer"
	default:
		return "candidate"
	}
}

// Signal is one negotiation message on its way to a peer. Payload is kept as
// raw JSON so relaying never alters the content.
type Signal struct {
	Kind    SignalKind
	From    ConnID
	Payload json.RawMessage
}

// Event shapes the signal for delivery: the payload verbatim under its own
// field, tagged with the sender.
func (s Signal) Event() Event {
	return Event{
		Name: string(s.Kind),
		Data: map[string]any{
			"from":                s.From.String(),
			s.Kind.PayloadField(): s.Payload,
		},
	}
}
