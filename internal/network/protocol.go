package network

import "encoding/json"

// Message is the envelope for all traffic in both directions. Type routes
// the message; Payload is kept raw so each handler decodes only the shape
// it expects.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload into an envelope.
func NewMessage(msgType string, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// TypeError is the envelope type for rejected requests. Only the caller
// sees rejections; other clients only ever see the documented game events.
const TypeError = "error"

// ErrorMessage is the payload of a TypeError envelope.
type ErrorMessage struct {
	Message string `json:"message"`
}

// NewErrorMessage builds a rejection envelope.
func NewErrorMessage(text string) Message {
	raw, _ := json.Marshal(ErrorMessage{Message: text})
	return Message{Type: TypeError, Payload: raw}
}
