package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages a match socket carries
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypePromote   MessageType = "promote"
	MessageTypeGameMove  MessageType = "gameMove"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeResign    MessageType = "resign"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MovePayload asks to move the piece on From to To. Promotion may be set up
// front ("queen" or "Q"); when empty a pawn reaching the last rank waits for a
// promote message.
type MovePayload struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

type PromotePayload struct {
	Piece string `json:"piece"`
}

// GameMovePayload carries a move as notation, e.g. "Ng1f3".
type GameMovePayload struct {
	Notation string `json:"notation"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage wraps payload in an envelope of type t.
func NewMessage(t MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	return json.Unmarshal(m.Payload, v)
}
