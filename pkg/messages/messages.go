package messages

import (
	"encoding/json"

	gametypes "github.com/cbodonnell/wordlink/pkg/game/types"
)

type MessageType string

// Message types
const (
	MessageTypeClientJoinGame    MessageType = "join-game"
	MessageTypeClientSubmitWord  MessageType = "submit-word"
	MessageTypeServerGameUpdate  MessageType = "update-game-state"
	MessageTypeServerInvalidWord MessageType = "invalid-word"
)

// Message represents a generic message for serialization/deserialization
type Message struct {
	ClientID string          `json:"clientID"`
	Type     MessageType     `json:"type"`
	Payload  json.RawMessage `json:"payload"`
}

// ClientJoinGame is sent by a client to join the session.
type ClientJoinGame struct {
	Name string `json:"name"`
}

// ClientSubmitWord is sent by a client to submit a candidate word.
// The API key is forwarded to the validation oracle; the server never
// stores it.
type ClientSubmitWord struct {
	Word   string `json:"word"`
	APIKey string `json:"apiKey"`
}

// ServerGameUpdate carries the authoritative game state snapshot.
type ServerGameUpdate struct {
	GameState *gametypes.GameState `json:"gameState"`
}

// ServerInvalidWord is sent to the submitting client only.
type ServerInvalidWord struct {
	Message string `json:"message"`
}
