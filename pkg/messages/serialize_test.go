package messages

import (
	"encoding/json"
	"testing"

	gametypes "github.com/cbodonnell/wordlink/pkg/game/types"
)

func TestSerializeDeserializeMessage(t *testing.T) {
	payload, err := json.Marshal(&ServerGameUpdate{
		GameState: &gametypes.GameState{
			Players: []*gametypes.Player{
				{ID: "client-1", Name: "Alice", Score: 10},
			},
			CurrentPrompt: "wave",
			GameLog:       []string{"wave"},
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	tests := []struct {
		name    string
		msg     *Message
		wantErr bool
	}{
		{
			name: "game update",
			msg: &Message{
				ClientID: "",
				Type:     MessageTypeServerGameUpdate,
				Payload:  payload,
			},
			wantErr: false,
		},
		{
			name: "join game",
			msg: &Message{
				ClientID: "client-1",
				Type:     MessageTypeClientJoinGame,
				Payload:  json.RawMessage(`{"name":"Alice"}`),
			},
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := SerializeMessage(tt.msg)
			if (err != nil) != tt.wantErr {
				t.Errorf("SerializeMessage() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			got, err := DeserializeMessage(b)
			if (err != nil) != tt.wantErr {
				t.Errorf("DeserializeMessage() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if got.ClientID != tt.msg.ClientID || got.Type != tt.msg.Type {
				t.Errorf("DeserializeMessage() = %v, want %v", got, tt.msg)
			}
			if string(got.Payload) != string(tt.msg.Payload) {
				t.Errorf("DeserializeMessage() payload = %s, want %s", got.Payload, tt.msg.Payload)
			}
		})
	}
}

func TestDeserializeMessage_Garbage(t *testing.T) {
	if _, err := DeserializeMessage([]byte("not a zstd frame")); err == nil {
		t.Error("DeserializeMessage() expected error for garbage input")
	}
}
