package types

// ScoreIncrement is the number of points awarded for an accepted submission.
const ScoreIncrement = 10

// Player represents a connected player.
// The ID is the opaque connection identifier assigned when the underlying
// connection was established. Reconnecting yields a new Player even when
// the name is reused.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// GameState is the authoritative state of a running session.
// Players preserves join order. GameLog is append-only and records every
// submitted word, accepted or not.
type GameState struct {
	Players       []*Player `json:"players"`
	CurrentPrompt string    `json:"currentPrompt"`
	GameLog       []string  `json:"gameLog"`
}

// NewGameState returns an empty game state.
func NewGameState() *GameState {
	return &GameState{
		Players: []*Player{},
		GameLog: []string{},
	}
}

// Copy returns a deep copy of the game state.
// Broadcast and persistence operate on copies so in-flight I/O never
// observes a later mutation.
func (s *GameState) Copy() *GameState {
	copy := &GameState{
		Players:       make([]*Player, 0, len(s.Players)),
		CurrentPrompt: s.CurrentPrompt,
		GameLog:       make([]string, len(s.GameLog)),
	}
	for _, p := range s.Players {
		copy.Players = append(copy.Players, &Player{
			ID:    p.ID,
			Name:  p.Name,
			Score: p.Score,
		})
	}
	for i, w := range s.GameLog {
		copy.GameLog[i] = w
	}
	return copy
}

// GetPlayer returns the player with the given connection ID, or nil.
func (s *GameState) GetPlayer(clientID string) *Player {
	for _, p := range s.Players {
		if p.ID == clientID {
			return p
		}
	}
	return nil
}
