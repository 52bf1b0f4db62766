package game

import (
	"sync"

	"github.com/cbodonnell/wordlink/pkg/game/types"
)

// GameStore owns the authoritative game state for one session.
// All mutation goes through the store, and every method is atomic with
// respect to the others. Nothing outside the store ever holds a reference
// to the live state; readers get copies.
type GameStore struct {
	lock      sync.Mutex
	gameState *types.GameState
}

// NewGameStore creates a store with an empty game state.
func NewGameStore() *GameStore {
	return &GameStore{
		gameState: types.NewGameState(),
	}
}

// Rehydrate replaces the current state with one loaded from a repository.
// Intended to be called once at startup, before any events are processed.
func (s *GameStore) Rehydrate(gameState *types.GameState) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.gameState = gameState.Copy()
}

// Join appends a new player with a score of 0.
// It returns ErrDuplicateConnection if the connection ID is already present.
func (s *GameStore) Join(clientID string, name string) (*types.Player, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.gameState.GetPlayer(clientID) != nil {
		return nil, &ErrDuplicateConnection{ClientID: clientID}
	}

	player := &types.Player{
		ID:    clientID,
		Name:  name,
		Score: 0,
	}
	s.gameState.Players = append(s.gameState.Players, player)

	copy := *player
	return &copy, nil
}

// RecordSubmission appends the word to the game log.
// Every submission is recorded, before its validity is known, so the log
// is a complete audit trail of attempts.
func (s *GameStore) RecordSubmission(word string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.gameState.GameLog = append(s.gameState.GameLog, word)
}

// AcceptSubmission applies an accepted word: the word becomes the current
// prompt and the submitting player is awarded points. It returns
// ErrPlayerNotFound if the connection left while the submission was in
// flight.
func (s *GameStore) AcceptSubmission(clientID string, word string) (*types.Player, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	player := s.gameState.GetPlayer(clientID)
	if player == nil {
		return nil, &ErrPlayerNotFound{ClientID: clientID}
	}

	s.gameState.CurrentPrompt = word
	player.Score += types.ScoreIncrement

	copy := *player
	return &copy, nil
}

// Remove removes the player with the given connection ID.
// It returns ErrPlayerNotFound if the ID is not present, which callers
// are expected to absorb.
func (s *GameStore) Remove(clientID string) (*types.Player, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for i, p := range s.gameState.Players {
		if p.ID != clientID {
			continue
		}
		s.gameState.Players = append(s.gameState.Players[:i], s.gameState.Players[i+1:]...)
		copy := *p
		return &copy, nil
	}

	return nil, &ErrPlayerNotFound{ClientID: clientID}
}

// CurrentPrompt returns the prompt a submission will be validated against.
func (s *GameStore) CurrentPrompt() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.gameState.CurrentPrompt
}

// SetPrompt sets the current prompt without touching players or the log.
// Used when seeding a generated starting prompt.
func (s *GameStore) SetPrompt(prompt string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.gameState.CurrentPrompt = prompt
}

// Snapshot returns a deep copy of the current state for broadcast and
// persistence.
func (s *GameStore) Snapshot() *types.GameState {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.gameState.Copy()
}
