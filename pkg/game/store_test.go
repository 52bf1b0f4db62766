package game

import (
	"fmt"
	"testing"

	"github.com/cbodonnell/wordlink/pkg/game/types"
	"github.com/stretchr/testify/assert"
)

func TestGameStore_Join(t *testing.T) {
	t.Run("players are appended in join order", func(t *testing.T) {
		store := NewGameStore()

		for i := 0; i < 5; i++ {
			player, err := store.Join(fmt.Sprintf("client-%d", i), fmt.Sprintf("player-%d", i))
			assert.NoError(t, err)
			assert.Equal(t, 0, player.Score)
		}

		snapshot := store.Snapshot()
		assert.Len(t, snapshot.Players, 5)
		for i, p := range snapshot.Players {
			assert.Equal(t, fmt.Sprintf("client-%d", i), p.ID)
			assert.Equal(t, fmt.Sprintf("player-%d", i), p.Name)
		}
	})

	t.Run("duplicate connection is rejected", func(t *testing.T) {
		store := NewGameStore()

		_, err := store.Join("client-1", "Alice")
		assert.NoError(t, err)

		_, err = store.Join("client-1", "Alice again")
		assert.True(t, IsDuplicateConnection(err))
		assert.Len(t, store.Snapshot().Players, 1)
	})

	t.Run("same name with a new connection is a new player", func(t *testing.T) {
		store := NewGameStore()

		_, err := store.Join("client-1", "Alice")
		assert.NoError(t, err)
		_, err = store.Join("client-2", "Alice")
		assert.NoError(t, err)

		assert.Len(t, store.Snapshot().Players, 2)
	})
}

func TestGameStore_RecordSubmission(t *testing.T) {
	store := NewGameStore()

	store.RecordSubmission("wave")
	store.RecordSubmission("tide")
	store.RecordSubmission("wave")

	snapshot := store.Snapshot()
	assert.Equal(t, []string{"wave", "tide", "wave"}, snapshot.GameLog)
	assert.Equal(t, "", snapshot.CurrentPrompt)
}

func TestGameStore_AcceptSubmission(t *testing.T) {
	t.Run("accepted word becomes the prompt and awards points", func(t *testing.T) {
		store := NewGameStore()
		store.SetPrompt("ocean")
		_, err := store.Join("client-1", "Alice")
		assert.NoError(t, err)

		player, err := store.AcceptSubmission("client-1", "wave")
		assert.NoError(t, err)
		assert.Equal(t, types.ScoreIncrement, player.Score)

		snapshot := store.Snapshot()
		assert.Equal(t, "wave", snapshot.CurrentPrompt)
		assert.Equal(t, types.ScoreIncrement, snapshot.Players[0].Score)
	})

	t.Run("repeated acceptance accumulates score", func(t *testing.T) {
		store := NewGameStore()
		_, err := store.Join("client-1", "Alice")
		assert.NoError(t, err)

		_, err = store.AcceptSubmission("client-1", "wave")
		assert.NoError(t, err)
		player, err := store.AcceptSubmission("client-1", "surf")
		assert.NoError(t, err)

		assert.Equal(t, 2*types.ScoreIncrement, player.Score)
		assert.Equal(t, "surf", store.Snapshot().CurrentPrompt)
	})

	t.Run("player that left mid-flight is not found", func(t *testing.T) {
		store := NewGameStore()
		store.SetPrompt("ocean")
		_, err := store.Join("client-1", "Alice")
		assert.NoError(t, err)
		_, err = store.Remove("client-1")
		assert.NoError(t, err)

		_, err = store.AcceptSubmission("client-1", "wave")
		assert.True(t, IsPlayerNotFound(err))
		// the prompt does not move for a player that is gone
		assert.Equal(t, "ocean", store.Snapshot().CurrentPrompt)
	})
}

func TestGameStore_Remove(t *testing.T) {
	t.Run("removes the player and preserves order", func(t *testing.T) {
		store := NewGameStore()
		for i := 0; i < 3; i++ {
			_, err := store.Join(fmt.Sprintf("client-%d", i), fmt.Sprintf("player-%d", i))
			assert.NoError(t, err)
		}

		player, err := store.Remove("client-1")
		assert.NoError(t, err)
		assert.Equal(t, "player-1", player.Name)

		snapshot := store.Snapshot()
		assert.Len(t, snapshot.Players, 2)
		assert.Equal(t, "client-0", snapshot.Players[0].ID)
		assert.Equal(t, "client-2", snapshot.Players[1].ID)
	})

	t.Run("removing twice is tolerated", func(t *testing.T) {
		store := NewGameStore()
		_, err := store.Join("client-1", "Alice")
		assert.NoError(t, err)

		_, err = store.Remove("client-1")
		assert.NoError(t, err)
		_, err = store.Remove("client-1")
		assert.True(t, IsPlayerNotFound(err))
	})
}

func TestGameStore_Snapshot(t *testing.T) {
	t.Run("snapshot is decoupled from later mutation", func(t *testing.T) {
		store := NewGameStore()
		_, err := store.Join("client-1", "Alice")
		assert.NoError(t, err)
		store.SetPrompt("ocean")
		store.RecordSubmission("wave")

		snapshot := store.Snapshot()

		_, err = store.AcceptSubmission("client-1", "wave")
		assert.NoError(t, err)
		store.RecordSubmission("tide")

		assert.Equal(t, "ocean", snapshot.CurrentPrompt)
		assert.Equal(t, 0, snapshot.Players[0].Score)
		assert.Equal(t, []string{"wave"}, snapshot.GameLog)
	})
}

func TestGameStore_Rehydrate(t *testing.T) {
	store := NewGameStore()
	store.Rehydrate(&types.GameState{
		Players: []*types.Player{
			{ID: "client-1", Name: "Alice", Score: 30},
		},
		CurrentPrompt: "ocean",
		GameLog:       []string{"reef", "ocean"},
	})

	snapshot := store.Snapshot()
	assert.Equal(t, "ocean", snapshot.CurrentPrompt)
	assert.Equal(t, []string{"reef", "ocean"}, snapshot.GameLog)
	assert.Len(t, snapshot.Players, 1)
	assert.Equal(t, 30, snapshot.Players[0].Score)
}
