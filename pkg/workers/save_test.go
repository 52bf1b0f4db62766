package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	gametypes "github.com/cbodonnell/wordlink/pkg/game/types"
	"github.com/stretchr/testify/assert"
)

type recordingRepository struct {
	lock           sync.Mutex
	savedPlayers   []*gametypes.Player
	deletedPlayers []string
	savedStates    []*gametypes.GameState
	err            error
	saved          chan struct{}
}

func newRecordingRepository(err error) *recordingRepository {
	return &recordingRepository{
		err:   err,
		saved: make(chan struct{}, 16),
	}
}

func (r *recordingRepository) Close(ctx context.Context) error { return nil }

func (r *recordingRepository) LoadGameState(ctx context.Context) (*gametypes.GameState, error) {
	return nil, nil
}

func (r *recordingRepository) SaveGameState(ctx context.Context, gameState *gametypes.GameState) error {
	r.lock.Lock()
	r.savedStates = append(r.savedStates, gameState)
	r.lock.Unlock()
	r.saved <- struct{}{}
	return r.err
}

func (r *recordingRepository) SavePlayerState(ctx context.Context, player *gametypes.Player) error {
	r.lock.Lock()
	r.savedPlayers = append(r.savedPlayers, player)
	r.lock.Unlock()
	r.saved <- struct{}{}
	return r.err
}

func (r *recordingRepository) DeletePlayerState(ctx context.Context, clientID string) error {
	r.lock.Lock()
	r.deletedPlayers = append(r.deletedPlayers, clientID)
	r.lock.Unlock()
	r.saved <- struct{}{}
	return r.err
}

type staticSnapshotter struct {
	gameState *gametypes.GameState
}

func (s *staticSnapshotter) Snapshot() *gametypes.GameState {
	return s.gameState
}

func waitSaved(t *testing.T, repo *recordingRepository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-repo.saved:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for save")
		}
	}
}

func TestSaveGameStateWorker(t *testing.T) {
	t.Run("mirrors save requests to the repository", func(t *testing.T) {
		repo := newRecordingRepository(nil)
		saveChan := make(chan SaveRequest, 16)
		worker := NewSaveGameStateWorker(NewSaveGameStateWorkerOptions{
			Repository:  repo,
			SaveChan:    saveChan,
			Snapshotter: &staticSnapshotter{gameState: gametypes.NewGameState()},
			Interval:    time.Hour,
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go worker.Start(ctx)

		saveChan <- SaveRequest{Type: SaveRequestTypePlayer, Player: &gametypes.Player{ID: "client-1", Name: "Alice"}}
		saveChan <- SaveRequest{Type: SaveRequestTypeDeletePlayer, ClientID: "client-2"}
		saveChan <- SaveRequest{Type: SaveRequestTypeGameState, GameState: &gametypes.GameState{CurrentPrompt: "wave"}}
		waitSaved(t, repo, 3)

		repo.lock.Lock()
		defer repo.lock.Unlock()
		assert.Len(t, repo.savedPlayers, 1)
		assert.Equal(t, "client-1", repo.savedPlayers[0].ID)
		assert.Equal(t, []string{"client-2"}, repo.deletedPlayers)
		assert.Len(t, repo.savedStates, 1)
		assert.Equal(t, "wave", repo.savedStates[0].CurrentPrompt)
	})

	t.Run("repository failures do not stop the worker", func(t *testing.T) {
		repo := newRecordingRepository(assert.AnError)
		saveChan := make(chan SaveRequest, 16)
		worker := NewSaveGameStateWorker(NewSaveGameStateWorkerOptions{
			Repository:  repo,
			SaveChan:    saveChan,
			Snapshotter: &staticSnapshotter{gameState: gametypes.NewGameState()},
			Interval:    time.Hour,
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go worker.Start(ctx)

		saveChan <- SaveRequest{Type: SaveRequestTypePlayer, Player: &gametypes.Player{ID: "client-1"}}
		saveChan <- SaveRequest{Type: SaveRequestTypePlayer, Player: &gametypes.Player{ID: "client-2"}}
		waitSaved(t, repo, 2)

		repo.lock.Lock()
		defer repo.lock.Unlock()
		assert.Len(t, repo.savedPlayers, 2)
	})

	t.Run("periodically saves a snapshot", func(t *testing.T) {
		repo := newRecordingRepository(nil)
		saveChan := make(chan SaveRequest, 16)
		worker := NewSaveGameStateWorker(NewSaveGameStateWorkerOptions{
			Repository:  repo,
			SaveChan:    saveChan,
			Snapshotter: &staticSnapshotter{gameState: &gametypes.GameState{CurrentPrompt: "ocean"}},
			Interval:    10 * time.Millisecond,
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go worker.Start(ctx)

		waitSaved(t, repo, 1)

		repo.lock.Lock()
		defer repo.lock.Unlock()
		assert.Equal(t, "ocean", repo.savedStates[0].CurrentPrompt)
	})
}
