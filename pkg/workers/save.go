package workers

import (
	"context"
	"time"

	gametypes "github.com/cbodonnell/wordlink/pkg/game/types"
	"github.com/cbodonnell/wordlink/pkg/log"
	"github.com/cbodonnell/wordlink/pkg/repositories"
)

type SaveRequestType string

const (
	SaveRequestTypePlayer       SaveRequestType = "player"
	SaveRequestTypeDeletePlayer SaveRequestType = "delete-player"
	SaveRequestTypeGameState    SaveRequestType = "game-state"
)

// SaveRequest asks the worker to mirror one mutation to the repository.
type SaveRequest struct {
	Type      SaveRequestType
	Player    *gametypes.Player
	ClientID  string
	GameState *gametypes.GameState
}

// Snapshotter provides a copy of the current game state for periodic saves.
type Snapshotter interface {
	Snapshot() *gametypes.GameState
}

type SaveGameStateWorker struct {
	repository  repositories.Repository
	saveChan    <-chan SaveRequest
	snapshotter Snapshotter
	interval    time.Duration
}

type NewSaveGameStateWorkerOptions struct {
	Repository  repositories.Repository
	SaveChan    <-chan SaveRequest
	Snapshotter Snapshotter
	Interval    time.Duration
}

// NewSaveGameStateWorker creates a new SaveGameStateWorker.
// The worker processes save requests from the session coordinator and
// periodically saves a full snapshot to the repository. Saves are
// best-effort: failures are logged and never propagated back to the
// in-memory state.
func NewSaveGameStateWorker(opts NewSaveGameStateWorkerOptions) *SaveGameStateWorker {
	return &SaveGameStateWorker{
		repository:  opts.Repository,
		saveChan:    opts.SaveChan,
		snapshotter: opts.Snapshotter,
		interval:    opts.Interval,
	}
}

func (w *SaveGameStateWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case saveRequest := <-w.saveChan:
			w.handleSaveRequest(ctx, saveRequest)
		case <-ticker.C:
			w.saveGameState(ctx, w.snapshotter.Snapshot())
		}
	}
}

func (w *SaveGameStateWorker) handleSaveRequest(ctx context.Context, saveRequest SaveRequest) {
	switch saveRequest.Type {
	case SaveRequestTypePlayer:
		if err := w.repository.SavePlayerState(ctx, saveRequest.Player); err != nil {
			log.Error("Failed to save player state: %v", err)
		}
	case SaveRequestTypeDeletePlayer:
		if err := w.repository.DeletePlayerState(ctx, saveRequest.ClientID); err != nil {
			log.Error("Failed to delete player state: %v", err)
		}
	case SaveRequestTypeGameState:
		w.saveGameState(ctx, saveRequest.GameState)
	default:
		log.Error("Unknown save request type: %s", saveRequest.Type)
	}
}

func (w *SaveGameStateWorker) saveGameState(ctx context.Context, gameState *gametypes.GameState) {
	if err := w.repository.SaveGameState(ctx, gameState); err != nil {
		log.Error("Failed to save game state: %v", err)
	}
}
