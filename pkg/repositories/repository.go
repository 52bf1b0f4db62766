package repositories

import (
	"context"

	gametypes "github.com/cbodonnell/wordlink/pkg/game/types"
)

// Repository is a durable mirror of the in-memory game state.
// Writes are best-effort: the in-memory state stays authoritative and a
// failed write is never retried against it. LoadGameState is called once
// at startup to rehydrate.
type Repository interface {
	Close(ctx context.Context) error
	LoadGameState(ctx context.Context) (*gametypes.GameState, error)
	SaveGameState(ctx context.Context, gameState *gametypes.GameState) error
	SavePlayerState(ctx context.Context, player *gametypes.Player) error
	DeletePlayerState(ctx context.Context, clientID string) error
}
