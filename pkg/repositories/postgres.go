package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	gametypes "github.com/cbodonnell/wordlink/pkg/game/types"
	"github.com/jackc/pgx/v5"
)

// PostgresRepository mirrors game state to a Postgres database.
type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository creates a new PostgresRepository.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (*PostgresRepository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) LoadGameState(ctx context.Context) (*gametypes.GameState, error) {
	q := `
	SELECT current_prompt, players, game_log FROM game_state WHERE id = 1;
	`
	var currentPrompt string
	var playersJSON []byte
	var gameLog []string
	if err := r.conn.QueryRow(ctx, q).Scan(&currentPrompt, &playersJSON, &gameLog); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan game state: %v", err)
	}

	players := []*gametypes.Player{}
	if err := json.Unmarshal(playersJSON, &players); err != nil {
		return nil, fmt.Errorf("failed to unmarshal players: %v", err)
	}

	if gameLog == nil {
		gameLog = []string{}
	}

	return &gametypes.GameState{
		Players:       players,
		CurrentPrompt: currentPrompt,
		GameLog:       gameLog,
	}, nil
}

func (r *PostgresRepository) SaveGameState(ctx context.Context, gameState *gametypes.GameState) error {
	playersJSON, err := json.Marshal(gameState.Players)
	if err != nil {
		return fmt.Errorf("failed to marshal players: %v", err)
	}

	q := `
	INSERT INTO game_state (id, current_prompt, players, game_log) VALUES (1, $1, $2, $3)
	ON CONFLICT (id) DO UPDATE SET current_prompt = $1, players = $2, game_log = $3;
	`
	if _, err := r.conn.Exec(ctx, q, gameState.CurrentPrompt, playersJSON, gameState.GameLog); err != nil {
		return fmt.Errorf("failed to upsert game state: %v", err)
	}

	return nil
}

func (r *PostgresRepository) SavePlayerState(ctx context.Context, player *gametypes.Player) error {
	q := `
	INSERT INTO players (player_id, name, score) VALUES ($1, $2, $3)
	ON CONFLICT (player_id) DO UPDATE SET name = $2, score = $3;
	`
	if _, err := r.conn.Exec(ctx, q, player.ID, player.Name, player.Score); err != nil {
		return fmt.Errorf("failed to upsert player: %v", err)
	}

	return nil
}

func (r *PostgresRepository) DeletePlayerState(ctx context.Context, clientID string) error {
	q := `
	DELETE FROM players WHERE player_id = $1;
	`
	if _, err := r.conn.Exec(ctx, q, clientID); err != nil {
		return fmt.Errorf("failed to delete player: %v", err)
	}

	return nil
}
