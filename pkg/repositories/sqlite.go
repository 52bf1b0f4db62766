package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	gametypes "github.com/cbodonnell/wordlink/pkg/game/types"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository mirrors game state to a local SQLite database.
// Intended for development and single-node deployments.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at path and applies every
// migration in the migrations directory.
func NewSQLiteRepository(ctx context.Context, path string, migrations string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	dir, err := os.ReadDir(migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}

	for _, entry := range dir {
		if entry.IsDir() {
			continue
		}

		migrationPath := filepath.Join(migrations, entry.Name())
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}

		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			return nil, fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) LoadGameState(ctx context.Context) (*gametypes.GameState, error) {
	q := `
	SELECT current_prompt, players, game_log FROM game_state WHERE id = 1;
	`
	var currentPrompt string
	var playersJSON string
	var gameLogJSON string
	if err := r.db.QueryRowContext(ctx, q).Scan(&currentPrompt, &playersJSON, &gameLogJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan game state: %v", err)
	}

	players := []*gametypes.Player{}
	if err := json.Unmarshal([]byte(playersJSON), &players); err != nil {
		return nil, fmt.Errorf("failed to unmarshal players: %v", err)
	}

	gameLog := []string{}
	if err := json.Unmarshal([]byte(gameLogJSON), &gameLog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game log: %v", err)
	}

	return &gametypes.GameState{
		Players:       players,
		CurrentPrompt: currentPrompt,
		GameLog:       gameLog,
	}, nil
}

func (r *SQLiteRepository) SaveGameState(ctx context.Context, gameState *gametypes.GameState) error {
	playersJSON, err := json.Marshal(gameState.Players)
	if err != nil {
		return fmt.Errorf("failed to marshal players: %v", err)
	}

	gameLogJSON, err := json.Marshal(gameState.GameLog)
	if err != nil {
		return fmt.Errorf("failed to marshal game log: %v", err)
	}

	q := `
	INSERT OR REPLACE INTO game_state (id, current_prompt, players, game_log)
	VALUES (1, ?, ?, ?);
	`
	if _, err := r.db.ExecContext(ctx, q, gameState.CurrentPrompt, string(playersJSON), string(gameLogJSON)); err != nil {
		return fmt.Errorf("failed to upsert game state: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) SavePlayerState(ctx context.Context, player *gametypes.Player) error {
	q := `
	INSERT OR REPLACE INTO players (player_id, name, score)
	VALUES (?, ?, ?);
	`
	if _, err := r.db.ExecContext(ctx, q, player.ID, player.Name, player.Score); err != nil {
		return fmt.Errorf("failed to upsert player: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) DeletePlayerState(ctx context.Context, clientID string) error {
	q := `
	DELETE FROM players WHERE player_id = ?;
	`
	if _, err := r.db.ExecContext(ctx, q, clientID); err != nil {
		return fmt.Errorf("failed to delete player: %v", err)
	}

	return nil
}
