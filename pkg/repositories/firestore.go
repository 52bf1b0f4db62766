package repositories

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	gametypes "github.com/cbodonnell/wordlink/pkg/game/types"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	sessionsCollection = "sessions"
	playersCollection  = "players"
	// sessionDocID is the fixed key for the single session state document.
	sessionDocID = "current"
)

// FirestoreRepository mirrors game state to a Firestore project.
// The full state lives in a single session document; players are
// additionally mirrored to per-connection documents.
type FirestoreRepository struct {
	client *firestore.Client
}

type NewFirestoreRepositoryOptions struct {
	ProjectID string
	// CredentialsFile is an optional path to a service account key.
	// When empty, application default credentials are used.
	CredentialsFile string
}

// NewFirestoreRepository creates a new FirestoreRepository.
// The caller is responsible for calling Close() on the repository.
func NewFirestoreRepository(ctx context.Context, opts NewFirestoreRepositoryOptions) (*FirestoreRepository, error) {
	cfg := &firebase.Config{
		ProjectID: opts.ProjectID,
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, cfg, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %v", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firestore client: %v", err)
	}

	return &FirestoreRepository{
		client: client,
	}, nil
}

func (r *FirestoreRepository) Close(ctx context.Context) error {
	return r.client.Close()
}

func (r *FirestoreRepository) LoadGameState(ctx context.Context) (*gametypes.GameState, error) {
	doc, err := r.client.Collection(sessionsCollection).Doc(sessionDocID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to get session document: %v", err)
	}

	gameState := &gametypes.GameState{}
	if err := doc.DataTo(gameState); err != nil {
		return nil, fmt.Errorf("failed to decode session document: %v", err)
	}

	return gameState, nil
}

func (r *FirestoreRepository) SaveGameState(ctx context.Context, gameState *gametypes.GameState) error {
	if _, err := r.client.Collection(sessionsCollection).Doc(sessionDocID).Set(ctx, gameState); err != nil {
		return fmt.Errorf("failed to set session document: %v", err)
	}

	return nil
}

func (r *FirestoreRepository) SavePlayerState(ctx context.Context, player *gametypes.Player) error {
	if _, err := r.client.Collection(playersCollection).Doc(player.ID).Set(ctx, player); err != nil {
		return fmt.Errorf("failed to set player document: %v", err)
	}

	return nil
}

func (r *FirestoreRepository) DeletePlayerState(ctx context.Context, clientID string) error {
	if _, err := r.client.Collection(playersCollection).Doc(clientID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete player document: %v", err)
	}

	return nil
}
