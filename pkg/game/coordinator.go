package game

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/wordlink/pkg/game/types"
	"github.com/cbodonnell/wordlink/pkg/log"
	"github.com/cbodonnell/wordlink/pkg/messages"
	"github.com/cbodonnell/wordlink/pkg/oracle"
	"github.com/cbodonnell/wordlink/pkg/queue"
	"github.com/cbodonnell/wordlink/pkg/repositories"
	"github.com/cbodonnell/wordlink/pkg/workers"
)

const (
	invalidWordMessage       = "Invalid word association!"
	missingWordMessage       = "A word is required."
	missingCredentialMessage = "API key is required."
)

// Coordinator drives one game session. It drains the event queue on a
// fixed interval and applies events to the store one at a time, so store
// mutations happen in event-arrival order.
//
// Submissions are the exception: once the word is logged and the current
// prompt read, validation runs in its own goroutine and the accept (or
// rejection notice) lands whenever the oracle answers. Two in-flight
// submissions can both validate against the same prompt and both score,
// with the later response winning the prompt.
type Coordinator struct {
	store         *GameStore
	eventQueue    queue.Queue
	oracle        oracle.Oracle
	repository    repositories.Repository
	saveChan      chan<- workers.SaveRequest
	broadcastChan chan<- workers.BroadcastMessage
	loopInterval  time.Duration
	oracleTimeout time.Duration
}

type NewCoordinatorOptions struct {
	Store         *GameStore
	EventQueue    queue.Queue
	Oracle        oracle.Oracle
	Repository    repositories.Repository
	SaveChan      chan<- workers.SaveRequest
	BroadcastChan chan<- workers.BroadcastMessage
	LoopInterval  time.Duration
	OracleTimeout time.Duration
}

func NewCoordinator(opts NewCoordinatorOptions) *Coordinator {
	return &Coordinator{
		store:         opts.Store,
		eventQueue:    opts.EventQueue,
		oracle:        opts.Oracle,
		repository:    opts.Repository,
		saveChan:      opts.SaveChan,
		broadcastChan: opts.BroadcastChan,
		loopInterval:  opts.LoopInterval,
		oracleTimeout: opts.OracleTimeout,
	}
}

// Start rehydrates the game state from the repository and runs the event
// loop until the context is cancelled.
func (c *Coordinator) Start(ctx context.Context) error {
	if err := c.rehydrate(ctx); err != nil {
		return fmt.Errorf("failed to rehydrate game state: %v", err)
	}

	ticker := time.NewTicker(c.loopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.processEvents(ctx)
		}
	}
}

func (c *Coordinator) rehydrate(ctx context.Context) error {
	gameState, err := c.repository.LoadGameState(ctx)
	if err != nil {
		if repositories.IsNotFound(err) {
			log.Info("No saved game state, starting fresh")
			return nil
		}
		return err
	}

	c.store.Rehydrate(gameState)
	log.Info("Rehydrated game state with %d players", len(gameState.Players))
	return nil
}

// processEvents drains the event queue and applies each event in
// arrival order.
func (c *Coordinator) processEvents(ctx context.Context) {
	pendingEvents, err := c.eventQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read events: %v", err)
		return
	}
	for _, item := range pendingEvents {
		switch event := item.(type) {
		case *types.JoinGameEvent:
			c.handleJoinGame(event)
		case *types.SubmitWordEvent:
			c.handleSubmitWord(ctx, event)
		case *types.DisconnectPlayerEvent:
			c.handleDisconnectPlayer(event)
		case *types.SeedPromptEvent:
			c.handleSeedPrompt(event)
		default:
			log.Error("Unhandled event type: %T", event)
		}
	}
}

func (c *Coordinator) handleJoinGame(event *types.JoinGameEvent) {
	player, err := c.store.Join(event.ClientID, event.Name)
	if err != nil {
		if IsDuplicateConnection(err) {
			log.Warn("Client %s already joined, ignoring", event.ClientID)
			return
		}
		log.Error("Failed to join client %s: %v", event.ClientID, err)
		return
	}
	log.Debug("Player %s joined as %s", player.ID, player.Name)

	snapshot := c.store.Snapshot()
	c.saveChan <- workers.SaveRequest{Type: workers.SaveRequestTypePlayer, Player: player}
	c.saveChan <- workers.SaveRequest{Type: workers.SaveRequestTypeGameState, GameState: snapshot}
	c.broadcastGameState(snapshot)
}

// handleSubmitWord records the attempt and hands the word to the oracle.
// The read of the current prompt happens here, so a submission that
// resolves later is judged against the prompt as it was at submission
// time, not at resolution time.
func (c *Coordinator) handleSubmitWord(ctx context.Context, event *types.SubmitWordEvent) {
	if event.Word == "" {
		c.sendInvalidWord(event.ClientID, missingWordMessage)
		return
	}
	if event.APIKey == "" {
		c.sendInvalidWord(event.ClientID, missingCredentialMessage)
		return
	}

	c.store.RecordSubmission(event.Word)
	prior := c.store.CurrentPrompt()

	go c.resolveSubmission(ctx, event, prior)
}

func (c *Coordinator) resolveSubmission(ctx context.Context, event *types.SubmitWordEvent, prior string) {
	ctx, cancel := context.WithTimeout(ctx, c.oracleTimeout)
	defer cancel()

	valid, err := c.oracle.ValidateAssociation(ctx, prior, event.Word, event.APIKey)
	if err != nil {
		// an unavailable oracle looks like a rejection to the client
		log.Error("Validation error for client %s: %v", event.ClientID, err)
		c.sendInvalidWord(event.ClientID, invalidWordMessage)
		return
	}
	if !valid {
		c.sendInvalidWord(event.ClientID, invalidWordMessage)
		return
	}

	player, err := c.store.AcceptSubmission(event.ClientID, event.Word)
	if err != nil {
		if IsPlayerNotFound(err) {
			log.Warn("Client %s left before submission resolved", event.ClientID)
			return
		}
		log.Error("Failed to accept submission for client %s: %v", event.ClientID, err)
		return
	}
	log.Debug("Player %s scored with %q", player.ID, event.Word)

	snapshot := c.store.Snapshot()
	c.saveChan <- workers.SaveRequest{Type: workers.SaveRequestTypePlayer, Player: player}
	c.saveChan <- workers.SaveRequest{Type: workers.SaveRequestTypeGameState, GameState: snapshot}
	c.broadcastGameState(snapshot)
}

func (c *Coordinator) handleDisconnectPlayer(event *types.DisconnectPlayerEvent) {
	player, err := c.store.Remove(event.ClientID)
	if err == nil {
		log.Debug("Player %s (%s) disconnected", player.ID, player.Name)
		c.saveChan <- workers.SaveRequest{Type: workers.SaveRequestTypeDeletePlayer, ClientID: event.ClientID}
		c.saveChan <- workers.SaveRequest{Type: workers.SaveRequestTypeGameState, GameState: c.store.Snapshot()}
	} else if !IsPlayerNotFound(err) {
		log.Error("Failed to remove client %s: %v", event.ClientID, err)
	}

	// remaining participants always see the post-disconnect state,
	// even when the connection never joined
	c.broadcastGameState(c.store.Snapshot())
}

func (c *Coordinator) handleSeedPrompt(event *types.SeedPromptEvent) {
	c.store.SetPrompt(event.Prompt)
	c.saveChan <- workers.SaveRequest{Type: workers.SaveRequestTypeGameState, GameState: c.store.Snapshot()}
}

// GeneratePrompt asks the oracle for a starting word and queues it for the
// session. The prompt takes effect when the event loop processes it.
func (c *Coordinator) GeneratePrompt(ctx context.Context, apiKey string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.oracleTimeout)
	defer cancel()

	prompt, err := c.oracle.GeneratePrompt(ctx, apiKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate prompt: %v", err)
	}

	if err := c.eventQueue.Enqueue(&types.SeedPromptEvent{Prompt: prompt}); err != nil {
		return "", fmt.Errorf("failed to enqueue prompt event: %v", err)
	}

	return prompt, nil
}

func (c *Coordinator) broadcastGameState(snapshot *types.GameState) {
	c.broadcastChan <- workers.BroadcastMessage{
		Type:    messages.MessageTypeServerGameUpdate,
		Message: &messages.ServerGameUpdate{GameState: snapshot},
	}
}

func (c *Coordinator) sendInvalidWord(clientID string, message string) {
	c.broadcastChan <- workers.BroadcastMessage{
		TargetID: clientID,
		Type:     messages.MessageTypeServerInvalidWord,
		Message:  &messages.ServerInvalidWord{Message: message},
	}
}
