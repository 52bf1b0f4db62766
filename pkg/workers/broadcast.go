package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/wordlink/pkg/clients"
	"github.com/cbodonnell/wordlink/pkg/log"
	"github.com/cbodonnell/wordlink/pkg/messages"
	"github.com/cbodonnell/wordlink/pkg/network"
)

// BroadcastMessage asks the worker to deliver a message to connected
// clients. An empty TargetID means all clients.
type BroadcastMessage struct {
	TargetID string
	Type     messages.MessageType
	Message  interface{}
}

type BroadcastMessageWorker struct {
	clientManager        *clients.ClientManager
	broadcastMessageChan <-chan BroadcastMessage
}

type NewBroadcastMessageWorkerOptions struct {
	ClientManager        *clients.ClientManager
	BroadcastMessageChan <-chan BroadcastMessage
}

// NewBroadcastMessageWorker creates a new BroadcastMessageWorker.
// Delivery is best-effort to currently open connections; a failed write
// to one client never blocks delivery to the others.
func NewBroadcastMessageWorker(opts NewBroadcastMessageWorkerOptions) *BroadcastMessageWorker {
	return &BroadcastMessageWorker{
		clientManager:        opts.ClientManager,
		broadcastMessageChan: opts.BroadcastMessageChan,
	}
}

func (w *BroadcastMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.broadcastMessageChan:
			if err := w.handleBroadcastMessage(msg); err != nil {
				log.Error("Failed to handle broadcast message: %v", err)
			}
		}
	}
}

func (w *BroadcastMessageWorker) handleBroadcastMessage(b BroadcastMessage) error {
	payload, err := json.Marshal(b.Message)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %v", b.Type, err)
	}

	// an empty ClientID means the message is from the server
	msg := &messages.Message{
		ClientID: "",
		Type:     b.Type,
		Payload:  payload,
	}

	if b.TargetID != "" {
		client := w.clientManager.GetClientByID(b.TargetID)
		if client == nil {
			log.Trace("Client %s is no longer connected", b.TargetID)
			return nil
		}
		if err := network.WriteMessageToWS(client, msg); err != nil {
			log.Error("Failed to write message to client %s: %v", client.ID, err)
		}
		return nil
	}

	for _, client := range w.clientManager.GetClients() {
		if err := network.WriteMessageToWS(client, msg); err != nil {
			log.Error("Failed to write message to client %s: %v", client.ID, err)
			continue
		}
	}

	return nil
}
