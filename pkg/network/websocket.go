package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/wordlink/pkg/clients"
	gametypes "github.com/cbodonnell/wordlink/pkg/game/types"
	"github.com/cbodonnell/wordlink/pkg/log"
	"github.com/cbodonnell/wordlink/pkg/messages"
	"github.com/cbodonnell/wordlink/pkg/queue"
	"github.com/gorilla/websocket"
)

// WSServer accepts client connections and feeds their events into the
// session event queue.
type WSServer struct {
	port          int
	tls           *TLSConfig
	clientManager *clients.ClientManager
	eventQueue    queue.Queue
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewWSServerOptions struct {
	Port          int
	TLS           *TLSConfig
	ClientManager *clients.ClientManager
	EventQueue    queue.Queue
}

// NewWSServer creates a new WebSocket server.
func NewWSServer(opts NewWSServerOptions) *WSServer {
	return &WSServer{
		port:          opts.Port,
		tls:           opts.TLS,
		clientManager: opts.ClientManager,
		eventQueue:    opts.EventQueue,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Start starts the WebSocket server.
func (s *WSServer) Start(ctx context.Context) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("Failed to upgrade to WebSocket: %v", err)
			return
		}
		log.Debug("New WebSocket connection from %s", conn.RemoteAddr().String())
		go s.handleWSConnection(ctx, conn)
	})

	addr := fmt.Sprintf(":%d", s.port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		server.Shutdown(ctx)
	}()

	var listenAndServe func() error
	if s.tls != nil {
		log.Info("WebSocket server listening on %s with TLS", addr)
		listenAndServe = func() error {
			return server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("WebSocket server listening on %s", addr)
		listenAndServe = server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("WebSocket server closed")
			return
		}
		log.Error("WebSocket server error: %v", err)
	}
}

// handleWSConnection registers the connection as a client and reads
// messages until the connection closes. Inbound messages become events on
// the session queue; the disconnect itself is an event too.
func (s *WSServer) handleWSConnection(ctx context.Context, conn *websocket.Conn) {
	client := s.clientManager.AddClient(conn)
	log.Debug("Client %s connected", client.ID)

	defer func() {
		s.clientManager.RemoveClient(client.ID)
		if err := s.eventQueue.Enqueue(&gametypes.DisconnectPlayerEvent{ClientID: client.ID}); err != nil {
			log.Error("Failed to enqueue disconnect event for client %s: %v", client.ID, err)
		}
		conn.Close()
	}()

	for {
		message, err := ReadMessageFromWS(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("Error reading WebSocket message from %s: %v", conn.RemoteAddr().String(), err)
			}
			log.Trace("Connection closed for %s", conn.RemoteAddr().String())
			return
		}

		event, err := eventFromMessage(client.ID, message)
		if err != nil {
			log.Warn("Dropping message from client %s: %v", client.ID, err)
			continue
		}

		if err := s.eventQueue.Enqueue(event); err != nil {
			log.Error("Failed to enqueue event for client %s: %v", client.ID, err)
		}
	}
}

// eventFromMessage converts an inbound message into a session event.
// The client-supplied ClientID field is ignored; the connection identity
// is authoritative.
func eventFromMessage(clientID string, message *messages.Message) (interface{}, error) {
	switch message.Type {
	case messages.MessageTypeClientJoinGame:
		joinGame := &messages.ClientJoinGame{}
		if err := json.Unmarshal(message.Payload, joinGame); err != nil {
			return nil, fmt.Errorf("malformed join-game payload: %v", err)
		}
		return &gametypes.JoinGameEvent{
			ClientID: clientID,
			Name:     joinGame.Name,
		}, nil
	case messages.MessageTypeClientSubmitWord:
		submitWord := &messages.ClientSubmitWord{}
		if err := json.Unmarshal(message.Payload, submitWord); err != nil {
			return nil, fmt.Errorf("malformed submit-word payload: %v", err)
		}
		return &gametypes.SubmitWordEvent{
			ClientID: clientID,
			Word:     submitWord.Word,
			APIKey:   submitWord.APIKey,
		}, nil
	default:
		return nil, fmt.Errorf("unknown message type: %s", message.Type)
	}
}

// WriteMessageToWS writes a Message to a client connection
func WriteMessageToWS(client *clients.Client, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	if err := client.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// ReadMessageFromWS reads a Message from a WebSocket connection
func ReadMessageFromWS(conn *websocket.Conn) (*messages.Message, error) {
	_, message, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	msg, err := messages.DeserializeMessage(message)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return msg, nil
}
