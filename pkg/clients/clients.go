package clients

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client represents a connected client
type Client struct {
	ID   string
	Conn *websocket.Conn
	// writeLock serializes writes to the connection,
	// which supports at most one concurrent writer.
	writeLock sync.Mutex
}

// WriteMessage writes a websocket message to the client's connection.
func (c *Client) WriteMessage(messageType int, data []byte) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// ClientManager manages connected clients
type ClientManager struct {
	clients     map[string]*Client
	clientsLock sync.RWMutex
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]*Client),
	}
}

// AddClient adds a new client to the manager and returns it.
// The connection identifier is opaque and unique per connection.
func (cm *ClientManager) AddClient(conn *websocket.Conn) *Client {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client := &Client{
		ID:   uuid.NewString(),
		Conn: conn,
	}
	cm.clients[client.ID] = client
	return client
}

// RemoveClient removes a client from the manager.
func (cm *ClientManager) RemoveClient(clientID string) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	if _, exists := cm.clients[clientID]; exists {
		delete(cm.clients, clientID)
	}
}

// GetClients returns a list of all connected clients
func (cm *ClientManager) GetClients() []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		clients = append(clients, client)
	}
	return clients
}

// GetClientByID retrieves a client by its ID
func (cm *ClientManager) GetClientByID(clientID string) *Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	return cm.clients[clientID]
}

func (cm *ClientManager) Exists(clientID string) bool {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	_, ok := cm.clients[clientID]
	return ok
}
