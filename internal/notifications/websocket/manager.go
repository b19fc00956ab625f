package websocket

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"givehope/admin-portal/admin-gateway/internal/notifications"
)

// Manager routes toast notifications to the browser tabs of each admin
// session. A session may have several connections open; slow or dead ones
// are dropped rather than blocked on.
type Manager struct {
	mu          sync.RWMutex
	connections map[string]map[*Connection]bool // session id -> connections
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// Connection is one WebSocket client.
type Connection struct {
	ID        string
	SessionID string
	conn      *websocket.Conn
	send      chan notifications.Notification
}

// NewManager creates a WebSocket manager.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		connections: make(map[string]map[*Connection]bool),
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The gateway sits behind the same origin as the admin UI.
				return true
			},
		},
	}
}

// HandleConnection upgrades the request and registers the connection under
// the given session.
func (m *Manager) HandleConnection(w http.ResponseWriter, r *http.Request, sessionID string) error {
	ws, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	c := &Connection{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		conn:      ws,
		send:      make(chan notifications.Notification, 32),
	}

	m.mu.Lock()
	if m.connections[sessionID] == nil {
		m.connections[sessionID] = make(map[*Connection]bool)
	}
	m.connections[sessionID][c] = true
	m.mu.Unlock()

	m.logger.Info("websocket connected",
		zap.String("session_id", sessionID),
		zap.String("connection_id", c.ID))

	go m.writePump(c)
	go m.readPump(c)
	return nil
}

// Publish sends a notification to every connection of a session. The sends
// happen under the read lock: remove closes a send channel only under the
// write lock and only while the connection is still registered, so no send
// here can hit a closed channel. Connections with a full send buffer are
// dropped once the lock is released.
func (m *Manager) Publish(sessionID string, n notifications.Notification) {
	var full []*Connection
	m.mu.RLock()
	for c := range m.connections[sessionID] {
		select {
		case c.send <- n:
		default:
			full = append(full, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range full {
		m.remove(c)
	}
}

// ConnectionCount returns the number of open connections for a session.
func (m *Manager) ConnectionCount(sessionID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections[sessionID])
}

func (m *Manager) writePump(c *Connection) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		m.remove(c)
	}()

	for {
		select {
		case n, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(n); err != nil {
				m.logger.Debug("websocket write failed",
					zap.String("connection_id", c.ID), zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; it exists to detect closed connections.
func (m *Manager) readPump(c *Connection) {
	defer m.remove(c)
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Manager) remove(c *Connection) {
	m.mu.Lock()
	if conns, ok := m.connections[c.SessionID]; ok {
		if conns[c] {
			delete(conns, c)
			close(c.send)
			if len(conns) == 0 {
				delete(m.connections, c.SessionID)
			}
		}
	}
	m.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
	}
}
