package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dropfour/backend/internal/service/match"
)

const writeTimeout = 10 * time.Second

// ConnectionManager tracks open sockets by user. It implements
// match.Messenger, so the game services can push updates without knowing
// anything about websockets.
type ConnectionManager struct {
	conns     map[int64]*websocket.Conn
	usernames map[int64]string

	// conn.WriteJSON is not safe for concurrent use, so every socket gets
	// its own write lock.
	writeMu map[int64]*sync.Mutex

	mu sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		conns:     make(map[int64]*websocket.Conn),
		usernames: make(map[int64]string),
		writeMu:   make(map[int64]*sync.Mutex),
	}
}

// Add registers a connection, closing any previous socket for the same user
// so a user only ever has one live connection.
func (cm *ConnectionManager) Add(userID int64, conn *websocket.Conn, username string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if old, ok := cm.conns[userID]; ok {
		old.Close()
	}
	cm.conns[userID] = conn
	cm.usernames[userID] = username
	cm.writeMu[userID] = &sync.Mutex{}
}

// RemoveIfCurrent drops the user's entry only if conn is still the registered
// socket. A reconnect replaces the socket before the old reader exits, and
// its cleanup must not tear down the new connection.
func (cm *ConnectionManager) RemoveIfCurrent(userID int64, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if current, ok := cm.conns[userID]; ok && current == conn {
		current.Close()
		cm.removeLocked(userID)
	}
}

func (cm *ConnectionManager) remove(userID int64) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if conn, ok := cm.conns[userID]; ok {
		conn.Close()
		cm.removeLocked(userID)
	}
}

func (cm *ConnectionManager) removeLocked(userID int64) {
	delete(cm.conns, userID)
	delete(cm.usernames, userID)
	delete(cm.writeMu, userID)
}

// Username returns the name registered with the user's connection.
func (cm *ConnectionManager) Username(userID int64) (string, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	name, ok := cm.usernames[userID]
	return name, ok
}

// Send delivers a message to one user. A missing connection is not an error;
// the user simply isn't online anymore.
func (cm *ConnectionManager) Send(userID int64, msg match.Message) error {
	cm.mu.RLock()
	conn, ok := cm.conns[userID]
	mu, muOK := cm.writeMu[userID]
	cm.mu.RUnlock()

	if !ok || !muOK {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(msg)
}

// Disconnect tells the user why they are being dropped, then closes the
// socket. Used when a login from another device invalidates this one.
func (cm *ConnectionManager) Disconnect(userID int64, reason string) {
	_ = cm.Send(userID, match.Message{Type: "force_disconnect", Message: reason})
	cm.remove(userID)
}
