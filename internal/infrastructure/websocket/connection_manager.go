package websocket

import (
	"sync"

	"auction-house/internal/domain"
	"auction-house/pkg/logger"
)

// ConnectionManager tracks live WebSocket connections keyed by the address a
// party registered with. One address may hold several connections.
type ConnectionManager struct {
	connections map[string][]domain.WebSocketConnection // address -> connections
	mutex       sync.RWMutex
	log         logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string][]domain.WebSocketConnection),
		log:         log,
	}
}

func (cm *ConnectionManager) RegisterConnection(address string, conn domain.WebSocketConnection) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.connections[address] = append(cm.connections[address], conn)

	cm.log.Info("Connection registered", "address", address)
	return nil
}

func (cm *ConnectionManager) UnregisterConnection(address string, conn domain.WebSocketConnection) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	existing := cm.connections[address]
	var remaining []domain.WebSocketConnection
	for _, existingConn := range existing {
		if existingConn != conn {
			remaining = append(remaining, existingConn)
		}
	}

	if len(remaining) == 0 {
		delete(cm.connections, address)
	} else {
		cm.connections[address] = remaining
	}

	cm.log.Info("Connection unregistered", "address", address)
	return nil
}

func (cm *ConnectionManager) NotifyAddress(address string, message interface{}) error {
	cm.mutex.RLock()
	connections := append([]domain.WebSocketConnection(nil), cm.connections[address]...)
	cm.mutex.RUnlock()

	for _, conn := range connections {
		if err := conn.Send(message); err != nil {
			cm.log.Error("Failed to send message", "address", address, "error", err)
			// Continue to other connections
		}
	}

	return nil
}
