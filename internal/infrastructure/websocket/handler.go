package websocket

import (
	"net/http"
	"sync"

	"auction-house/internal/domain"
	"auction-house/pkg/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Handler upgrades HTTP requests to notification streams. A client connects
// with the address it registered under and receives every event the house
// sends to that address.
type Handler struct {
	connManager domain.ConnectionManager
	log         logger.Logger
}

func NewHandler(connManager domain.ConnectionManager, log logger.Logger) *Handler {
	return &Handler{
		connManager: connManager,
		log:         log,
	}
}

func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		http.Error(w, "address required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	wsConn := NewConnection(conn, address, h.log)

	if err := h.connManager.RegisterConnection(address, wsConn); err != nil {
		h.log.Error("Failed to register connection", "error", err)
		conn.Close()
		return
	}

	go h.readLoop(wsConn, address)
}

// readLoop drains inbound frames so pings are answered and a closed peer is
// noticed and unregistered.
func (h *Handler) readLoop(conn *Connection, address string) {
	defer func() {
		h.connManager.UnregisterConnection(address, conn)
		conn.Close()
	}()

	for {
		var msg map[string]interface{}
		if err := conn.conn.ReadJSON(&msg); err != nil {
			return
		}

		if msgType, ok := msg["type"].(string); ok && msgType == "ping" {
			conn.Send(map[string]string{"type": "pong"})
		}
	}
}

type Connection struct {
	conn    *websocket.Conn
	address string
	mutex   sync.Mutex
	log     logger.Logger
}

func NewConnection(conn *websocket.Conn, address string, log logger.Logger) *Connection {
	return &Connection{
		conn:    conn,
		address: address,
		log:     log,
	}
}

func (c *Connection) Send(message interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.conn.WriteJSON(message)
}

func (c *Connection) Close() error {
	return c.conn.Close()
}

func (c *Connection) Address() string {
	return c.address
}
