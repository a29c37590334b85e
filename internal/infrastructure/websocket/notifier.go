package websocket

import (
	"context"

	"auction-house/internal/domain"
)

// WebSocketNotifier adapts the connection manager to the domain Notifier.
type WebSocketNotifier struct {
	connManager domain.ConnectionManager
}

func NewWebSocketNotifier(connManager domain.ConnectionManager) *WebSocketNotifier {
	return &WebSocketNotifier{connManager: connManager}
}

func (n *WebSocketNotifier) Notify(ctx context.Context, address string, event *domain.AuctionEvent) error {
	return n.connManager.NotifyAddress(address, event)
}
