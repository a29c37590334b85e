package domain

import (
	"context"
	"time"
)

// Store interfaces
type PartyRegistry interface {
	RegisterBuyer(buyer *Buyer) error
	RegisterSeller(seller *Seller) error
	Buyer(name string) (*Buyer, bool)
	Seller(name string) (*Seller, bool)
}

type LotStore interface {
	Add(lot *Lot) error
	Get(number int) (*Lot, error)
	Catalogue() []CatalogueEntry
}

// Event interfaces
type EventPublisher interface {
	PublishAuctionEvent(ctx context.Context, event *AuctionEvent) error
}

type EventSubscriber interface {
	SubscribeToAuctionEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(event *AuctionEvent) error

// Notifier delivers one event to one address. Delivery failure is not
// surfaced back into lot state.
type Notifier interface {
	Notify(ctx context.Context, address string, event *AuctionEvent) error
}

// BankService moves money between an account/authorization pair and a
// destination account. A nil error means the transfer settled; any error,
// including a context deadline, counts as a failed transfer.
type BankService interface {
	Transfer(ctx context.Context, fromAccount, fromAuthCode, toAccount string, amount Money) error
}

// Leader election interface
type LeaderElection interface {
	BecomeLeader(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLeadership(ctx context.Context, instanceID string) error
}

// Scheduler interface
type AuctionScheduler interface {
	ScheduleOpen(ctx context.Context, lotNumber int, auctioneerName, auctioneerAddress string, openAt time.Time) error
	ScheduleClose(ctx context.Context, lotNumber int, auctioneerName string, closeAt time.Time) error
	CancelSchedule(ctx context.Context, lotNumber int) error
	Start(ctx context.Context) error
	Stop() error
}

// WebSocket interfaces
type WebSocketConnection interface {
	Send(message interface{}) error
	Close() error
	Address() string
}

type ConnectionManager interface {
	RegisterConnection(address string, conn WebSocketConnection) error
	UnregisterConnection(address string, conn WebSocketConnection) error
	NotifyAddress(address string, message interface{}) error
}
