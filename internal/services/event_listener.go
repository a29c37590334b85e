package services

import (
	"context"

	"auction-house/internal/domain"
	"auction-house/pkg/logger"
)

// EventListener consumes published auction events and delivers each one to
// the addresses the core selected. Delivery is best effort: failures are
// logged and never fed back into lot state.
type EventListener struct {
	notifier domain.Notifier
	log      logger.Logger
}

func NewEventListener(notifier domain.Notifier, log logger.Logger) *EventListener {
	return &EventListener{
		notifier: notifier,
		log:      log,
	}
}

func (el *EventListener) Start(ctx context.Context, subscriber domain.EventSubscriber) error {
	el.log.Info("Starting event listener")
	return subscriber.SubscribeToAuctionEvents(ctx, el.handleAuctionEvent)
}

func (el *EventListener) handleAuctionEvent(event *domain.AuctionEvent) error {
	el.log.Info("Handling auction event", "type", event.Type, "lot_number", event.LotNumber)

	for _, address := range event.Addresses {
		if err := el.notifier.Notify(context.Background(), address, event); err != nil {
			el.log.Error("Failed to deliver notification",
				"type", event.Type, "lot_number", event.LotNumber,
				"address", address, "error", err)
		}
	}
	return nil
}
