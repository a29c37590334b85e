package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"auction-house/internal/domain"
	"auction-house/pkg/logger"
)

// HouseConfig carries the house-wide constants. Supplied at construction,
// immutable afterwards.
type HouseConfig struct {
	Increment    domain.Money
	Commission   domain.Money
	BuyerPremium domain.Money
	BankAccount  string
	BankAuthCode string
}

// AuctionHouse drives lots through their lifecycle: interest, opening,
// bidding, closing with settlement. Operations on the same lot are
// serialized through a per-lot lock; different lots proceed independently.
// Outbound notifications are computed under the lock and published after it
// is released.
type AuctionHouse struct {
	cfg        HouseConfig
	registry   domain.PartyRegistry
	lots       domain.LotStore
	eventPub   domain.EventPublisher
	bank       domain.BankService
	log        logger.Logger
	lotLocks   map[int]*sync.Mutex
	locksMutex sync.Mutex
}

func NewAuctionHouse(
	cfg HouseConfig,
	registry domain.PartyRegistry,
	lots domain.LotStore,
	eventPub domain.EventPublisher,
	bank domain.BankService,
	log logger.Logger,
) *AuctionHouse {
	return &AuctionHouse{
		cfg:      cfg,
		registry: registry,
		lots:     lots,
		eventPub: eventPub,
		bank:     bank,
		log:      log,
		lotLocks: make(map[int]*sync.Mutex),
	}
}

func (h *AuctionHouse) RegisterBuyer(ctx context.Context, name, address, bankAccount, bankAuthCode string) error {
	h.log.Info("Registering buyer", "name", name)

	return h.registry.RegisterBuyer(&domain.Buyer{
		Name:         name,
		Address:      address,
		BankAccount:  bankAccount,
		BankAuthCode: bankAuthCode,
	})
}

func (h *AuctionHouse) RegisterSeller(ctx context.Context, name, address, bankAccount string) error {
	h.log.Info("Registering seller", "name", name)

	return h.registry.RegisterSeller(&domain.Seller{
		Name:        name,
		Address:     address,
		BankAccount: bankAccount,
	})
}

func (h *AuctionHouse) AddLot(ctx context.Context, sellerName string, number int, description string, reservePrice domain.Money) error {
	h.log.Info("Adding lot", "seller", sellerName, "lot_number", number)

	if _, ok := h.registry.Seller(sellerName); !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownSeller, sellerName)
	}

	return h.lots.Add(domain.NewLot(number, sellerName, description, reservePrice))
}

func (h *AuctionHouse) ViewCatalogue(ctx context.Context) []domain.CatalogueEntry {
	return h.lots.Catalogue()
}

// NoteInterest marks the buyer as interested in the lot. Interest has no
// status requirement: it may be noted before or during an auction.
func (h *AuctionHouse) NoteInterest(ctx context.Context, buyerName string, lotNumber int) error {
	h.log.Info("Noting interest", "buyer", buyerName, "lot_number", lotNumber)

	if _, ok := h.registry.Buyer(buyerName); !ok {
		return fmt.Errorf("%w: buyer %q", domain.ErrNotRegistered, buyerName)
	}

	lock := h.lockFor(lotNumber)
	lock.Lock()
	defer lock.Unlock()

	lot, err := h.lots.Get(lotNumber)
	if err != nil {
		return err
	}

	if lot.Interested[buyerName] {
		return fmt.Errorf("%w: buyer %q on lot %d", domain.ErrDuplicateInterest, buyerName, lotNumber)
	}
	lot.Interested[buyerName] = true
	return nil
}

// OpenAuction moves an unsold lot into auction and notifies every interested
// buyer and the seller. Re-opening a lot already in auction is an error, not
// a no-op.
func (h *AuctionHouse) OpenAuction(ctx context.Context, auctioneerName, auctioneerAddress string, lotNumber int) error {
	h.log.Info("Opening auction", "auctioneer", auctioneerName, "lot_number", lotNumber)

	lock := h.lockFor(lotNumber)
	lock.Lock()

	lot, err := h.lots.Get(lotNumber)
	if err != nil {
		lock.Unlock()
		return err
	}

	if lot.Status != domain.LotUnsold {
		lock.Unlock()
		return fmt.Errorf("%w: lot %d is %s", domain.ErrInvalidState, lotNumber, lot.Status)
	}

	lot.Status = domain.LotInAuction
	lot.AuctioneerName = auctioneerName
	lot.AuctioneerAddress = auctioneerAddress

	event := &domain.AuctionEvent{
		Type:      domain.EventAuctionOpened,
		LotNumber: lotNumber,
		Addresses: h.partyAddresses(lot, ""),
		Timestamp: time.Now(),
	}
	lock.Unlock()

	h.publish(ctx, event)
	return nil
}

// MakeBid validates and records a bid. The bid must clear the current high
// bid by at least the house increment; equality with the current bid is not
// a raise. Everyone interested except the bidder is notified, plus the
// seller and the auctioneer.
func (h *AuctionHouse) MakeBid(ctx context.Context, buyerName string, lotNumber int, amount domain.Money) error {
	h.log.Info("Making bid", "buyer", buyerName, "lot_number", lotNumber, "amount", amount.String())

	lock := h.lockFor(lotNumber)
	lock.Lock()

	lot, err := h.lots.Get(lotNumber)
	if err != nil {
		lock.Unlock()
		return err
	}

	if lot.Status != domain.LotInAuction {
		lock.Unlock()
		return fmt.Errorf("%w: lot %d is %s", domain.ErrInvalidState, lotNumber, lot.Status)
	}
	if !lot.Interested[buyerName] {
		lock.Unlock()
		return fmt.Errorf("%w: buyer %q on lot %d", domain.ErrNotInterested, buyerName, lotNumber)
	}
	// bid - currentBid >= increment
	if amount.Sub(lot.CurrentBid).Cmp(h.cfg.Increment) < 0 {
		lock.Unlock()
		return fmt.Errorf("%w: bid %s, current %s, increment %s",
			domain.ErrBidTooLow, amount, lot.CurrentBid, h.cfg.Increment)
	}

	lot.RecordBid(buyerName, amount)

	addresses := h.partyAddresses(lot, buyerName)
	if lot.AuctioneerAddress != "" {
		addresses = append(addresses, lot.AuctioneerAddress)
	}
	event := &domain.AuctionEvent{
		Type:      domain.EventBidAccepted,
		LotNumber: lotNumber,
		Amount:    amount,
		Addresses: addresses,
		Timestamp: time.Now(),
	}
	lock.Unlock()

	h.publish(ctx, event)
	return nil
}

// CloseAuction settles a lot in auction. A winning bid has to exceed the
// reserve price, not merely equal it. Both settlement transfers are evaluated
// before the status is written; if either fails the lot parks in
// sold-pending-payment and no sold/unsold notification goes out. Closing a
// lot that is not in auction settles nothing.
func (h *AuctionHouse) CloseAuction(ctx context.Context, auctioneerName string, lotNumber int) (domain.Outcome, error) {
	h.log.Info("Closing auction", "auctioneer", auctioneerName, "lot_number", lotNumber)

	lock := h.lockFor(lotNumber)
	lock.Lock()

	lot, err := h.lots.Get(lotNumber)
	if err != nil {
		lock.Unlock()
		return "", err
	}

	if lot.Status != domain.LotInAuction {
		lock.Unlock()
		return domain.OutcomeOK, nil
	}

	winner, highest, _ := lot.WinningBid()

	if highest.LessEqual(lot.ReservePrice) {
		lot.Status = domain.LotUnsold
		event := &domain.AuctionEvent{
			Type:      domain.EventLotUnsold,
			LotNumber: lotNumber,
			Addresses: h.partyAddresses(lot, ""),
			Timestamp: time.Now(),
		}
		lock.Unlock()

		h.log.Info("Lot unsold", "lot_number", lotNumber, "highest_bid", highest.String())
		h.publish(ctx, event)
		return domain.OutcomeNoSale, nil
	}

	// Callers were validated on the way in: the winner noted interest and the
	// seller added the lot, so both lookups must succeed.
	buyer, ok := h.registry.Buyer(winner)
	if !ok {
		lock.Unlock()
		return "", fmt.Errorf("%w: winning buyer %q", domain.ErrNotRegistered, winner)
	}
	seller, ok := h.registry.Seller(lot.SellerName)
	if !ok {
		lock.Unlock()
		return "", fmt.Errorf("%w: seller %q", domain.ErrNotRegistered, lot.SellerName)
	}

	sellerErr := h.bank.Transfer(ctx,
		h.cfg.BankAccount, h.cfg.BankAuthCode,
		seller.BankAccount, highest.Sub(h.cfg.Commission))
	buyerErr := h.bank.Transfer(ctx,
		buyer.BankAccount, buyer.BankAuthCode,
		h.cfg.BankAccount, highest.Add(h.cfg.BuyerPremium))

	if sellerErr != nil || buyerErr != nil {
		lot.Status = domain.LotSoldPendingPayment
		lock.Unlock()

		h.log.Warn("Settlement transfer failed, lot pending payment",
			"lot_number", lotNumber, "winner", winner,
			"seller_transfer_error", sellerErr, "buyer_transfer_error", buyerErr)
		return domain.OutcomeSalePendingPayment, nil
	}

	lot.Status = domain.LotSold
	event := &domain.AuctionEvent{
		Type:      domain.EventLotSold,
		LotNumber: lotNumber,
		Amount:    highest,
		Addresses: h.partyAddresses(lot, ""),
		Timestamp: time.Now(),
	}
	lock.Unlock()

	h.log.Info("Lot sold", "lot_number", lotNumber, "winner", winner, "hammer_price", highest.String())
	h.publish(ctx, event)
	return domain.OutcomeSale, nil
}

// partyAddresses collects the addresses of every interested buyer except
// excludeBuyer, plus the seller.
func (h *AuctionHouse) partyAddresses(lot *domain.Lot, excludeBuyer string) []string {
	var addresses []string
	for name := range lot.Interested {
		if name == excludeBuyer {
			continue
		}
		if buyer, ok := h.registry.Buyer(name); ok {
			addresses = append(addresses, buyer.Address)
		}
	}
	if seller, ok := h.registry.Seller(lot.SellerName); ok {
		addresses = append(addresses, seller.Address)
	}
	return addresses
}

func (h *AuctionHouse) publish(ctx context.Context, event *domain.AuctionEvent) {
	if err := h.eventPub.PublishAuctionEvent(ctx, event); err != nil {
		h.log.Error("Failed to publish auction event",
			"type", event.Type, "lot_number", event.LotNumber, "error", err)
	}
}

func (h *AuctionHouse) lockFor(lotNumber int) *sync.Mutex {
	h.locksMutex.Lock()
	defer h.locksMutex.Unlock()

	lock, exists := h.lotLocks[lotNumber]
	if !exists {
		lock = &sync.Mutex{}
		h.lotLocks[lotNumber] = lock
	}
	return lock
}
