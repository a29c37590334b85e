package domain

import (
	"time"
)

// Buyer and Seller are separate namespaces: the same name may legally be
// registered as both.
type Buyer struct {
	Name         string
	Address      string
	BankAccount  string
	BankAuthCode string
}

type Seller struct {
	Name        string
	Address     string
	BankAccount string
}

type LotStatus int

const (
	LotUnsold LotStatus = iota
	LotInAuction
	LotSold
	LotSoldPendingPayment
)

func (s LotStatus) String() string {
	switch s {
	case LotUnsold:
		return "unsold"
	case LotInAuction:
		return "in_auction"
	case LotSold:
		return "sold"
	case LotSoldPendingPayment:
		return "sold_pending_payment"
	default:
		return "unknown"
	}
}

// Bid is the latest offer recorded for one buyer on one lot. Seq is assigned
// when the bid is accepted; on an exact tie at close the lowest Seq wins.
type Bid struct {
	Amount Money
	Seq    uint64
}

// Lot is owned by the LotStore. The auction service mutates it in place while
// holding the per-lot lock; nothing else writes to it.
type Lot struct {
	Number            int
	SellerName        string
	Description       string
	ReservePrice      Money
	CurrentBid        Money
	Status            LotStatus
	AuctioneerName    string
	AuctioneerAddress string
	Interested        map[string]bool
	Bids              map[string]Bid
	nextSeq           uint64
}

func NewLot(number int, sellerName, description string, reservePrice Money) *Lot {
	return &Lot{
		Number:       number,
		SellerName:   sellerName,
		Description:  description,
		ReservePrice: reservePrice,
		Status:       LotUnsold,
		Interested:   make(map[string]bool),
		Bids:         make(map[string]Bid),
	}
}

// RecordBid stores the buyer's latest bid and raises the current bid. The
// last bid per buyer is what counts at close.
func (l *Lot) RecordBid(buyerName string, amount Money) {
	l.nextSeq++
	l.Bids[buyerName] = Bid{Amount: amount, Seq: l.nextSeq}
	l.CurrentBid = amount
}

// WinningBid scans the recorded bids for the highest amount. Exact ties go to
// the earliest accepted bid. ok is false when no bids were recorded.
func (l *Lot) WinningBid() (buyerName string, amount Money, ok bool) {
	var best Bid
	for name, bid := range l.Bids {
		switch {
		case !ok, bid.Amount.GreaterThan(best.Amount):
			best, buyerName, ok = bid, name, true
		case bid.Amount.Equal(best.Amount) && bid.Seq < best.Seq:
			best, buyerName = bid, name
		}
	}
	return buyerName, best.Amount, ok
}

// CatalogueEntry is the public projection of a lot.
type CatalogueEntry struct {
	LotNumber   int    `json:"lot_number"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Outcome tags the result of a close (and, trivially, every other operation).
type Outcome string

const (
	OutcomeOK                 Outcome = "ok"
	OutcomeSale               Outcome = "sale"
	OutcomeNoSale             Outcome = "no_sale"
	OutcomeSalePendingPayment Outcome = "sale_pending_payment"
)

type EventType string

const (
	EventAuctionOpened EventType = "auction_opened"
	EventBidAccepted   EventType = "bid_accepted"
	EventLotSold       EventType = "lot_sold"
	EventLotUnsold     EventType = "lot_unsold"
)

// AuctionEvent is a pending outbound notification: the core decides the type
// and the recipient addresses, the notification pipeline handles delivery.
type AuctionEvent struct {
	Type      EventType `json:"type"`
	LotNumber int       `json:"lot_number"`
	Amount    Money     `json:"amount,omitempty"`
	Addresses []string  `json:"addresses"`
	Timestamp time.Time `json:"timestamp"`
}

type ScheduledJob struct {
	ID                string
	LotNumber         int
	JobType           JobType
	AuctioneerName    string
	AuctioneerAddress string
	RunAt             time.Time
	Status            JobStatus
	CreatedAt         time.Time
}

type JobType string

const (
	JobOpenAuction  JobType = "open_auction"
	JobCloseAuction JobType = "close_auction"
)

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobExecuted  JobStatus = "executed"
	JobCancelled JobStatus = "cancelled"
)
