package domain

import "errors"

var (
	// ErrAlreadyRegistered indicates a buyer or seller name is already taken.
	ErrAlreadyRegistered = errors.New("party is already registered")
	// ErrNotRegistered indicates the named buyer or seller does not exist.
	ErrNotRegistered = errors.New("party is not registered")
	// ErrUnknownSeller indicates a lot was submitted under an unregistered seller.
	ErrUnknownSeller = errors.New("seller is not registered")
	// ErrUnknownLot indicates the lot number does not exist.
	ErrUnknownLot = errors.New("lot does not exist")
	// ErrDuplicateLot indicates the lot number is already in the catalogue.
	ErrDuplicateLot = errors.New("lot number is already in use")
	// ErrDuplicateInterest indicates the buyer has already noted interest in the lot.
	ErrDuplicateInterest = errors.New("buyer has already noted interest")
	// ErrInvalidState indicates the lot status does not allow the requested transition.
	ErrInvalidState = errors.New("lot is not in a valid state for this operation")
	// ErrNotInterested indicates a bid from a buyer who never noted interest.
	ErrNotInterested = errors.New("buyer has not noted interest in this lot")
	// ErrBidTooLow indicates the bid does not clear the current bid by the minimum increment.
	ErrBidTooLow = errors.New("bid does not meet the minimum increment")
	// ErrInvalidFormat indicates a malformed monetary amount.
	ErrInvalidFormat = errors.New("invalid money format")
)
