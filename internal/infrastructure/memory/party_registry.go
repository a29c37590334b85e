package memory

import (
	"fmt"
	"sync"

	"auction-house/internal/domain"
)

// PartyRegistry keeps registered buyers and sellers in process memory. Buyers
// and sellers are separate namespaces, so one name may appear in both.
type PartyRegistry struct {
	mutex   sync.RWMutex
	buyers  map[string]*domain.Buyer
	sellers map[string]*domain.Seller
}

func NewPartyRegistry() *PartyRegistry {
	return &PartyRegistry{
		buyers:  make(map[string]*domain.Buyer),
		sellers: make(map[string]*domain.Seller),
	}
}

func (r *PartyRegistry) RegisterBuyer(buyer *domain.Buyer) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.buyers[buyer.Name]; exists {
		return fmt.Errorf("%w: buyer %q", domain.ErrAlreadyRegistered, buyer.Name)
	}
	r.buyers[buyer.Name] = buyer
	return nil
}

func (r *PartyRegistry) RegisterSeller(seller *domain.Seller) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.sellers[seller.Name]; exists {
		return fmt.Errorf("%w: seller %q", domain.ErrAlreadyRegistered, seller.Name)
	}
	r.sellers[seller.Name] = seller
	return nil
}

func (r *PartyRegistry) Buyer(name string) (*domain.Buyer, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	buyer, ok := r.buyers[name]
	return buyer, ok
}

func (r *PartyRegistry) Seller(name string) (*domain.Seller, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	seller, ok := r.sellers[name]
	return seller, ok
}
