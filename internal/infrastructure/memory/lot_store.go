package memory

import (
	"fmt"
	"sort"
	"sync"

	"auction-house/internal/domain"
)

// LotStore owns every lot and its catalogue entry. Entries are projected from
// the lot at read time so the two views cannot disagree.
type LotStore struct {
	mutex sync.RWMutex
	lots  map[int]*domain.Lot
}

func NewLotStore() *LotStore {
	return &LotStore{
		lots: make(map[int]*domain.Lot),
	}
}

// Add registers a new lot. Re-adding an existing number fails with
// ErrDuplicateLot rather than silently overwriting.
func (s *LotStore) Add(lot *domain.Lot) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.lots[lot.Number]; exists {
		return fmt.Errorf("%w: lot %d", domain.ErrDuplicateLot, lot.Number)
	}
	s.lots[lot.Number] = lot
	return nil
}

func (s *LotStore) Get(number int) (*domain.Lot, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	lot, ok := s.lots[number]
	if !ok {
		return nil, fmt.Errorf("%w: lot %d", domain.ErrUnknownLot, number)
	}
	return lot, nil
}

// Catalogue returns the public entries in ascending lot-number order,
// independent of insertion order.
func (s *LotStore) Catalogue() []domain.CatalogueEntry {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	numbers := make([]int, 0, len(s.lots))
	for number := range s.lots {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)

	catalogue := make([]domain.CatalogueEntry, 0, len(numbers))
	for _, number := range numbers {
		lot := s.lots[number]
		catalogue = append(catalogue, domain.CatalogueEntry{
			LotNumber:   lot.Number,
			Description: lot.Description,
			Status:      lot.Status.String(),
		})
	}
	return catalogue
}
