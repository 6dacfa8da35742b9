package catalog

import (
	"context"
	"math"
	"sync"
)

// MemStore keeps products in insertion order for the lifetime of the process.
type MemStore struct {
	mu    sync.RWMutex
	items []Product
	byID  map[string]int
}

func NewMemStore() *MemStore {
	return &MemStore{byID: map[string]int{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Add(np NewProduct) (Product, error) {
	if np.ID == "" || np.Name == "" || np.Category == "" || np.Price == nil {
		return Product{}, ErrValidation
	}

	available := true
	if np.Available != nil {
		available = *np.Available
	}
	p := Product{
		ID:        np.ID,
		Name:      np.Name,
		Category:  np.Category,
		Price:     *np.Price,
		Available: available,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[p.ID]; ok {
		return Product{}, ErrDuplicateID
	}
	s.byID[p.ID] = len(s.items)
	s.items = append(s.items, p)
	return p, nil
}

func (s *MemStore) UpdatePrice(id string, price float64) (Product, error) {
	if price < 0 || math.IsNaN(price) {
		return Product{}, ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	s.items[i].Price = price
	return s.items[i], nil
}

func (s *MemStore) Get(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.items[i], true
}

func (s *MemStore) ListAvailable() []Product {
	return s.filter(func(p Product) bool { return p.Available })
}

func (s *MemStore) ListByCategory(category string) []Product {
	return s.filter(func(p Product) bool { return p.Category == category })
}

func (s *MemStore) ListAll() []Product {
	return s.filter(func(Product) bool { return true })
}

func (s *MemStore) filter(keep func(Product) bool) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.items))
	for _, p := range s.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
