package catalog

import (
	"sort"
	"sync"
)

// Snapshot is the in-memory mirror of the product catalog the register
// prices and sells against. Stock mutations from sales are applied here
// first; Replace folds in whatever the remote store has settled on.
type Snapshot struct {
	mu       sync.Mutex
	products map[string]*Product
}

func NewSnapshot() *Snapshot {
	return &Snapshot{products: make(map[string]*Product)}
}

func (s *Snapshot) Replace(ps []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make(map[string]*Product, len(ps))
	for i := range ps {
		p := ps[i]
		s.products[p.ID] = &p
	}
}

func (s *Snapshot) Get(id string) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return Product{}, false
	}
	return *p, true
}

func (s *Snapshot) Put(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
}

func (s *Snapshot) Patch(in Patch) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[in.ID]
	if !ok {
		return Product{}, false
	}
	p.ApplyPatch(in)
	return *p, true
}

func (s *Snapshot) SetActive(id string, active bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return false
	}
	p.Active = active
	return true
}

// AddStock applies a stock delta, clamped at zero, and returns the new
// level. Unknown ids report ok=false and change nothing.
func (s *Snapshot) AddStock(id string, delta int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return 0, false
	}
	p.Stock += delta
	if p.Stock < 0 {
		p.Stock = 0
	}
	return p.Stock, true
}

// AddEmptyStock applies a delta to the empty-container count, clamped at
// zero, and returns the new level.
func (s *Snapshot) AddEmptyStock(id string, delta int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return 0, false
	}
	p.EmptyStock += delta
	if p.EmptyStock < 0 {
		p.EmptyStock = 0
	}
	return p.EmptyStock, true
}

// List returns active products sorted by name.
func (s *Snapshot) List() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LowStock returns active products at or below their low-stock threshold.
func (s *Snapshot) LowStock() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Product
	for _, p := range s.products {
		if p.Active && p.LowStockAt > 0 && p.Stock <= p.LowStockAt {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
