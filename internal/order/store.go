package order

import (
	"context"
	"sync"

	"github.com/gofrs/uuid"
)

// Store owns all order state. Implementations must keep mutations on the
// same order id linearizable: Update applies its whole read-modify-write
// atomically, and a failed mutation leaves the stored order untouched.
type Store interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByUserID(ctx context.Context, userID string) ([]Order, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*Order) error) (*Order, error)
}

type memoryStore struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*Order
	ids    []uuid.UUID // creation order, for deterministic listing
}

func NewMemoryStore() Store {
	return &memoryStore{orders: make(map[uuid.UUID]*Order)}
}

func (s *memoryStore) Create(_ context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[o.ID] = o.clone()
	s.ids = append(s.ids, o.ID)
	return nil
}

func (s *memoryStore) GetByID(_ context.Context, id uuid.UUID) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o.clone(), nil
}

func (s *memoryStore) List(_ context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]Order, 0, len(s.ids))
	for _, id := range s.ids {
		orders = append(orders, *s.orders[id].clone())
	}
	return orders, nil
}

func (s *memoryStore) ListByUserID(_ context.Context, userID string) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]Order, 0)
	for _, id := range s.ids {
		if o := s.orders[id]; o.UserID == userID {
			orders = append(orders, *o.clone())
		}
	}
	return orders, nil
}

func (s *memoryStore) Update(_ context.Context, id uuid.UUID, fn func(*Order) error) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}

	// Mutate a copy and swap it in only on success, so a rejected
	// mutation can never leave a half-updated order behind.
	cp := o.clone()
	if err := fn(cp); err != nil {
		return nil, err
	}
	s.orders[id] = cp

	return cp.clone(), nil
}
