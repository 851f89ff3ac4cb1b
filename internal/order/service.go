package order

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ecomcore/order-service/internal/userclient"
)

// UserGateway is the boundary to the remote user service. ValidateUser
// collapses every upstream failure mode into false; GetUserByID surfaces
// failures raw.
type UserGateway interface {
	ValidateUser(ctx context.Context, userID string) bool
	GetUserByID(ctx context.Context, userID string) (*userclient.User, error)
}

// OrderWithOwner is an order merged with its owner's profile. Owner is nil
// and OwnerError carries a diagnostic when the profile fetch failed.
type OrderWithOwner struct {
	Order
	Owner      *userclient.User `json:"user"`
	OwnerError string           `json:"user_error,omitempty"`
}

type Statistics struct {
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	Confirmed    int     `json:"confirmed"`
	Shipped      int     `json:"shipped"`
	Delivered    int     `json:"delivered"`
	Cancelled    int     `json:"cancelled"`
	TotalRevenue float64 `json:"total_revenue"`
}

type Service interface {
	CreateOrder(ctx context.Context, input *Order) (*Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, newStatus Status) (*Order, error)
	AddItem(ctx context.Context, id uuid.UUID, item Item) (*Order, error)
	RemoveItem(ctx context.Context, id uuid.UUID, index int) (*Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	GetOrderWithOwner(ctx context.Context, id uuid.UUID) (*OrderWithOwner, error)
	Statistics(ctx context.Context) (*Statistics, error)
}

type service struct {
	store Store
	users UserGateway
}

func NewService(store Store, users UserGateway) Service {
	return &service{
		store: store,
		users: users,
	}
}

func (s *service) CreateOrder(ctx context.Context, input *Order) (*Order, error) {
	// Owner verification runs first; an unreachable user service rejects
	// the order the same way an inactive user does.
	if !s.users.ValidateUser(ctx, input.UserID) {
		log.Warn().Str("user_id", input.UserID).Msg("service: owner verification failed on create")
		return nil, ErrInvalidUser
	}

	if input.UserID == "" {
		return nil, ErrEmptyUserID
	}
	if len(input.Items) == 0 {
		return nil, ErrNoItems
	}
	if input.TotalAmount <= 0 {
		return nil, ErrInvalidTotal
	}

	id, err := uuid.NewV4()
	if err != nil {
		log.Error().Err(err).Msg("service: failed to generate order id")
		return nil, fmt.Errorf("service: failed to generate order id: %w", err)
	}

	now := time.Now().UTC()
	o := &Order{
		ID:        id,
		UserID:    input.UserID,
		Items:     append([]Item(nil), input.Items...),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// The stored total is always derived from the items, not the declared
	// amount, so the total invariant holds from creation onward.
	for _, item := range o.Items {
		o.TotalAmount += item.Price * float64(item.Quantity)
	}

	if err := s.store.Create(ctx, o); err != nil {
		log.Error().Err(err).Msg("service: failed to store order")
		return nil, fmt.Errorf("service: failed to store order: %w", err)
	}

	log.Info().Stringer("order_id", o.ID).Str("user_id", o.UserID).Msg("service: order created")
	return o, nil
}

func (s *service) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		log.Warn().Err(err).Stringer("order_id", id).Msg("service: order not found by id")
		return nil, err
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context) ([]Order, error) {
	return s.store.List(ctx)
}

func (s *service) ListOrdersByUserID(ctx context.Context, userID string) ([]Order, error) {
	return s.store.ListByUserID(ctx, userID)
}

func (s *service) UpdateOrderStatus(ctx context.Context, id uuid.UUID, newStatus Status) (*Order, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		log.Warn().Err(err).Stringer("order_id", id).Stringer("new_status", newStatus).Msg("service: order not found, cannot update status")
		return nil, err
	}

	// Confirmation is the point of commitment: re-verify the owner with
	// fresh data before the transition. Later moves trust this check.
	if newStatus == StatusConfirmed {
		if !s.users.ValidateUser(ctx, current.UserID) {
			log.Warn().Stringer("order_id", id).Str("user_id", current.UserID).Msg("service: owner verification failed on confirm")
			return nil, ErrUserInactive
		}
	}

	updated, err := s.store.Update(ctx, id, func(o *Order) error {
		return o.TransitionTo(newStatus)
	})
	if err != nil {
		log.Warn().Err(err).Stringer("order_id", id).Stringer("new_status", newStatus).Msg("service: status update rejected")
		return nil, err
	}

	log.Info().Stringer("order_id", id).Stringer("old_status", current.Status).Stringer("new_status", newStatus).Msg("service: order status updated")
	return updated, nil
}

func (s *service) AddItem(ctx context.Context, id uuid.UUID, item Item) (*Order, error) {
	updated, err := s.store.Update(ctx, id, func(o *Order) error {
		if o.Status != StatusPending {
			return ErrOrderLocked
		}
		return o.AddItem(item)
	})
	if err != nil {
		log.Warn().Err(err).Stringer("order_id", id).Msg("service: add item rejected")
		return nil, err
	}

	log.Info().Stringer("order_id", id).Str("item_name", item.Name).Float64("total_amount", updated.TotalAmount).Msg("service: item added")
	return updated, nil
}

func (s *service) RemoveItem(ctx context.Context, id uuid.UUID, index int) (*Order, error) {
	updated, err := s.store.Update(ctx, id, func(o *Order) error {
		if o.Status != StatusPending {
			return ErrOrderLocked
		}
		return o.RemoveItem(index)
	})
	if err != nil {
		log.Warn().Err(err).Stringer("order_id", id).Int("item_index", index).Msg("service: remove item rejected")
		return nil, err
	}

	log.Info().Stringer("order_id", id).Int("item_index", index).Float64("total_amount", updated.TotalAmount).Msg("service: item removed")
	return updated, nil
}

func (s *service) CancelOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	updated, err := s.store.Update(ctx, id, func(o *Order) error {
		if !o.CanBeCancelled() {
			return ErrNotCancellable
		}
		return o.TransitionTo(StatusCancelled)
	})
	if err != nil {
		log.Warn().Err(err).Stringer("order_id", id).Msg("service: cancel rejected")
		return nil, err
	}

	log.Info().Stringer("order_id", id).Msg("service: order cancelled")
	return updated, nil
}

func (s *service) GetOrderWithOwner(ctx context.Context, id uuid.UUID) (*OrderWithOwner, error) {
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &OrderWithOwner{Order: *o}

	// A failed profile fetch degrades the response, never the operation.
	owner, err := s.users.GetUserByID(ctx, o.UserID)
	if err != nil {
		log.Warn().Err(err).Stringer("order_id", id).Str("user_id", o.UserID).Msg("service: owner profile fetch failed")
		result.OwnerError = err.Error()
		return result, nil
	}

	result.Owner = owner
	return result, nil
}

func (s *service) Statistics(ctx context.Context) (*Statistics, error) {
	orders, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list orders for statistics: %w", err)
	}

	stats := &Statistics{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case StatusPending:
			stats.Pending++
		case StatusConfirmed:
			stats.Confirmed++
		case StatusShipped:
			stats.Shipped++
		case StatusDelivered:
			stats.Delivered++
		case StatusCancelled:
			stats.Cancelled++
		}
		if o.Status != StatusCancelled {
			stats.TotalRevenue += o.TotalAmount
		}
	}
	return stats, nil
}
