package order

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// allowedTransitions is the single source of truth for status legality.
// Delivered and cancelled are terminal.
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusShipped:   true,
		StatusCancelled: true,
	},
	StatusShipped: {
		StatusDelivered: true,
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

type Item struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (i Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if i.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than zero", ErrInvalidItem)
	}
	if i.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidItem)
	}
	return nil
}

type Order struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	Items       []Item    `json:"items"`
	TotalAmount float64   `json:"total_amount"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// recalculateTotal keeps TotalAmount equal to the sum over current items
// after every item mutation.
func (o *Order) recalculateTotal() {
	total := 0.0
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	o.TotalAmount = total
	o.UpdatedAt = time.Now().UTC()
}

func (o *Order) AddItem(item Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	o.Items = append(o.Items, item)
	o.recalculateTotal()
	return nil
}

func (o *Order) RemoveItem(index int) error {
	if index < 0 || index >= len(o.Items) {
		return ErrInvalidIndex
	}
	o.Items = append(o.Items[:index], o.Items[index+1:]...)
	o.recalculateTotal()
	return nil
}

// TransitionTo applies the transition table. A transition to the current
// status is not in the table and fails like any other illegal move.
func (o *Order) TransitionTo(newStatus Status) error {
	allowed, ok := allowedTransitions[o.Status]
	if !ok || !allowed[newStatus] {
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, o.Status, newStatus)
	}
	o.Status = newStatus
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

func (o *Order) clone() *Order {
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	return &cp
}
