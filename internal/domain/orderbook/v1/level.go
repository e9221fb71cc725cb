package orderbookv1

import (
	"errors"
	"fmt"
)

var (
	// ErrNilOrder is returned when a nil order is passed to a level.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrInvalidPrice is returned for a non-positive price.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrInvalidQty is returned for a non-positive quantity.
	ErrInvalidQty = errors.New("quantity must be positive")
	// ErrOrderNotFound is returned when an order is not queued at a level.
	ErrOrderNotFound = errors.New("order not found in level")
)

// Level represents a price level in the order book: a FIFO queue of
// orders sharing one price. Orders are kept in sequence order, which is
// arrival order; iceberg reveals re-enter at the tail with a fresh
// sequence. A level is removed from the book once its queue empties.
type Level struct {
	Price  int64    `json:"price"`
	Orders []*Order `json:"orders"`
}

// NewLevel creates a new Level with the specified price.
func NewLevel(price int64) *Level {
	return &Level{
		Price:  price,
		Orders: make([]*Order, 0),
	}
}

// AddOrder appends an order at the tail of the level.
func (l *Level) AddOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.RemainingQty <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQty, order.RemainingQty)
	}

	order.Level = l
	l.Orders = append(l.Orders, order)

	return nil
}

// RemoveOrder removes an order from the level.
func (l *Level) RemoveOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}

	for i, o := range l.Orders {
		if o == order {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			order.Level = nil
			return nil
		}
	}

	return ErrOrderNotFound
}

// MoveToTail re-queues an order at the back of the level. Used when an
// iceberg order reveals a new slice and gives up its time priority.
func (l *Level) MoveToTail(order *Order) error {
	if err := l.RemoveOrder(order); err != nil {
		return err
	}
	return l.AddOrder(order)
}

// Front returns the earliest-arrived order at the level, the next
// candidate for matching. Nil when the level is empty.
func (l *Level) Front() *Order {
	if len(l.Orders) == 0 {
		return nil
	}
	return l.Orders[0]
}

// IsEmpty checks if the level has no orders.
func (l *Level) IsEmpty() bool {
	return len(l.Orders) == 0
}

// OrderCount returns the number of orders queued at this level.
func (l *Level) OrderCount() int {
	return len(l.Orders)
}

// VisibleVolume returns the aggregate visible quantity resting at this
// level. Hidden iceberg size is excluded.
func (l *Level) VisibleVolume() int64 {
	var total int64
	for _, o := range l.Orders {
		total += o.VisibleQty
	}
	return total
}

// RemainingVolume returns the aggregate remaining quantity at this
// level, hidden iceberg size included.
func (l *Level) RemainingVolume() int64 {
	var total int64
	for _, o := range l.Orders {
		total += o.RemainingQty
	}
	return total
}

// Validate performs basic validation of the level's state.
func (l *Level) Validate() error {
	if l.Price <= 0 {
		return fmt.Errorf("%w: level price %d", ErrInvalidPrice, l.Price)
	}

	var prev uint64
	for _, order := range l.Orders {
		if order == nil {
			return fmt.Errorf("nil order found in level %d", l.Price)
		}
		if order.RemainingQty <= 0 {
			return fmt.Errorf("%w: order %s has remaining %d", ErrInvalidQty, order.ID, order.RemainingQty)
		}
		if order.VisibleQty > order.RemainingQty || order.RemainingQty > order.TotalQty {
			return fmt.Errorf("order %s breaks visible <= remaining <= total", order.ID)
		}
		if order.Sequence == 0 {
			return fmt.Errorf("order %s has no arrival sequence", order.ID)
		}
		if order.Sequence <= prev {
			return fmt.Errorf("order %s out of sequence at level %d", order.ID, l.Price)
		}
		prev = order.Sequence
	}

	return nil
}
