package orderbookv1

// Side identifies which half of the book an order belongs to.
type Side string

const (
	// SideBuy represents a buy (bid) order.
	SideBuy Side = "B"
	// SideSell represents a sell (ask) order.
	SideSell Side = "S"
)

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Valid reports whether the side is one of the two known values.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Order represents a single resting or incoming intent to trade at a
// limit price. TotalQty is immutable once created; RemainingQty only
// ever decreases. For iceberg orders VisibleQty tracks the slice
// currently exposed to matching and DisclosedQty the size of the next
// slice to reveal.
type Order struct {
	ID           string `json:"id"`
	Side         Side   `json:"side"`
	Price        int64  `json:"price"`
	TotalQty     int64  `json:"totalQty"`
	RemainingQty int64  `json:"remainingQty"`
	VisibleQty   int64  `json:"visibleQty"`
	DisclosedQty int64  `json:"disclosedQty"`
	Sequence     uint64 `json:"sequence"`
	Level        *Level `json:"-"`
}

// NewOrder creates a new order with the given parameters. disclosed is
// zero for ordinary orders; the visible slice is computed when the
// order enters the book.
func NewOrder(id string, side Side, price, qty, disclosed int64) *Order {
	return &Order{
		ID:           id,
		Side:         side,
		Price:        price,
		TotalQty:     qty,
		RemainingQty: qty,
		DisclosedQty: disclosed,
	}
}

// IsBuy checks if the order is a buy (bid) order.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// IsSell checks if the order is a sell (ask) order.
func (o *Order) IsSell() bool {
	return o.Side == SideSell
}

// IsIceberg checks if the order discloses only a slice of its size.
func (o *Order) IsIceberg() bool {
	return o.DisclosedQty > 0
}

// IsFilled checks if the order has no quantity left.
func (o *Order) IsFilled() bool {
	return o.RemainingQty == 0
}

// Fill reduces the remaining quantity by qty. The visible slice shrinks
// with it but never below zero.
func (o *Order) Fill(qty int64) {
	o.RemainingQty -= qty
	if o.VisibleQty > qty {
		o.VisibleQty -= qty
	} else {
		o.VisibleQty = 0
	}
}

// RefreshVisible exposes the next slice of the order: the disclosed
// increment for icebergs, capped by the remaining quantity, or the full
// remaining quantity for ordinary orders.
func (o *Order) RefreshVisible() {
	if o.IsIceberg() && o.DisclosedQty < o.RemainingQty {
		o.VisibleQty = o.DisclosedQty
		return
	}
	o.VisibleQty = o.RemainingQty
}

// Crosses reports whether the order's limit price crosses the given
// opposite-side price.
func (o *Order) Crosses(oppositePrice int64) bool {
	if o.IsBuy() {
		return o.Price >= oppositePrice
	}
	return o.Price <= oppositePrice
}
