package orderbookv1

import "fmt"

// Trade represents a single fill between an incoming (taker) order and
// a resting (maker) order. The price is always the resting order's
// price. Trades are immutable and emitted once.
type Trade struct {
	TakerID string `json:"takerID"`
	MakerID string `json:"makerID"`
	Price   int64  `json:"price"`
	Qty     int64  `json:"qty"`
}

// String renders the trade confirmation line.
func (t Trade) String() string {
	return fmt.Sprintf("trade %s,%s,%d,%d", t.TakerID, t.MakerID, t.Price, t.Qty)
}
