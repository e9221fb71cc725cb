package matching

import (
	"fmt"

	feedv1 "github.com/kerwei/orderbook/internal/domain/feed/v1"
	orderbookv1 "github.com/kerwei/orderbook/internal/domain/orderbook/v1"
	"github.com/kerwei/orderbook/internal/usecase/orderbook"
	"github.com/kerwei/orderbook/pkg/errors"
)

// Engine consumes incoming order entries one at a time and matches each
// against the opposite side of the book under price-time priority.
// Always the earliest order at the best crossing price fills first;
// fills execute at the resting order's price. Iceberg orders expose
// only their visible slice; when a slice is exhausted with hidden size
// left, the next slice is revealed at the tail of the level under a
// fresh sequence.
//
// Processing is deterministic and single-threaded: given the same
// initial book and the same ordered input, the trades and the final
// book state are exactly reproducible.
type Engine struct {
	book *orderbook.Book
}

// NewEngine creates a matching engine over the given book. The engine
// owns the book exclusively for the duration of a run.
func NewEngine(book *orderbook.Book) *Engine {
	return &Engine{book: book}
}

// Book returns the book the engine matches against.
func (e *Engine) Book() *orderbook.Book {
	return e.book
}

// Process validates an incoming entry, matches it against the opposite
// side and inserts any unfilled remainder as a new resting order. It
// returns the trades generated, in the order they occurred. Rejected
// entries (invalid or duplicate) mutate no state.
func (e *Engine) Process(entry *feedv1.OrderEntry) ([]orderbookv1.Trade, error) {
	if err := e.validate(entry); err != nil {
		return nil, err
	}

	incoming := orderbookv1.NewOrder(entry.ID, entry.Side, entry.Price, entry.Qty, entry.DisclosedQty)
	trades := e.match(incoming)

	if !incoming.IsFilled() {
		if err := e.book.Insert(incoming); err != nil {
			// Unreachable after validation, but never swallow it.
			return trades, errors.TracerFromError(err)
		}
	}

	return trades, nil
}

func (e *Engine) validate(entry *feedv1.OrderEntry) error {
	if entry == nil {
		return errors.NewTracerWithCode(errors.ErrInvalidOrder, "order entry is nil")
	}
	if entry.ID == "" {
		return errors.NewTracerWithCode(errors.ErrInvalidOrder, "order id is empty")
	}
	if !entry.Side.Valid() {
		return errors.NewTracerWithCode(errors.ErrInvalidOrder,
			fmt.Sprintf("unknown side %q for order %s", entry.Side, entry.ID))
	}
	if entry.Price <= 0 {
		return errors.NewTracerWithCode(errors.ErrInvalidOrder,
			fmt.Sprintf("non-positive price %d for order %s", entry.Price, entry.ID))
	}
	if entry.Qty <= 0 {
		return errors.NewTracerWithCode(errors.ErrInvalidOrder,
			fmt.Sprintf("non-positive quantity %d for order %s", entry.Qty, entry.ID))
	}
	if entry.DisclosedQty < 0 {
		return errors.NewTracerWithCode(errors.ErrInvalidOrder,
			fmt.Sprintf("negative disclosed quantity %d for order %s", entry.DisclosedQty, entry.ID))
	}
	if e.book.Contains(entry.ID) {
		return errors.NewTracerWithCode(errors.ErrDuplicateOrderID,
			fmt.Sprintf("order id %s already resting", entry.ID))
	}
	return nil
}

// match walks the opposite side while the incoming order still has
// quantity and the best opposite price crosses its limit.
func (e *Engine) match(incoming *orderbookv1.Order) []orderbookv1.Trade {
	var trades []orderbookv1.Trade
	opposite := incoming.Side.Opposite()

	for !incoming.IsFilled() {
		price, ok := e.book.Best(opposite)
		if !ok || !incoming.Crosses(price) {
			break
		}

		resting := e.book.PeekFront(opposite, price)

		qty := incoming.RemainingQty
		if resting.VisibleQty < qty {
			qty = resting.VisibleQty
		}

		incoming.Fill(qty)
		resting.Fill(qty)

		trades = append(trades, orderbookv1.Trade{
			TakerID: incoming.ID,
			MakerID: resting.ID,
			Price:   resting.Price,
			Qty:     qty,
		})

		switch {
		case resting.IsFilled():
			// Removal also drops the level once it empties.
			_ = e.book.Remove(resting)
		case resting.VisibleQty == 0:
			// Iceberg with hidden size left: reveal the next slice at
			// the tail of the level, behind everyone already waiting.
			_ = e.book.Requeue(resting)
		}
	}

	return trades
}
