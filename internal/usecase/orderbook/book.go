package orderbook

import (
	"fmt"
	"sort"

	orderbookv1 "github.com/kerwei/orderbook/internal/domain/orderbook/v1"
	snapshotv1 "github.com/kerwei/orderbook/internal/domain/snapshot/v1"
)

// Book maintains the two price-ordered sides of a single-instrument
// central limit order book: bids keyed best-high, asks keyed best-low,
// each price holding a FIFO level. The book owns the arrival sequence
// counter used for time priority but never emits trades itself.
//
// The book is created once per run, from a loaded snapshot or empty,
// and is owned exclusively by the matching engine. No locking: the
// engine is a deterministic single-threaded reduction over its input.
type Book struct {
	BidLevels map[int64]*orderbookv1.Level
	AskLevels map[int64]*orderbookv1.Level
	Orders    map[string]*orderbookv1.Order

	sequence uint64
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{
		BidLevels: make(map[int64]*orderbookv1.Level),
		AskLevels: make(map[int64]*orderbookv1.Level),
		Orders:    make(map[string]*orderbookv1.Order),
	}
}

// NextSequence advances and returns the arrival counter.
func (b *Book) NextSequence() uint64 {
	b.sequence++
	return b.sequence
}

// Contains checks whether an order id is currently resting.
func (b *Book) Contains(id string) bool {
	_, ok := b.Orders[id]
	return ok
}

// Insert places a new entrant into the level for its price and side,
// creating the level if absent and appending at the tail. The order is
// assigned the next arrival sequence and its visible slice is computed
// the same way as any iceberg entrant.
func (b *Book) Insert(order *orderbookv1.Order) error {
	if order == nil {
		return orderbookv1.ErrNilOrder
	}
	if order.Price <= 0 {
		return fmt.Errorf("%w: got %d", orderbookv1.ErrInvalidPrice, order.Price)
	}
	if order.RemainingQty <= 0 {
		return fmt.Errorf("%w: got %d", orderbookv1.ErrInvalidQty, order.RemainingQty)
	}
	if b.Contains(order.ID) {
		return fmt.Errorf("order with ID %s already resting", order.ID)
	}

	order.Sequence = b.NextSequence()
	order.RefreshVisible()

	return b.place(order)
}

// place queues an order whose sequence and visible slice are already
// set. Shared by Insert and snapshot restore.
func (b *Book) place(order *orderbookv1.Order) error {
	levels := b.sideLevels(order.Side)

	level, exists := levels[order.Price]
	if !exists {
		level = orderbookv1.NewLevel(order.Price)
		levels[order.Price] = level
	}

	if err := level.AddOrder(order); err != nil {
		return err
	}

	b.Orders[order.ID] = order
	return nil
}

// Remove drops a fully filled or cancelled order from its level and
// from the id index, removing the level if it empties.
func (b *Book) Remove(order *orderbookv1.Order) error {
	if order == nil {
		return orderbookv1.ErrNilOrder
	}

	level := order.Level
	if level != nil {
		if err := level.RemoveOrder(order); err != nil {
			return err
		}
		b.RemoveIfEmpty(order.Side, level.Price)
	}

	delete(b.Orders, order.ID)
	return nil
}

// Requeue reveals an iceberg order's next slice and moves it to the
// tail of its level under a fresh, later sequence: the refill loses
// time priority to every order already waiting at that price.
func (b *Book) Requeue(order *orderbookv1.Order) error {
	if order == nil || order.Level == nil {
		return orderbookv1.ErrNilOrder
	}

	order.RefreshVisible()
	order.Sequence = b.NextSequence()
	return order.Level.MoveToTail(order)
}

// RemoveIfEmpty drops the level at price on the given side once its
// queue is empty. Emptied levels are never retained as placeholders.
func (b *Book) RemoveIfEmpty(side orderbookv1.Side, price int64) {
	levels := b.sideLevels(side)
	if level, ok := levels[price]; ok && level.IsEmpty() {
		delete(levels, price)
	}
}

// BestBid returns the highest resting bid price, ok=false when the bid
// side is empty.
func (b *Book) BestBid() (int64, bool) {
	return bestPrice(b.BidLevels, func(p, best int64) bool { return p > best })
}

// BestAsk returns the lowest resting ask price, ok=false when the ask
// side is empty.
func (b *Book) BestAsk() (int64, bool) {
	return bestPrice(b.AskLevels, func(p, best int64) bool { return p < best })
}

// Best returns the top-of-book price for the given side.
func (b *Book) Best(side orderbookv1.Side) (int64, bool) {
	if side == orderbookv1.SideBuy {
		return b.BestBid()
	}
	return b.BestAsk()
}

// PeekFront returns the earliest-arrived order at the given price
// level, the next candidate for matching. Nil when the level is absent.
func (b *Book) PeekFront(side orderbookv1.Side, price int64) *orderbookv1.Order {
	level, ok := b.sideLevels(side)[price]
	if !ok {
		return nil
	}
	return level.Front()
}

// Bids returns bid levels sorted best to worst (price descending).
func (b *Book) Bids() orderbookv1.Levels {
	levels := collect(b.BidLevels)
	sort.Sort(orderbookv1.ByBestBid{Levels: levels})
	return levels
}

// Asks returns ask levels sorted best to worst (price ascending).
func (b *Book) Asks() orderbookv1.Levels {
	levels := collect(b.AskLevels)
	sort.Sort(orderbookv1.ByBestAsk{Levels: levels})
	return levels
}

// BidVisibleVolume returns the aggregate visible bid quantity.
func (b *Book) BidVisibleVolume() int64 {
	var total int64
	for _, level := range b.BidLevels {
		total += level.VisibleVolume()
	}
	return total
}

// AskVisibleVolume returns the aggregate visible ask quantity.
func (b *Book) AskVisibleVolume() int64 {
	var total int64
	for _, level := range b.AskLevels {
		total += level.VisibleVolume()
	}
	return total
}

// CreateSnapshot captures every resting order for persistence. Orders
// are recorded in sequence order so a restore rebuilds identical level
// queues.
func (b *Book) CreateSnapshot() *snapshotv1.Snapshot {
	orders := make(orderbookv1.Orders, 0, len(b.Orders))
	for _, order := range b.Orders {
		orders = append(orders, order)
	}
	sort.Sort(orders)

	records := make([]snapshotv1.BookOrder, 0, len(orders))
	for _, order := range orders {
		records = append(records, snapshotv1.BookOrder{
			ID:           order.ID,
			Side:         order.Side,
			Price:        order.Price,
			TotalQty:     order.TotalQty,
			RemainingQty: order.RemainingQty,
			VisibleQty:   order.VisibleQty,
			DisclosedQty: order.DisclosedQty,
			Sequence:     order.Sequence,
		})
	}

	return &snapshotv1.Snapshot{
		Version:  snapshotv1.Version,
		Sequence: b.sequence,
		Orders:   records,
	}
}

// RestoreSnapshot rebuilds the book from a snapshot, replacing any
// current state. A snapshot that breaks the book invariants is
// reported as corrupt.
func (b *Book) RestoreSnapshot(snapshot *snapshotv1.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot is nil", snapshotv1.ErrCorrupt)
	}
	if snapshot.Version != snapshotv1.Version {
		return fmt.Errorf("%w: unsupported version %d", snapshotv1.ErrCorrupt, snapshot.Version)
	}

	b.BidLevels = make(map[int64]*orderbookv1.Level)
	b.AskLevels = make(map[int64]*orderbookv1.Level)
	b.Orders = make(map[string]*orderbookv1.Order)
	b.sequence = snapshot.Sequence

	for _, record := range snapshot.Orders {
		if err := validateRecord(record); err != nil {
			return fmt.Errorf("%w: order %s: %v", snapshotv1.ErrCorrupt, record.ID, err)
		}
		if b.Contains(record.ID) {
			return fmt.Errorf("%w: duplicate order id %s", snapshotv1.ErrCorrupt, record.ID)
		}
		if record.Sequence > b.sequence {
			return fmt.Errorf("%w: order %s sequence %d beyond book sequence %d",
				snapshotv1.ErrCorrupt, record.ID, record.Sequence, snapshot.Sequence)
		}

		order := &orderbookv1.Order{
			ID:           record.ID,
			Side:         record.Side,
			Price:        record.Price,
			TotalQty:     record.TotalQty,
			RemainingQty: record.RemainingQty,
			VisibleQty:   record.VisibleQty,
			DisclosedQty: record.DisclosedQty,
			Sequence:     record.Sequence,
		}
		if err := b.place(order); err != nil {
			return fmt.Errorf("%w: order %s: %v", snapshotv1.ErrCorrupt, record.ID, err)
		}
	}

	for _, level := range b.BidLevels {
		if err := level.Validate(); err != nil {
			return fmt.Errorf("%w: %v", snapshotv1.ErrCorrupt, err)
		}
	}
	for _, level := range b.AskLevels {
		if err := level.Validate(); err != nil {
			return fmt.Errorf("%w: %v", snapshotv1.ErrCorrupt, err)
		}
	}

	return nil
}

func validateRecord(record snapshotv1.BookOrder) error {
	if record.ID == "" {
		return fmt.Errorf("empty id")
	}
	if !record.Side.Valid() {
		return fmt.Errorf("unknown side %q", record.Side)
	}
	if record.Price <= 0 {
		return orderbookv1.ErrInvalidPrice
	}
	if record.RemainingQty <= 0 {
		return orderbookv1.ErrInvalidQty
	}
	if record.VisibleQty > record.RemainingQty || record.RemainingQty > record.TotalQty {
		return fmt.Errorf("visible %d, remaining %d, total %d break ordering",
			record.VisibleQty, record.RemainingQty, record.TotalQty)
	}
	// A quiescent book never rests an order with nothing exposed: the
	// reveal happens before the order re-enters its level.
	if record.VisibleQty <= 0 {
		return fmt.Errorf("non-positive visible quantity %d", record.VisibleQty)
	}
	if record.DisclosedQty < 0 {
		return fmt.Errorf("negative disclosed quantity %d", record.DisclosedQty)
	}
	if record.Sequence == 0 {
		return fmt.Errorf("zero sequence")
	}
	return nil
}

func (b *Book) sideLevels(side orderbookv1.Side) map[int64]*orderbookv1.Level {
	if side == orderbookv1.SideBuy {
		return b.BidLevels
	}
	return b.AskLevels
}

func bestPrice(levels map[int64]*orderbookv1.Level, better func(p, best int64) bool) (int64, bool) {
	var best int64
	found := false
	for price := range levels {
		if !found || better(price, best) {
			best = price
			found = true
		}
	}
	return best, found
}

func collect(m map[int64]*orderbookv1.Level) orderbookv1.Levels {
	levels := make(orderbookv1.Levels, 0, len(m))
	for _, level := range m {
		levels = append(levels, level)
	}
	return levels
}
