package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/kerwei/orderbook/internal/domain/orderbook/v1"
	snapshotv1 "github.com/kerwei/orderbook/internal/domain/snapshot/v1"
)

// Helper function to create and insert a resting order
func mustInsert(t *testing.T, b *Book, id string, side orderbookv1.Side, price, qty, disclosed int64) *orderbookv1.Order {
	t.Helper()
	order := orderbookv1.NewOrder(id, side, price, qty, disclosed)
	require.NoError(t, b.Insert(order))
	return order
}

// Test 1: Basic constructor
func TestNewBook(t *testing.T) {
	b := NewBook()

	assert.NotNil(t, b)
	assert.Empty(t, b.Orders)
	assert.Empty(t, b.BidLevels)
	assert.Empty(t, b.AskLevels)

	_, ok := b.BestBid()
	assert.False(t, ok)
	_, ok = b.BestAsk()
	assert.False(t, ok)
}

// Test 2: Insert a single order
func TestBook_Insert_Basic(t *testing.T) {
	b := NewBook()

	order := mustInsert(t, b, "order1", orderbookv1.SideSell, 100, 500, 0)

	assert.Equal(t, 1, len(b.Orders))
	assert.Equal(t, 1, len(b.AskLevels))
	assert.Equal(t, 0, len(b.BidLevels))
	assert.Equal(t, uint64(1), order.Sequence)
	assert.Equal(t, int64(500), order.VisibleQty)

	best, ok := b.BestAsk()
	assert.True(t, ok)
	assert.Equal(t, int64(100), best)
	assert.Equal(t, order, b.PeekFront(orderbookv1.SideSell, 100))
}

// Test 3: Orders at the same price share one level in arrival order
func TestBook_SamePriceLevel(t *testing.T) {
	b := NewBook()

	order1 := mustInsert(t, b, "order1", orderbookv1.SideSell, 100, 500, 0)
	order2 := mustInsert(t, b, "order2", orderbookv1.SideSell, 100, 10_000, 0)

	assert.Equal(t, 1, len(b.AskLevels))
	assert.Equal(t, int64(10_500), b.AskLevels[100].VisibleVolume())
	assert.Equal(t, order1, b.PeekFront(orderbookv1.SideSell, 100))
	assert.Less(t, order1.Sequence, order2.Sequence)
}

// Test 4: Best price per side
func TestBook_BestPrices(t *testing.T) {
	b := NewBook()

	mustInsert(t, b, "s1", orderbookv1.SideSell, 105, 100, 0)
	mustInsert(t, b, "s2", orderbookv1.SideSell, 100, 100, 0)
	mustInsert(t, b, "b1", orderbookv1.SideBuy, 98, 100, 0)
	mustInsert(t, b, "b2", orderbookv1.SideBuy, 99, 100, 0)

	ask, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(100), ask)

	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(99), bid)
}

// Test 5: Insert validation
func TestBook_Insert_Errors(t *testing.T) {
	b := NewBook()
	mustInsert(t, b, "order1", orderbookv1.SideSell, 100, 500, 0)

	t.Run("Nil order", func(t *testing.T) {
		assert.ErrorIs(t, b.Insert(nil), orderbookv1.ErrNilOrder)
	})

	t.Run("Non-positive price", func(t *testing.T) {
		order := orderbookv1.NewOrder("order2", orderbookv1.SideSell, 0, 500, 0)
		assert.ErrorIs(t, b.Insert(order), orderbookv1.ErrInvalidPrice)
	})

	t.Run("Non-positive quantity", func(t *testing.T) {
		order := orderbookv1.NewOrder("order2", orderbookv1.SideSell, 100, 0, 0)
		assert.ErrorIs(t, b.Insert(order), orderbookv1.ErrInvalidQty)
	})

	t.Run("Duplicate id", func(t *testing.T) {
		order := orderbookv1.NewOrder("order1", orderbookv1.SideBuy, 99, 500, 0)
		assert.Error(t, b.Insert(order))
		assert.Equal(t, 1, len(b.Orders))
	})
}

// Test 6: Removing the last order drops the level
func TestBook_Remove_DropsEmptyLevel(t *testing.T) {
	b := NewBook()
	order := mustInsert(t, b, "order1", orderbookv1.SideBuy, 99, 500, 0)

	require.NoError(t, b.Remove(order))

	assert.Empty(t, b.Orders)
	assert.Empty(t, b.BidLevels)
	_, ok := b.BestBid()
	assert.False(t, ok)
}

// Test 7: Iceberg requeue reveals the next slice at the tail
func TestBook_Requeue_Iceberg(t *testing.T) {
	b := NewBook()

	iceberg := mustInsert(t, b, "ice1", orderbookv1.SideSell, 100, 10_000, 2_500)
	other := mustInsert(t, b, "order1", orderbookv1.SideSell, 100, 500, 0)

	// Exhaust the visible slice with hidden size left.
	iceberg.Fill(2_500)
	require.Equal(t, int64(0), iceberg.VisibleQty)
	require.Equal(t, int64(7_500), iceberg.RemainingQty)

	seqBefore := iceberg.Sequence
	require.NoError(t, b.Requeue(iceberg))

	assert.Equal(t, int64(2_500), iceberg.VisibleQty)
	assert.Greater(t, iceberg.Sequence, seqBefore)
	assert.Greater(t, iceberg.Sequence, other.Sequence)
	assert.Equal(t, other, b.PeekFront(orderbookv1.SideSell, 100))
}

// Test 8: Levels are returned best to worst per side
func TestBook_SortedLevels(t *testing.T) {
	b := NewBook()

	mustInsert(t, b, "s1", orderbookv1.SideSell, 105, 100, 0)
	mustInsert(t, b, "s2", orderbookv1.SideSell, 100, 100, 0)
	mustInsert(t, b, "s3", orderbookv1.SideSell, 103, 100, 0)
	mustInsert(t, b, "b1", orderbookv1.SideBuy, 98, 100, 0)
	mustInsert(t, b, "b2", orderbookv1.SideBuy, 99, 100, 0)

	asks := b.Asks()
	require.Len(t, asks, 3)
	assert.Equal(t, int64(100), asks[0].Price)
	assert.Equal(t, int64(103), asks[1].Price)
	assert.Equal(t, int64(105), asks[2].Price)

	bids := b.Bids()
	require.Len(t, bids, 2)
	assert.Equal(t, int64(99), bids[0].Price)
	assert.Equal(t, int64(98), bids[1].Price)
}

// Test 9: Aggregate volume per price equals the sum of inserted
// quantities when nothing crosses
func TestBook_NoSpuriousFills(t *testing.T) {
	b := NewBook()

	mustInsert(t, b, "b1", orderbookv1.SideBuy, 99, 10_000, 0)
	mustInsert(t, b, "b2", orderbookv1.SideBuy, 99, 15_000, 0)
	mustInsert(t, b, "b3", orderbookv1.SideBuy, 98, 25_500, 0)
	mustInsert(t, b, "s1", orderbookv1.SideSell, 100, 500, 0)
	mustInsert(t, b, "s2", orderbookv1.SideSell, 100, 10_000, 0)

	assert.Equal(t, int64(25_000), b.BidLevels[99].VisibleVolume())
	assert.Equal(t, int64(25_500), b.BidLevels[98].VisibleVolume())
	assert.Equal(t, int64(10_500), b.AskLevels[100].VisibleVolume())
	assert.Equal(t, int64(50_500), b.BidVisibleVolume())
	assert.Equal(t, int64(10_500), b.AskVisibleVolume())
}

// Test 10: Snapshot and restore
func TestBook_SnapshotAndRestore(t *testing.T) {
	b1 := NewBook()

	mustInsert(t, b1, "s1", orderbookv1.SideSell, 100, 500, 0)
	mustInsert(t, b1, "s2", orderbookv1.SideSell, 100, 10_000, 0)
	mustInsert(t, b1, "ice1", orderbookv1.SideSell, 103, 10_000, 2_500)
	mustInsert(t, b1, "b1", orderbookv1.SideBuy, 99, 50_000, 0)

	snapshot := b1.CreateSnapshot()
	require.Equal(t, snapshotv1.Version, snapshot.Version)
	require.Len(t, snapshot.Orders, 4)

	b2 := NewBook()
	require.NoError(t, b2.RestoreSnapshot(snapshot))

	assert.Equal(t, len(b1.Orders), len(b2.Orders))
	assert.Equal(t, len(b1.AskLevels), len(b2.AskLevels))
	assert.Equal(t, len(b1.BidLevels), len(b2.BidLevels))

	// Queue order and iceberg state survive the round trip.
	assert.Equal(t, "s1", b2.PeekFront(orderbookv1.SideSell, 100).ID)
	restored := b2.Orders["ice1"]
	require.NotNil(t, restored)
	assert.Equal(t, int64(2_500), restored.VisibleQty)
	assert.Equal(t, int64(10_000), restored.RemainingQty)
	assert.Equal(t, int64(2_500), restored.DisclosedQty)

	// The restored book continues the sequence counter, never reuses it.
	next := orderbookv1.NewOrder("b2", orderbookv1.SideBuy, 98, 100, 0)
	require.NoError(t, b2.Insert(next))
	assert.Greater(t, next.Sequence, snapshot.Sequence)
}

// Test 11: Corrupt snapshots are rejected
func TestBook_RestoreSnapshot_Corrupt(t *testing.T) {
	valid := func() *snapshotv1.Snapshot {
		return &snapshotv1.Snapshot{
			Version:  snapshotv1.Version,
			Sequence: 2,
			Orders: []snapshotv1.BookOrder{
				{ID: "s1", Side: orderbookv1.SideSell, Price: 100, TotalQty: 500, RemainingQty: 500, VisibleQty: 500, Sequence: 1},
				{ID: "b1", Side: orderbookv1.SideBuy, Price: 99, TotalQty: 100, RemainingQty: 100, VisibleQty: 100, Sequence: 2},
			},
		}
	}

	t.Run("Valid snapshot restores", func(t *testing.T) {
		assert.NoError(t, NewBook().RestoreSnapshot(valid()))
	})

	t.Run("Nil snapshot", func(t *testing.T) {
		assert.ErrorIs(t, NewBook().RestoreSnapshot(nil), snapshotv1.ErrCorrupt)
	})

	t.Run("Unsupported version", func(t *testing.T) {
		s := valid()
		s.Version = 99
		assert.ErrorIs(t, NewBook().RestoreSnapshot(s), snapshotv1.ErrCorrupt)
	})

	t.Run("Duplicate order id", func(t *testing.T) {
		s := valid()
		s.Orders[1].ID = "s1"
		assert.ErrorIs(t, NewBook().RestoreSnapshot(s), snapshotv1.ErrCorrupt)
	})

	t.Run("Visible above remaining", func(t *testing.T) {
		s := valid()
		s.Orders[0].VisibleQty = 600
		assert.ErrorIs(t, NewBook().RestoreSnapshot(s), snapshotv1.ErrCorrupt)
	})

	t.Run("Zero visible with remaining left", func(t *testing.T) {
		s := valid()
		s.Orders[0].VisibleQty = 0
		assert.ErrorIs(t, NewBook().RestoreSnapshot(s), snapshotv1.ErrCorrupt)
	})

	t.Run("Negative visible", func(t *testing.T) {
		s := valid()
		s.Orders[0].VisibleQty = -1
		assert.ErrorIs(t, NewBook().RestoreSnapshot(s), snapshotv1.ErrCorrupt)
	})

	t.Run("Negative disclosed", func(t *testing.T) {
		s := valid()
		s.Orders[0].DisclosedQty = -1
		assert.ErrorIs(t, NewBook().RestoreSnapshot(s), snapshotv1.ErrCorrupt)
	})

	t.Run("Order sequence beyond book sequence", func(t *testing.T) {
		s := valid()
		s.Orders[1].Sequence = 10
		assert.ErrorIs(t, NewBook().RestoreSnapshot(s), snapshotv1.ErrCorrupt)
	})

	t.Run("Zero remaining quantity", func(t *testing.T) {
		s := valid()
		s.Orders[0].RemainingQty = 0
		assert.ErrorIs(t, NewBook().RestoreSnapshot(s), snapshotv1.ErrCorrupt)
	})
}
