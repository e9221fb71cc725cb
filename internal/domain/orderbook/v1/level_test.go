package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a resting order with its visible slice set
func createRestingOrder(id string, side Side, price, qty, disclosed int64, seq uint64) *Order {
	order := NewOrder(id, side, price, qty, disclosed)
	order.RefreshVisible()
	order.Sequence = seq
	return order
}

func TestNewLevel(t *testing.T) {
	level := NewLevel(100)

	assert.NotNil(t, level)
	assert.Equal(t, int64(100), level.Price)
	assert.Empty(t, level.Orders)
	assert.True(t, level.IsEmpty())
	assert.Equal(t, int64(0), level.VisibleVolume())
}

func TestLevel_AddOrder(t *testing.T) {
	level := NewLevel(100)

	t.Run("Add valid order", func(t *testing.T) {
		order := createRestingOrder("order1", SideBuy, 100, 10, 0, 1)
		err := level.AddOrder(order)

		require.NoError(t, err)
		assert.Equal(t, 1, level.OrderCount())
		assert.Equal(t, int64(10), level.VisibleVolume())
		assert.Equal(t, level, order.Level)
		assert.False(t, level.IsEmpty())
	})

	t.Run("Add nil order", func(t *testing.T) {
		err := level.AddOrder(nil)
		assert.ErrorIs(t, err, ErrNilOrder)
	})

	t.Run("Add order with zero quantity", func(t *testing.T) {
		order := createRestingOrder("order2", SideBuy, 100, 10, 0, 2)
		order.RemainingQty = 0
		err := level.AddOrder(order)
		assert.ErrorIs(t, err, ErrInvalidQty)
	})

	t.Run("Add multiple orders preserves arrival order", func(t *testing.T) {
		level := NewLevel(100)
		order1 := createRestingOrder("order1", SideSell, 100, 10, 0, 1)
		order2 := createRestingOrder("order2", SideSell, 100, 20, 0, 2)

		require.NoError(t, level.AddOrder(order1))
		require.NoError(t, level.AddOrder(order2))

		assert.Equal(t, 2, level.OrderCount())
		assert.Equal(t, int64(30), level.VisibleVolume())
		assert.Equal(t, order1, level.Front())
	})
}

func TestLevel_RemoveOrder(t *testing.T) {
	level := NewLevel(100)
	order := createRestingOrder("order1", SideBuy, 100, 10, 0, 1)

	require.NoError(t, level.AddOrder(order))

	t.Run("Remove existing order", func(t *testing.T) {
		err := level.RemoveOrder(order)

		require.NoError(t, err)
		assert.Equal(t, 0, level.OrderCount())
		assert.Nil(t, order.Level)
		assert.True(t, level.IsEmpty())
	})

	t.Run("Remove nil order", func(t *testing.T) {
		err := level.RemoveOrder(nil)
		assert.ErrorIs(t, err, ErrNilOrder)
	})

	t.Run("Remove order not in level", func(t *testing.T) {
		other := createRestingOrder("order2", SideBuy, 100, 10, 0, 2)
		err := level.RemoveOrder(other)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestLevel_MoveToTail(t *testing.T) {
	level := NewLevel(100)
	order1 := createRestingOrder("order1", SideSell, 100, 10, 0, 1)
	order2 := createRestingOrder("order2", SideSell, 100, 20, 0, 2)

	require.NoError(t, level.AddOrder(order1))
	require.NoError(t, level.AddOrder(order2))
	require.Equal(t, order1, level.Front())

	require.NoError(t, level.MoveToTail(order1))

	assert.Equal(t, order2, level.Front())
	assert.Equal(t, 2, level.OrderCount())
	assert.Equal(t, level, order1.Level)
}

func TestLevel_VisibleVolume_Iceberg(t *testing.T) {
	level := NewLevel(100)

	// Iceberg of 10,000 disclosing 2,500 at a time only counts its
	// visible slice toward the level volume.
	iceberg := createRestingOrder("ice1", SideSell, 100, 10_000, 2_500, 1)
	plain := createRestingOrder("order1", SideSell, 100, 500, 0, 2)

	require.NoError(t, level.AddOrder(iceberg))
	require.NoError(t, level.AddOrder(plain))

	assert.Equal(t, int64(3_000), level.VisibleVolume())
	assert.Equal(t, int64(10_500), level.RemainingVolume())
}

func TestLevel_Validate(t *testing.T) {
	t.Run("Valid level", func(t *testing.T) {
		level := NewLevel(100)
		require.NoError(t, level.AddOrder(createRestingOrder("order1", SideSell, 100, 10, 0, 1)))
		require.NoError(t, level.AddOrder(createRestingOrder("order2", SideSell, 100, 20, 0, 2)))

		assert.NoError(t, level.Validate())
	})

	t.Run("Non-positive price", func(t *testing.T) {
		level := NewLevel(0)
		assert.ErrorIs(t, level.Validate(), ErrInvalidPrice)
	})

	t.Run("Missing arrival sequence", func(t *testing.T) {
		level := NewLevel(100)
		require.NoError(t, level.AddOrder(createRestingOrder("order1", SideSell, 100, 10, 0, 0)))

		assert.Error(t, level.Validate())
	})

	t.Run("Out of sequence orders", func(t *testing.T) {
		level := NewLevel(100)
		require.NoError(t, level.AddOrder(createRestingOrder("order1", SideSell, 100, 10, 0, 5)))
		require.NoError(t, level.AddOrder(createRestingOrder("order2", SideSell, 100, 20, 0, 3)))

		assert.Error(t, level.Validate())
	})

	t.Run("Visible above remaining", func(t *testing.T) {
		level := NewLevel(100)
		order := createRestingOrder("order1", SideSell, 100, 10, 0, 1)
		require.NoError(t, level.AddOrder(order))
		order.VisibleQty = 20

		assert.Error(t, level.Validate())
	})
}
