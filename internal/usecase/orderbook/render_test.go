package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"

	orderbookv1 "github.com/kerwei/orderbook/internal/domain/orderbook/v1"
)

// Test 1: Empty book renders nothing
func TestRender_EmptyBook(t *testing.T) {
	assert.Equal(t, "", Render(NewBook()))
}

// Test 2: Full two-column view with uneven sides
func TestRender_TwoColumns(t *testing.T) {
	b := NewBook()

	mustInsert(t, b, "s100a", orderbookv1.SideSell, 100, 500, 0)
	mustInsert(t, b, "s100b", orderbookv1.SideSell, 100, 10_000, 0)
	mustInsert(t, b, "s103", orderbookv1.SideSell, 103, 100, 0)
	mustInsert(t, b, "s105", orderbookv1.SideSell, 105, 20_000, 0)
	mustInsert(t, b, "b99", orderbookv1.SideBuy, 99, 50_000, 0)
	mustInsert(t, b, "b98", orderbookv1.SideBuy, 98, 25_500, 0)

	expected := "     50,000     99 |    100      10,500\n" +
		"     25,500     98 |    103         100\n" +
		"                   |    105      20,000\n"
	assert.Equal(t, expected, Render(b))
}

// Test 3: Bid-only book leaves the ask column blank
func TestRender_BidOnly(t *testing.T) {
	b := NewBook()
	mustInsert(t, b, "b1", orderbookv1.SideBuy, 99, 1_000, 0)

	expected := "      1,000     99 |                   \n"
	assert.Equal(t, expected, Render(b))
}

// Test 4: Iceberg levels show visible volume only
func TestRender_IcebergHiddenQty(t *testing.T) {
	b := NewBook()
	mustInsert(t, b, "ice1", orderbookv1.SideSell, 100, 100_000, 2_500)

	expected := "                   |    100       2,500\n"
	assert.Equal(t, expected, Render(b))
}

// Test 5: Comma grouping
func TestGroupDigits(t *testing.T) {
	tests := []struct {
		in  int64
		out string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1_000, "1,000"},
		{25_500, "25,500"},
		{1_234_567, "1,234,567"},
		{-1_000, "-1,000"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.out, groupDigits(tc.in))
	}
}
