package feedv1

import (
	"context"
	"errors"

	orderbookv1 "github.com/kerwei/orderbook/internal/domain/orderbook/v1"
)

// ErrMalformedEntry marks an input record that cannot be parsed. The
// engine skips the offending record and continues with the next one.
var ErrMalformedEntry = errors.New("malformed order entry")

// OrderEntry is one parsed order-entry record from the input stream.
type OrderEntry struct {
	ID    string
	Side  orderbookv1.Side
	Price int64
	Qty   int64
	// DisclosedQty is the iceberg slice size; zero for ordinary orders.
	DisclosedQty int64
}

// OrderSource yields order entries in stream order.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=feedv1_mock
type OrderSource interface {
	// Next returns the next entry in the stream. It returns io.EOF once
	// the stream is exhausted and ErrMalformedEntry (wrapped) for a
	// record that cannot be parsed.
	Next(ctx context.Context) (*OrderEntry, error)
	// Close releases the underlying source.
	Close() error
}
