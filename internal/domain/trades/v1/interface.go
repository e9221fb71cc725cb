package tradesv1

import (
	"context"

	orderbookv1 "github.com/kerwei/orderbook/internal/domain/orderbook/v1"
)

// Publisher emits trade confirmations as matches occur, in generation
// order.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=tradesv1_mock
type Publisher interface {
	Publish(ctx context.Context, trade orderbookv1.Trade) error
	Close() error
}
