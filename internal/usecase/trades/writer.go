package trades

import (
	"context"
	"fmt"
	"io"

	orderbookv1 "github.com/kerwei/orderbook/internal/domain/orderbook/v1"
	"github.com/kerwei/orderbook/pkg/errors"
)

// WriterSink emits one trade confirmation line per trade to an
// io.Writer, stdout in the usual deployment, immediately in generation
// order.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink over w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Publish writes the trade confirmation line.
func (s *WriterSink) Publish(ctx context.Context, trade orderbookv1.Trade) error {
	if _, err := fmt.Fprintln(s.w, trade.String()); err != nil {
		return errors.NewTracerWithCode(errors.TradePublishError, "failed to write trade confirmation").Wrap(err)
	}
	return nil
}

// Close implements Publisher. The writer is owned by the caller.
func (s *WriterSink) Close() error {
	return nil
}
