package engine

import (
	"context"
	goerrors "errors"
	"io"

	feedv1 "github.com/kerwei/orderbook/internal/domain/feed/v1"
	snapshotv1 "github.com/kerwei/orderbook/internal/domain/snapshot/v1"
	tradesv1 "github.com/kerwei/orderbook/internal/domain/trades/v1"
	"github.com/kerwei/orderbook/internal/usecase/matching"
	"github.com/kerwei/orderbook/internal/usecase/orderbook"
	"github.com/kerwei/orderbook/pkg/errors"
	"github.com/kerwei/orderbook/pkg/logger"
)

// Engine wires the order source, the matching engine, the trade
// publisher and the snapshot store into one run: load prior book state,
// process every incoming entry to completion in stream order, publish
// the resulting trades as they occur, and persist the book's resting
// orders when the stream ends.
type Engine struct {
	book      *orderbook.Book
	matcher   *matching.Engine
	source    feedv1.OrderSource
	publisher tradesv1.Publisher
	store     snapshotv1.Store
	logger    *logger.Logger
	opts      *Options

	processed int64
}

// NewEngine creates an engine over the given collaborators.
func NewEngine(
	book *orderbook.Book,
	source feedv1.OrderSource,
	store snapshotv1.Store,
	publisher tradesv1.Publisher,
	log *logger.Logger,
	opts *Options,
) *Engine {
	if opts == nil {
		opts = DefaultEngineOptions()
	}

	return &Engine{
		book:      book,
		matcher:   matching.NewEngine(book),
		source:    source,
		publisher: publisher,
		store:     store,
		logger:    log,
		opts:      opts,
	}
}

// Book returns the engine's book, for rendering after a run.
func (e *Engine) Book() *orderbook.Book {
	return e.book
}

// Run restores the book, processes the order stream to exhaustion and
// saves the final state. Per-record failures (malformed, invalid,
// duplicate) are logged and skipped; snapshot corruption and I/O
// failures abort the run. Context cancellation ends the stream early
// but still saves the book.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.restore(ctx); err != nil {
		return err
	}

	for {
		entry, err := e.source.Next(ctx)
		if err != nil {
			if goerrors.Is(err, io.EOF) {
				break
			}
			if goerrors.Is(err, context.Canceled) || goerrors.Is(err, context.DeadlineExceeded) {
				e.logger.InfoContext(ctx, "order stream interrupted, saving book state")
				break
			}
			if goerrors.Is(err, feedv1.ErrMalformedEntry) {
				// Already logged by the source. One bad line must not
				// abort a long-running book.
				continue
			}
			return err
		}

		if err := e.processEntry(ctx, entry); err != nil {
			return err
		}
	}

	return e.save(ctx)
}

func (e *Engine) processEntry(ctx context.Context, entry *feedv1.OrderEntry) error {
	trades, err := e.matcher.Process(entry)
	if err != nil {
		if errors.CodeEquals(err, errors.ErrInvalidOrder) || errors.CodeEquals(err, errors.ErrDuplicateOrderID) {
			e.logger.WarnContext(ctx, "order rejected",
				logger.Field{Key: "orderID", Value: entry.ID},
				logger.Field{Key: "reason", Value: err.Error()},
			)
			return nil
		}
		return err
	}

	for _, trade := range trades {
		if err := e.publisher.Publish(ctx, trade); err != nil {
			return err
		}
	}

	e.processed++
	if e.opts.SnapshotEvery > 0 && e.processed%e.opts.SnapshotEvery == 0 {
		if err := e.save(ctx); err != nil {
			return err
		}
	}

	return nil
}

// restore loads prior book state. A corrupt snapshot is fatal: resuming
// against unknown state risks incorrect matches, and falling back to an
// empty book would mask data loss.
func (e *Engine) restore(ctx context.Context) error {
	snapshot, err := e.store.Load(ctx)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return nil
	}

	if err := e.book.RestoreSnapshot(snapshot); err != nil {
		return errors.NewTracerWithCode(errors.SnapshotCorruptError, "failed to restore book from snapshot").Wrap(err)
	}

	e.logger.InfoContext(ctx, "book restored from snapshot",
		logger.Field{Key: "orders", Value: len(snapshot.Orders)},
	)
	return nil
}

func (e *Engine) save(ctx context.Context) error {
	return e.store.Save(ctx, e.book.CreateSnapshot())
}
