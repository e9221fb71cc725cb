package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kerwei/orderbook/internal/app/engine"
	feedv1 "github.com/kerwei/orderbook/internal/domain/feed/v1"
	snapshotv1 "github.com/kerwei/orderbook/internal/domain/snapshot/v1"
	tradesv1 "github.com/kerwei/orderbook/internal/domain/trades/v1"
	"github.com/kerwei/orderbook/internal/usecase/feed"
	"github.com/kerwei/orderbook/internal/usecase/orderbook"
	"github.com/kerwei/orderbook/internal/usecase/snapshot"
	"github.com/kerwei/orderbook/internal/usecase/trades"
	"github.com/kerwei/orderbook/pkg/config"
	"github.com/kerwei/orderbook/pkg/logger"
	"github.com/kerwei/orderbook/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr: stdout carries trade confirmations and the
	// final book rendering.
	log, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)),
		logger.WithOutputPaths([]string{"stderr"}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	store, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	source, err := buildSource(cfg, log)
	if err != nil {
		return err
	}
	defer source.Close()

	publisher, err := buildPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	book := orderbook.NewBook()
	eng := engine.NewEngine(book, source, store, publisher, log, &engine.Options{
		SnapshotEvery: cfg.Snapshot.Every,
	})

	if err := eng.Run(ctx); err != nil {
		return err
	}

	// Final state rendering, once the input stream is exhausted.
	fmt.Fprint(os.Stdout, orderbook.Render(book))
	return nil
}

func buildStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (snapshotv1.Store, error) {
	switch cfg.Snapshot.Backend {
	case config.SnapshotFile:
		return snapshot.NewFileStore(cfg.Snapshot.Path, log), nil
	case config.SnapshotRedis:
		client := redis.NewClient(log, &cfg.Redis)
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		return snapshot.NewRedisStore(client, cfg.Snapshot.Key, log), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
}

func buildSource(cfg *config.Config, log *logger.Logger) (feedv1.OrderSource, error) {
	switch cfg.Feed.Backend {
	case config.FeedStdin:
		return feed.NewStreamSource(os.Stdin, log), nil
	case config.FeedKafka:
		return feed.NewKafkaSource(cfg.Feed.Kafka, log), nil
	default:
		return nil, fmt.Errorf("unknown feed backend %q", cfg.Feed.Backend)
	}
}

func buildPublisher(cfg *config.Config, log *logger.Logger) (tradesv1.Publisher, error) {
	switch cfg.Trades.Backend {
	case config.TradesStdout:
		return trades.NewWriterSink(os.Stdout), nil
	case config.TradesKafka:
		return trades.NewKafkaPublisher(cfg.Trades.Kafka, cfg.App.Instrument, log), nil
	default:
		return nil, fmt.Errorf("unknown trades backend %q", cfg.Trades.Backend)
	}
}
