package snapshot

import (
	"context"
	"encoding/json"

	snapshotv1 "github.com/kerwei/orderbook/internal/domain/snapshot/v1"
	"github.com/kerwei/orderbook/pkg/errors"
	"github.com/kerwei/orderbook/pkg/logger"
	"github.com/kerwei/orderbook/pkg/redis"
)

// RedisStore persists the book snapshot under a single Redis key, for
// deployments where the engine host's disk is not durable. Same JSON
// payload as the file store.
type RedisStore struct {
	key         string
	logger      *logger.Logger
	redisclient redis.Client
}

// NewRedisStore creates a Redis-backed snapshot store under key.
func NewRedisStore(redisclient redis.Client, key string, log *logger.Logger) *RedisStore {
	return &RedisStore{
		key:         key,
		redisclient: redisclient,
		logger:      log,
	}
}

// Save persists the snapshot, replacing any prior state.
func (s *RedisStore) Save(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		return errors.NewTracerWithCode(errors.SnapshotStoreError, "failed to marshal snapshot").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.key, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "key",
			Value: s.key,
		})
		return errors.NewTracerWithCode(errors.SnapshotStoreError, "failed to store snapshot").Wrap(err)
	}

	s.logger.InfoContext(ctx, "snapshot saved",
		logger.Field{Key: "key", Value: s.key},
		logger.Field{Key: "orders", Value: len(snapshot.Orders)},
	)
	return nil
}

// Load returns the persisted snapshot, nil when the key is absent.
func (s *RedisStore) Load(ctx context.Context) (*snapshotv1.Snapshot, error) {
	data, err := s.redisclient.Get(ctx, s.key)
	if err != nil {
		return nil, errors.NewTracerWithCode(errors.SnapshotLoadError, "failed to load snapshot").Wrap(err)
	}

	if data == "" {
		s.logger.InfoContext(ctx, "no snapshot found, starting with an empty book",
			logger.Field{Key: "key", Value: s.key},
		)
		return nil, nil
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, errors.NewTracerWithCode(errors.SnapshotCorruptError, "snapshot payload is not valid JSON").Wrap(err)
	}
	if snapshot.Version != snapshotv1.Version {
		return nil, errors.NewTracerWithCode(errors.SnapshotCorruptError, "unsupported snapshot version").Wrap(snapshotv1.ErrCorrupt)
	}

	s.logger.InfoContext(ctx, "snapshot loaded",
		logger.Field{Key: "key", Value: s.key},
		logger.Field{Key: "orders", Value: len(snapshot.Orders)},
	)
	return &snapshot, nil
}
