package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	snapshotv1 "github.com/kerwei/orderbook/internal/domain/snapshot/v1"
	"github.com/kerwei/orderbook/pkg/errors"
	"github.com/kerwei/orderbook/pkg/logger"
)

// FileStore persists the book snapshot as a JSON file. The file is
// read once at startup and overwritten at shutdown; removing it resets
// the book to empty on the next run. Writes go through a temp file and
// rename so a crash mid-save never leaves a half-written snapshot.
type FileStore struct {
	path   string
	logger *logger.Logger
}

// NewFileStore creates a file-backed snapshot store at path.
func NewFileStore(path string, log *logger.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: log,
	}
}

// Save persists the snapshot, replacing any prior state.
func (s *FileStore) Save(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		return errors.NewTracerWithCode(errors.SnapshotStoreError, "failed to marshal snapshot").Wrap(err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewTracerWithCode(errors.SnapshotStoreError, "failed to create snapshot directory").Wrap(err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return errors.NewTracerWithCode(errors.SnapshotStoreError, "failed to create snapshot temp file").Wrap(err)
	}

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.NewTracerWithCode(errors.SnapshotStoreError, "failed to write snapshot").Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.NewTracerWithCode(errors.SnapshotStoreError, "failed to close snapshot temp file").Wrap(err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errors.NewTracerWithCode(errors.SnapshotStoreError, "failed to replace snapshot file").Wrap(err)
	}

	s.logger.InfoContext(ctx, "snapshot saved",
		logger.Field{Key: "path", Value: s.path},
		logger.Field{Key: "orders", Value: len(snapshot.Orders)},
	)
	return nil
}

// Load returns the persisted snapshot, nil when no snapshot file
// exists. An unreadable or unversioned payload is corrupt, never
// silently treated as empty.
func (s *FileStore) Load(ctx context.Context) (*snapshotv1.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.InfoContext(ctx, "no snapshot found, starting with an empty book",
			logger.Field{Key: "path", Value: s.path},
		)
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewTracerWithCode(errors.SnapshotLoadError, "failed to read snapshot file").Wrap(err)
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.NewTracerWithCode(errors.SnapshotCorruptError, "snapshot payload is not valid JSON").Wrap(err)
	}
	if snapshot.Version != snapshotv1.Version {
		return nil, errors.NewTracerWithCode(errors.SnapshotCorruptError, "unsupported snapshot version").Wrap(snapshotv1.ErrCorrupt)
	}

	s.logger.InfoContext(ctx, "snapshot loaded",
		logger.Field{Key: "path", Value: s.path},
		logger.Field{Key: "orders", Value: len(snapshot.Orders)},
	)
	return &snapshot, nil
}
