package snapshotv1

import "context"

// Store defines the interface for persisting and loading snapshots of
// the order book.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=snapshotv1_mock
type Store interface {
	// Save persists the snapshot, replacing any prior state.
	Save(ctx context.Context, snapshot *Snapshot) error
	// Load returns the persisted snapshot, nil when no prior state
	// exists, or an error wrapping ErrCorrupt when the state is
	// unreadable.
	Load(ctx context.Context) (*Snapshot, error)
}
