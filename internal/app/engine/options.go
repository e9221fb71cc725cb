package engine

// Options represents configuration options for the Engine.
type Options struct {
	// SnapshotEvery persists the book after every N processed entries,
	// on top of the final save at stream end. Zero disables periodic
	// snapshots.
	SnapshotEvery int64
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		SnapshotEvery: 0,
	}
}
