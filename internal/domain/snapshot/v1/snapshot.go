package snapshotv1

import (
	"errors"

	orderbookv1 "github.com/kerwei/orderbook/internal/domain/orderbook/v1"
)

// Version is the current snapshot format version. Loaders must reject
// any other version as corrupt rather than guess at its layout.
const Version = 1

// ErrCorrupt marks persisted book state that is unreadable or
// inconsistent. Fatal at startup: resuming against unknown state risks
// incorrect matches.
var ErrCorrupt = errors.New("snapshot corrupt")

// Snapshot is the persisted representation of the book's resting
// orders, enough to resume matching and iceberg behavior identically
// to an uninterrupted run.
type Snapshot struct {
	Version  int         `json:"version"`
	Sequence uint64      `json:"sequence"`
	Orders   []BookOrder `json:"orders"`
}

// BookOrder is one resting order record.
type BookOrder struct {
	ID           string           `json:"id"`
	Side         orderbookv1.Side `json:"side"`
	Price        int64            `json:"price"`
	TotalQty     int64            `json:"totalQty"`
	RemainingQty int64            `json:"remainingQty"`
	VisibleQty   int64            `json:"visibleQty"`
	DisclosedQty int64            `json:"disclosedQty"`
	Sequence     uint64           `json:"sequence"`
}
