package storage

import (
	"context"

	"routeScope/internal/model"
)

// SnapshotSource loads the pool snapshots of one chain.
type SnapshotSource interface {
	LoadPoolSnapshots(ctx context.Context, chainID uint64) ([]model.PoolSnapshot, error)
}

// SnapshotSink persists pool snapshots.
type SnapshotSink interface {
	PutPoolSnapshots(ctx context.Context, snaps []model.PoolSnapshot) error
}
