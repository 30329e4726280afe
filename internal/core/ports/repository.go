package ports

import (
	"context"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

type SnapshotRepository interface {
	GetByID(ctx context.Context, id string) (domain.Snapshot, error)
	Save(ctx context.Context, s domain.Snapshot) error
	ListRecent(ctx context.Context, limit int) ([]domain.Snapshot, error)
}

// SnapshotRecorder accepts snapshots for asynchronous persistence.
type SnapshotRecorder interface {
	Record(s domain.Snapshot)
}
