package repository

import (
	"context"
	"time"
)

// DB は接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// Snapshot keys.
const (
	SnapshotTeam     = "team"
	SnapshotProjects = "projects"
)

// Snapshot is the last successfully loaded payload of a public page, used as
// a read-only fallback when the backend is unreachable.
type Snapshot struct {
	Key     string
	Payload []byte // JSON
	SavedAt time.Time
}

// SnapshotRepository persists page snapshots. Load returns ErrNotFound when
// nothing was saved under key.
type SnapshotRepository interface {
	Save(ctx context.Context, key string, payload []byte) error
	Load(ctx context.Context, key string) (*Snapshot, error)
}
