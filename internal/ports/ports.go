package ports

import (
	"context"
	"time"

	"t1ddigest/internal/domain"
)

// RecordSource pulls fresh normalized records from upstream providers.
type RecordSource interface {
	FetchLatest(ctx context.Context) ([]domain.RawRecord, error)
}

// ArchiveStore persists the deduplicated digest history across runs.
type ArchiveStore interface {
	Load() ([]domain.ArchiveEntry, error)
	Save(entries []domain.ArchiveEntry) error
}

// HistoryRepository records emitted digest entries for audit and stats.
type HistoryRepository interface {
	AlreadyStored(ctx context.Context, ids []string) (map[string]bool, error)
	SaveEntry(ctx context.Context, runAt time.Time, entry domain.DigestEntry) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
