package reports

import "context"

// Repo is the report registry. It replaces the original process-lifetime
// share-token map: rows are written at generation time, share tokens are
// attached on demand, and rows whose artifacts vanished are purged after
// cleanup. The filesystem stays the source of truth; registry misses fall
// back to the store.
type Repo interface {
	Create(ctx context.Context, report Report) error
	GetByID(ctx context.Context, id string) (Report, error)
	GetByShareToken(ctx context.Context, token string) (Report, error)
	UpdateShareToken(ctx context.Context, id, token string) error
	List(ctx context.Context, limit, offset int) ([]Report, error)
	PurgeMissing(ctx context.Context, exists func(Report) bool) (int, error)
}
