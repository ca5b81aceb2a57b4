package reports

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo. Process-scoped: entries
// do not survive restart, which is why lookups fall back to the filesystem.
type MemoryRepo struct {
	mu      sync.RWMutex
	data    map[string]Report
	byToken map[string]string // share token -> report id
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data:    make(map[string]Report),
		byToken: make(map[string]string),
	}
}

// Create stores a registry row for a generated report.
func (r *MemoryRepo) Create(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[report.ID] = report
	if report.ShareToken != "" {
		r.byToken[report.ShareToken] = report.ID
	}
	return nil
}

// GetByID returns a registry row by report id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.data[id]
	if !ok {
		return Report{}, ErrNotFound
	}
	return report, nil
}

// GetByShareToken returns the registry row a share token points at.
func (r *MemoryRepo) GetByShareToken(ctx context.Context, token string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byToken[token]
	if !ok {
		return Report{}, ErrNotFound
	}
	report, ok := r.data[id]
	if !ok {
		return Report{}, ErrNotFound
	}
	return report, nil
}

// UpdateShareToken attaches a share token to a report.
func (r *MemoryRepo) UpdateShareToken(ctx context.Context, id, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	if report.ShareToken != "" {
		delete(r.byToken, report.ShareToken)
	}
	report.ShareToken = token
	r.data[id] = report
	r.byToken[token] = id
	return nil
}

// List returns registry rows newest first, honoring limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	all := make([]Report, 0, len(r.data))
	for _, report := range r.data {
		all = append(all, report)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []Report{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// PurgeMissing drops rows whose report no longer exists on disk.
func (r *MemoryRepo) PurgeMissing(ctx context.Context, exists func(Report) bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	purged := 0
	for id, report := range r.data {
		if exists(report) {
			continue
		}
		delete(r.data, id)
		if report.ShareToken != "" {
			delete(r.byToken, report.ShareToken)
		}
		purged++
	}
	return purged, nil
}
