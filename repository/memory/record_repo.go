// Package memory provides in-memory repository implementations with the
// same semantics as the Postgres ones (uniqueness conflicts, partial
// merge, rows-affected contracts). Used by tests and local demos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/montasim/school-management-backend-sub003/domain"
	"github.com/montasim/school-management-backend-sub003/repository"
)

type recordRepository struct {
	mu          sync.RWMutex
	records     map[string]*domain.Record
	uniqueField string
}

// NewRecordRepository returns an in-memory RecordRepository. The unique
// field mirrors the unique index the Postgres schema declares for the
// collection; empty disables the constraint.
func NewRecordRepository(uniqueField string) repository.RecordRepository {
	return &recordRepository{
		records:     make(map[string]*domain.Record),
		uniqueField: uniqueField,
	}
}

func (r *recordRepository) Create(ctx context.Context, record *domain.Record) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.ID]; ok {
		return domain.ErrDuplicateRecord
	}
	if r.uniqueField != "" {
		want := stringify(record.Data[r.uniqueField])
		for _, existing := range r.records {
			if stringify(existing.Data[r.uniqueField]) == want {
				return domain.ErrDuplicateRecord
			}
		}
	}

	stored := record.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.records[stored.ID] = stored
	record.CreatedAt = stored.CreatedAt
	return nil
}

func (r *recordRepository) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return record.Clone(), nil
}

func (r *recordRepository) FindByField(ctx context.Context, field, value string) (*domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, record := range sortedLocked(r.records) {
		if stringify(record.Data[field]) == value {
			return record.Clone(), nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *recordRepository) List(ctx context.Context, filter repository.ListFilter) ([]domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Record
	for _, record := range sortedLocked(r.records) {
		if filter.Field != "" && len(filter.Values) > 0 {
			if !containsValue(filter.Values, stringify(record.Data[filter.Field])) {
				continue
			}
		}
		out = append(out, *record.Clone())
	}

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *recordRepository) Update(ctx context.Context, id string, patch repository.Patch) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return 0, nil
	}

	if r.uniqueField != "" {
		if v, supplied := patch.Data[r.uniqueField]; supplied {
			want := stringify(v)
			for otherID, other := range r.records {
				if otherID != id && stringify(other.Data[r.uniqueField]) == want {
					return 0, domain.ErrDuplicateRecord
				}
			}
		}
	}

	for k, v := range patch.Data {
		record.Data[k] = v
	}
	if patch.File != nil {
		f := *patch.File
		record.File = &f
	}
	record.ModifiedBy = patch.ModifiedBy
	modifiedAt := patch.ModifiedAt
	if modifiedAt.IsZero() {
		modifiedAt = time.Now().UTC()
	}
	record.ModifiedAt = &modifiedAt
	return 1, nil
}

func (r *recordRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

// sortedLocked returns records ordered like the Postgres list query:
// created_at DESC with id DESC as the tie-break. Caller holds the lock.
func sortedLocked(records map[string]*domain.Record) []*domain.Record {
	out := make([]*domain.Record, 0, len(records))
	for _, record := range records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func stringify(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func containsValue(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
