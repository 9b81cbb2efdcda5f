package memory

import (
	"context"
	"sync"

	"github.com/montasim/school-management-backend-sub003/repository"
)

type principalRepository struct {
	mu  sync.RWMutex
	ids map[string]struct{}
	err error
}

// NewPrincipalRepository returns an in-memory PrincipalRepository seeded
// with the given admin ids.
func NewPrincipalRepository(ids ...string) *PrincipalRepo {
	repo := &PrincipalRepo{inner: &principalRepository{ids: make(map[string]struct{})}}
	for _, id := range ids {
		repo.Add(id)
	}
	return repo
}

// PrincipalRepo is the concrete in-memory implementation. Tests can add
// principals after construction or force a lookup failure.
type PrincipalRepo struct {
	inner *principalRepository
}

var _ repository.PrincipalRepository = (*PrincipalRepo)(nil)

func (r *PrincipalRepo) Add(id string) {
	r.inner.mu.Lock()
	defer r.inner.mu.Unlock()
	r.inner.ids[id] = struct{}{}
}

// FailWith makes every subsequent Exists call return err, emulating an
// unreachable principal store.
func (r *PrincipalRepo) FailWith(err error) {
	r.inner.mu.Lock()
	defer r.inner.mu.Unlock()
	r.inner.err = err
}

func (r *PrincipalRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.inner.mu.RLock()
	defer r.inner.mu.RUnlock()
	if r.inner.err != nil {
		return false, r.inner.err
	}
	_, ok := r.inner.ids[id]
	return ok, nil
}
