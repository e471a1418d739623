package optionsrepo

import (
	"context"
	"sync"

	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/optionsrepo"
)

// Repo is an in-memory implementation of optionsrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	byUser map[domain.UserID]domain.Options
}

func NewRepo() *Repo {
	return &Repo{
		byUser: make(map[domain.UserID]domain.Options),
	}
}

func (r *Repo) Get(ctx context.Context, userID domain.UserID) (domain.Options, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	opts, ok := r.byUser[userID]
	if !ok {
		return domain.Options{}, optionsrepo.ErrNotFound
	}
	return cloneOptions(opts), nil
}

func (r *Repo) Save(ctx context.Context, userID domain.UserID, opts domain.Options) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = cloneOptions(opts)
	return nil
}

func cloneOptions(opts domain.Options) domain.Options {
	cp := opts
	if opts.VehicleName != nil {
		v := *opts.VehicleName
		cp.VehicleName = &v
	}
	return cp
}
