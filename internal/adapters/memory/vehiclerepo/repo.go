package vehiclerepo

import (
	"context"
	"sort"
	"sync"

	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/vehiclerepo"
)

// Repo is an in-memory implementation of vehiclerepo.Repository.
// It is safe for concurrent use.
//
// Vehicles are kept in a slice per owner rather than a map keyed by name so
// that DeleteByName can honor the delete-all-matches contract even if a
// duplicate ever slipped in.
type Repo struct {
	mu      sync.RWMutex
	byOwner map[domain.UserID][]domain.Vehicle
}

func NewRepo() *Repo {
	return &Repo{
		byOwner: make(map[domain.UserID][]domain.Vehicle),
	}
}

func (r *Repo) Create(ctx context.Context, v domain.Vehicle) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byOwner[v.OwnerID] {
		if existing.Name == v.Name {
			return vehiclerepo.ErrAlreadyExists
		}
	}
	r.byOwner[v.OwnerID] = append(r.byOwner[v.OwnerID], cloneVehicle(v))
	return nil
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]domain.Vehicle, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Vehicle, 0, len(r.byOwner[ownerID]))
	for _, v := range r.byOwner[ownerID] {
		out = append(out, cloneVehicle(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Repo) GetByName(ctx context.Context, ownerID domain.UserID, name string) (domain.Vehicle, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.byOwner[ownerID] {
		if v.Name == name {
			return cloneVehicle(v), nil
		}
	}
	return domain.Vehicle{}, vehiclerepo.ErrNotFound
}

func (r *Repo) Update(ctx context.Context, v domain.Vehicle) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byOwner[v.OwnerID]
	for i, existing := range list {
		if existing.Name == v.Name {
			list[i] = cloneVehicle(v)
			return nil
		}
	}
	return vehiclerepo.ErrNotFound
}

func (r *Repo) DeleteByName(ctx context.Context, ownerID domain.UserID, name string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byOwner[ownerID]
	next := list[:0:0]
	for _, v := range list {
		if v.Name != name {
			next = append(next, v)
		}
	}
	if len(next) == len(list) {
		return vehiclerepo.ErrNotFound
	}
	r.byOwner[ownerID] = next
	return nil
}

func cloneVehicle(v domain.Vehicle) domain.Vehicle {
	cp := v
	if v.FuelType != nil {
		s := *v.FuelType
		cp.FuelType = &s
	}
	if v.Consumption != nil {
		c := *v.Consumption
		cp.Consumption = &c
	}
	return cp
}
