package routerepo

import (
	"context"
	"sort"
	"sync"

	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/routerepo"
)

// Repo is an in-memory implementation of routerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	byUser map[domain.UserID]map[domain.RouteID]domain.Route
}

func NewRepo() *Repo {
	return &Repo{
		byUser: make(map[domain.UserID]map[domain.RouteID]domain.Route),
	}
}

func (r *Repo) Save(ctx context.Context, userID domain.UserID, rt domain.Route) error {
	_ = ctx
	if rt.ID == "" {
		return routerepo.ErrAlreadyExists // treat empty ID as invalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	routes, ok := r.byUser[userID]
	if !ok {
		routes = make(map[domain.RouteID]domain.Route)
		r.byUser[userID] = routes
	}
	if _, ok := routes[rt.ID]; ok {
		return routerepo.ErrAlreadyExists
	}
	routes[rt.ID] = cloneRoute(rt)
	return nil
}

func (r *Repo) List(ctx context.Context, userID domain.UserID) ([]domain.Route, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Route, 0, len(r.byUser[userID]))
	for _, rt := range r.byUser[userID] {
		out = append(out, cloneRoute(rt))
	}
	sortRoutes(out)
	return out, nil
}

func (r *Repo) Get(ctx context.Context, userID domain.UserID, id domain.RouteID) (domain.Route, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.byUser[userID][id]
	if !ok {
		return domain.Route{}, routerepo.ErrNotFound
	}
	return cloneRoute(rt), nil
}

func (r *Repo) Update(ctx context.Context, userID domain.UserID, id domain.RouteID, rt domain.Route) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	routes := r.byUser[userID]
	if _, ok := routes[id]; !ok {
		return routerepo.ErrNotFound
	}
	rt.ID = id
	routes[id] = cloneRoute(rt)
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID domain.UserID, id domain.RouteID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	routes := r.byUser[userID]
	if _, ok := routes[id]; !ok {
		return routerepo.ErrNotFound
	}
	delete(routes, id)
	return nil
}

func cloneRoute(rt domain.Route) domain.Route {
	cp := rt
	cp.Name = cloneStringPtr(rt.Name)
	cp.OriginLabel = cloneStringPtr(rt.OriginLabel)
	cp.DestinationLabel = cloneStringPtr(rt.DestinationLabel)
	return cp
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortRoutes(rs []domain.Route) {
	// CreatedAt ascending, ID as tie-breaker.
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].CreatedAt.Before(rs[j].CreatedAt)
		}
		return rs[i].ID < rs[j].ID
	})
}
