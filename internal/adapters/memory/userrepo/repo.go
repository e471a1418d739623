package userrepo

import (
	"context"
	"strings"
	"sync"

	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/userrepo"
)

// Repo is an in-memory implementation of userrepo.Repository.
// It is safe for concurrent use. Email lookups are case-insensitive.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.UserID]userrepo.Record
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.UserID]userrepo.Record),
	}
}

func (r *Repo) Create(ctx context.Context, u userrepo.Record) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; ok {
		return userrepo.ErrAlreadyExists
	}
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return userrepo.ErrEmailTaken
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *Repo) Update(ctx context.Context, u userrepo.Record) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return userrepo.ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.Record, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return userrepo.Record{}, userrepo.ErrNotFound
	}
	return u, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (userrepo.Record, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return userrepo.Record{}, userrepo.ErrNotFound
}
