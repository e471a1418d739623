// Package session holds the cached identity for the current client context.
//
// The holder replaces the original ambient-singleton session cache with an
// explicitly constructed value: callers that want "current user" resolution
// go through Resolve at the boundary instead of services reaching into a
// global.
package session

import (
	"net/http"
	"sync"

	"github.com/camino-app/route-planner-api/internal/apperr"
	"github.com/camino-app/route-planner-api/internal/domain"
)

// Session is a cached (userId, token) pair representing an authenticated actor.
type Session struct {
	UserID domain.UserID `json:"userId"`
	Token  string        `json:"token"`
}

// IsOpen reports whether the session identifies a user.
func (s Session) IsOpen() bool { return s.UserID != "" }

// Store persists a session between process runs. Implementations must treat
// "no session" as (Session{}, false, nil), not an error.
type Store interface {
	Load() (Session, bool, error)
	Save(s Session) error
	Clear() error
}

// Holder caches at most one active session per client context.
// It is safe for concurrent use.
type Holder struct {
	mu    sync.RWMutex
	cur   Session
	open  bool
	store Store
}

// NewHolder builds a holder over store. A nil store keeps the session purely
// in memory.
func NewHolder(store Store) *Holder {
	h := &Holder{store: store}
	if store != nil {
		if s, ok, err := store.Load(); err == nil && ok && s.IsOpen() {
			h.cur, h.open = s, true
		}
	}
	return h
}

// Current returns the cached session and whether one is open.
func (h *Holder) Current() (Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cur, h.open
}

// Set caches s and persists it to the backing store. Sessions without a user
// id are rejected: an "open" session always identifies a user.
func (h *Holder) Set(s Session) error {
	if !s.IsOpen() {
		return apperr.New(422, apperr.CodeInvalidData, "session must identify a user")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur, h.open = s, true
	if h.store != nil {
		return h.store.Save(s)
	}
	return nil
}

// Clear drops the cached session and removes it from the backing store.
func (h *Holder) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur, h.open = Session{}, false
	if h.store != nil {
		return h.store.Clear()
	}
	return nil
}

// Resolve applies the identity-resolution rule used at the API boundary:
// an explicit user id wins; otherwise the cached session's user; otherwise a
// USER_NOT_FOUND failure.
func Resolve(h *Holder, explicit domain.UserID) (domain.UserID, error) {
	if explicit != "" {
		return explicit, nil
	}
	if h != nil {
		if s, ok := h.Current(); ok {
			return s.UserID, nil
		}
	}
	return "", apperr.New(http.StatusUnauthorized, apperr.CodeUserNotFound,
		"user session not found; provide an explicit user id or log in")
}
