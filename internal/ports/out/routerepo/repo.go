package routerepo

import (
	"context"

	"github.com/camino-app/route-planner-api/internal/domain"
)

// Repository provides access to persisted routes. All methods are keyed by the
// owning user id; implementations must never return another user's routes.
//
// Result ordering expectations:
// - List should return routes ordered by CreatedAt ascending (ties broken by ID)
//   to keep behavior deterministic.
type Repository interface {
	// Save persists a new route under userID. The route's ID must already be
	// assigned by the caller.
	Save(ctx context.Context, userID domain.UserID, r domain.Route) error

	// List returns all routes owned by userID; empty slice when there are none.
	List(ctx context.Context, userID domain.UserID) ([]domain.Route, error)

	// Get returns the route or ErrNotFound.
	Get(ctx context.Context, userID domain.UserID, id domain.RouteID) (domain.Route, error)

	// Update replaces the stored route or returns ErrNotFound.
	Update(ctx context.Context, userID domain.UserID, id domain.RouteID, r domain.Route) error

	// Delete removes the route or returns ErrNotFound.
	Delete(ctx context.Context, userID domain.UserID, id domain.RouteID) error
}
