package vehiclerepo

import (
	"context"

	"github.com/camino-app/route-planner-api/internal/domain"
)

// Repository provides access to persisted vehicles. Vehicles are identified by
// (ownerID, name); name is unique within an owner's set.
//
// Result ordering expectations:
// - ListByOwner should return vehicles ordered by Name ascending.
type Repository interface {
	// Create persists a new vehicle or returns ErrAlreadyExists when the owner
	// already has a vehicle with the same name.
	Create(ctx context.Context, v domain.Vehicle) error

	// ListByOwner returns all vehicles owned by ownerID; empty slice when none.
	ListByOwner(ctx context.Context, ownerID domain.UserID) ([]domain.Vehicle, error)

	// GetByName returns the vehicle or ErrNotFound.
	GetByName(ctx context.Context, ownerID domain.UserID, name string) (domain.Vehicle, error)

	// Update replaces the stored vehicle matching (v.OwnerID, v.Name) or
	// returns ErrNotFound.
	Update(ctx context.Context, v domain.Vehicle) error

	// DeleteByName removes every vehicle matching (ownerID, name) and returns
	// ErrNotFound when there was no match. Deleting all matches defends against
	// accidental duplicates even though the uniqueness invariant should prevent
	// them.
	DeleteByName(ctx context.Context, ownerID domain.UserID, name string) error
}
