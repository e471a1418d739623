package vehicles

import (
	"context"
	"sort"
	"sync"

	"github.com/camino-app/route-planner-api/internal/domain"
)

// ListProjection is a local, presentation-facing copy of an owner's vehicle
// list. It implements the two consumer-side patterns the UI relies on:
//
//   - stale-result discard: every Refresh captures a monotonically increasing
//     request sequence; a fetch result is applied only if its captured
//     sequence still equals the counter at completion, so an old in-flight
//     fetch can never overwrite the result of a newer one.
//   - optimistic favorite toggle: SetFavorite flips the local flag before
//     calling the service and rolls it back when the call fails, returning
//     the failure to the caller as the tagged result.
//
// The projection keeps the list sorted favorites-first. It is safe for
// concurrent use.
type ListProjection struct {
	svc     *Service
	ownerID domain.UserID

	mu       sync.Mutex
	seq      uint64
	vehicles []domain.Vehicle
}

func NewListProjection(svc *Service, ownerID domain.UserID) *ListProjection {
	return &ListProjection{svc: svc, ownerID: ownerID}
}

// Vehicles returns a copy of the current local list.
func (p *ListProjection) Vehicles() []domain.Vehicle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Vehicle(nil), p.vehicles...)
}

// Refresh fetches the owner's vehicles and applies the result unless a newer
// refresh started in the meantime. It reports whether the result was applied.
func (p *ListProjection) Refresh(ctx context.Context) (applied bool, err error) {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	list, err := p.svc.GetVehicles(ctx, p.ownerID)
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.seq {
		// A newer refresh is in flight or already applied; drop this result.
		return false, nil
	}
	sortFavoritesFirst(list)
	p.vehicles = list
	return true, nil
}

// SetFavorite optimistically updates the local list, persists the change, and
// rolls the local state back when persistence fails.
func (p *ListProjection) SetFavorite(ctx context.Context, name string, favorite bool) error {
	p.applyFavorite(name, favorite)

	if err := p.svc.SetFavorite(ctx, p.ownerID, name, favorite); err != nil {
		p.applyFavorite(name, !favorite)
		return err
	}
	return nil
}

func (p *ListProjection) applyFavorite(name string, favorite bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.vehicles {
		if p.vehicles[i].Name == name {
			p.vehicles[i].Favorite = favorite
		}
	}
	sortFavoritesFirst(p.vehicles)
}

func sortFavoritesFirst(vs []domain.Vehicle) {
	sort.SliceStable(vs, func(i, j int) bool {
		return vs[i].Favorite && !vs[j].Favorite
	})
}
