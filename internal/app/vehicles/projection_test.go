package vehicles

import (
	"context"
	"errors"
	"testing"

	memvehiclerepo "github.com/camino-app/route-planner-api/internal/adapters/memory/vehiclerepo"
	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/vehiclerepo"
)

// gatedRepo pauses every ListByOwner until the test releases it, so tests can
// interleave two in-flight refreshes deterministically.
type gatedRepo struct {
	vehiclerepo.Repository
	gates chan chan struct{}
}

func (g *gatedRepo) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]domain.Vehicle, error) {
	release := make(chan struct{})
	g.gates <- release
	<-release
	return g.Repository.ListByOwner(ctx, ownerID)
}

func TestListProjection_StaleRefreshIsDiscarded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	owner := domain.UserID("u-1")

	inner := memvehiclerepo.NewRepo()
	gated := &gatedRepo{Repository: inner, gates: make(chan chan struct{}, 2)}
	svc := NewService(gated, nil)
	proj := NewListProjection(svc, owner)

	if err := svc.RegisterVehicle(ctx, owner, domain.VehicleTypeBike, "BH Trail", nil, nil); err != nil {
		t.Fatalf("RegisterVehicle: %v", err)
	}

	type result struct {
		applied bool
		err     error
	}
	firstDone := make(chan result, 1)
	go func() {
		applied, err := proj.Refresh(ctx)
		firstDone <- result{applied, err}
	}()
	releaseFirst := <-gated.gates

	secondDone := make(chan result, 1)
	go func() {
		applied, err := proj.Refresh(ctx)
		secondDone <- result{applied, err}
	}()
	releaseSecond := <-gated.gates

	// The newer refresh completes first and is applied.
	close(releaseSecond)
	if r := <-secondDone; r.err != nil || !r.applied {
		t.Fatalf("expected newer refresh applied, got %+v", r)
	}

	// The older refresh completes afterwards and must be discarded.
	close(releaseFirst)
	if r := <-firstDone; r.err != nil || r.applied {
		t.Fatalf("expected stale refresh discarded, got %+v", r)
	}

	if got := proj.Vehicles(); len(got) != 1 || got[0].Name != "BH Trail" {
		t.Fatalf("unexpected projection state: %#v", got)
	}
}

// failingUpdateRepo rejects updates, simulating a backend outage during a
// favorite toggle.
type failingUpdateRepo struct {
	vehiclerepo.Repository
}

func (f *failingUpdateRepo) Update(context.Context, domain.Vehicle) error {
	return errors.New("backend unavailable")
}

func TestListProjection_FavoriteRollsBackOnFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	owner := domain.UserID("u-1")

	inner := memvehiclerepo.NewRepo()
	if err := NewService(inner, nil).RegisterVehicle(ctx, owner, domain.VehicleTypeBike, "BH Trail", nil, nil); err != nil {
		t.Fatalf("RegisterVehicle: %v", err)
	}

	svc := NewService(&failingUpdateRepo{Repository: inner}, nil)
	proj := NewListProjection(svc, owner)
	if _, err := proj.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := proj.SetFavorite(ctx, "BH Trail", true); err == nil {
		t.Fatalf("expected error from failed persistence")
	}
	got := proj.Vehicles()
	if len(got) != 1 || got[0].Favorite {
		t.Fatalf("expected optimistic flip rolled back, got %#v", got)
	}
}

func TestListProjection_FavoritesSortFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	owner := domain.UserID("u-1")

	svc := NewService(memvehiclerepo.NewRepo(), nil)
	proj := NewListProjection(svc, owner)

	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		if err := svc.RegisterVehicle(ctx, owner, domain.VehicleTypeBike, name, nil, nil); err != nil {
			t.Fatalf("RegisterVehicle %s: %v", name, err)
		}
	}
	if _, err := proj.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := proj.SetFavorite(ctx, "Charlie", true); err != nil {
		t.Fatalf("SetFavorite: %v", err)
	}
	got := proj.Vehicles()
	if got[0].Name != "Charlie" || !got[0].Favorite {
		t.Fatalf("expected favorite first, got %#v", got)
	}
	// Non-favorites keep their relative order.
	if got[1].Name != "Alpha" || got[2].Name != "Bravo" {
		t.Fatalf("expected stable order among non-favorites, got %#v", got)
	}
}
