// Package contracttest holds behavioral suites every repository
// implementation must pass. The memory and postgres adapters both run them,
// which keeps the two backends interchangeable.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/camino-app/route-planner-api/internal/domain"
	optionsrepoport "github.com/camino-app/route-planner-api/internal/ports/out/optionsrepo"
	routerepoport "github.com/camino-app/route-planner-api/internal/ports/out/routerepo"
	userrepoport "github.com/camino-app/route-planner-api/internal/ports/out/userrepo"
	vehiclerepoport "github.com/camino-app/route-planner-api/internal/ports/out/vehiclerepo"
)

type CleanupFunc = func()

type RouteRepoFactory func(t *testing.T) (routerepoport.Repository, CleanupFunc)
type VehicleRepoFactory func(t *testing.T) (vehiclerepoport.Repository, CleanupFunc)
type OptionsRepoFactory func(t *testing.T) (optionsrepoport.Repository, CleanupFunc)
type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)

func RunRouteRepo(t *testing.T, newRepo RouteRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	userA := domain.UserID(uuid.NewString())
	userB := domain.UserID(uuid.NewString())
	base := time.Unix(1000, 0).UTC()

	name := "Commute"
	first := domain.Route{
		ID:             domain.RouteID(uuid.NewString()),
		Name:           &name,
		Origin:         "39.98,-0.05",
		Destination:    "39.99,-0.03",
		MobilityType:   "vehicle",
		MobilityMethod: "vehicle",
		RouteType:      "fastest",
		CreatedAt:      base,
	}
	if err := repo.Save(ctx, userA, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	second := domain.Route{
		ID:             domain.RouteID(uuid.NewString()),
		Origin:         "39.90,-0.10",
		Destination:    "39.95,-0.08",
		MobilityType:   "bike",
		MobilityMethod: "bike",
		RouteType:      "shortest",
		CreatedAt:      base.Add(time.Minute),
	}
	if err := repo.Save(ctx, userA, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	// CreatedAt ascending ordering.
	list, err := repo.List(ctx, userA)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("unexpected list: %#v", list)
	}

	// Per-user isolation.
	other, err := repo.List(ctx, userB)
	if err != nil {
		t.Fatalf("List other user: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected empty list for other user, got %#v", other)
	}
	if _, err := repo.Get(ctx, userB, first.ID); !errors.Is(err, routerepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound across users, got %v", err)
	}

	got, err := repo.Get(ctx, userA, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name == nil || *got.Name != "Commute" || got.RouteType != "fastest" {
		t.Fatalf("unexpected route: %#v", got)
	}

	// Update replaces the stored record.
	renamed := got
	newName := "Commute v2"
	renamed.Name = &newName
	renamed.RouteType = "recommended"
	if err := repo.Update(ctx, userA, first.ID, renamed); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.Get(ctx, userA, first.ID)
	if err != nil || got.Name == nil || *got.Name != "Commute v2" || got.RouteType != "recommended" {
		t.Fatalf("expected updated route, got %#v err=%v", got, err)
	}
	if err := repo.Update(ctx, userA, domain.RouteID(uuid.NewString()), renamed); !errors.Is(err, routerepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on unknown update, got %v", err)
	}

	if err := repo.Delete(ctx, userA, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, userA, first.ID); !errors.Is(err, routerepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeated delete, got %v", err)
	}
}

func RunVehicleRepo(t *testing.T, newRepo VehicleRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	owner := domain.UserID(uuid.NewString())
	stranger := domain.UserID(uuid.NewString())

	consumption := 5.5
	fuel := "diesel"
	car := domain.Vehicle{
		OwnerID:     owner,
		Name:        "Seat Leon",
		Type:        domain.VehicleTypeFuelCar,
		FuelType:    &fuel,
		Consumption: &consumption,
	}
	if err := repo.Create(ctx, car); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Name uniqueness within an owner.
	if err := repo.Create(ctx, car); !errors.Is(err, vehiclerepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	// Same name under a different owner is fine.
	other := car
	other.OwnerID = stranger
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create same name different owner: %v", err)
	}

	bike := domain.Vehicle{OwnerID: owner, Name: "BH Trail", Type: domain.VehicleTypeBike}
	if err := repo.Create(ctx, bike); err != nil {
		t.Fatalf("Create bike: %v", err)
	}

	// Name ascending ordering, scoped to the owner.
	list, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 2 || list[0].Name != "BH Trail" || list[1].Name != "Seat Leon" {
		t.Fatalf("unexpected list: %#v", list)
	}

	got, err := repo.GetByName(ctx, owner, "Seat Leon")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.FuelType == nil || *got.FuelType != "diesel" || got.Consumption == nil || *got.Consumption != 5.5 {
		t.Fatalf("unexpected vehicle: %#v", got)
	}

	got.Favorite = true
	got.Consumption = nil
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByName(ctx, owner, "Seat Leon")
	if err != nil || !got.Favorite || got.Consumption != nil {
		t.Fatalf("expected updated vehicle, got %#v err=%v", got, err)
	}

	if err := repo.DeleteByName(ctx, owner, "Seat Leon"); err != nil {
		t.Fatalf("DeleteByName: %v", err)
	}
	if err := repo.DeleteByName(ctx, owner, "Seat Leon"); !errors.Is(err, vehiclerepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeated delete, got %v", err)
	}
	// The stranger's vehicle with the same name survives.
	if _, err := repo.GetByName(ctx, stranger, "Seat Leon"); err != nil {
		t.Fatalf("expected stranger's vehicle untouched: %v", err)
	}
}

func RunOptionsRepo(t *testing.T, newRepo OptionsRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	userID := domain.UserID(uuid.NewString())

	// No record yet: ErrNotFound, not defaults. Defaulting is the service's.
	if _, err := repo.Get(ctx, userID); !errors.Is(err, optionsrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	vehicleName := "Seat Leon"
	opts := domain.Options{
		TransportMode: domain.TransportModeVehicle,
		RouteType:     "economic",
		VehicleName:   &vehicleName,
	}
	if err := repo.Save(ctx, userID, opts); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.RouteType != "economic" || got.VehicleName == nil || *got.VehicleName != "Seat Leon" {
		t.Fatalf("unexpected options: %#v", got)
	}

	// Save replaces the whole record.
	opts.VehicleName = nil
	opts.TransportMode = domain.TransportModeWalk
	if err := repo.Save(ctx, userID, opts); err != nil {
		t.Fatalf("Save replace: %v", err)
	}
	got, err = repo.Get(ctx, userID)
	if err != nil || got.VehicleName != nil || got.TransportMode != domain.TransportModeWalk {
		t.Fatalf("expected replaced options, got %#v err=%v", got, err)
	}
}

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(3000, 0).UTC()
	id := domain.UserID(uuid.NewString())
	rec := userrepoport.Record{
		ID:           id,
		Email:        "al123456@uji.es",
		Nickname:     "Maria",
		PasswordHash: "$2a$10$notarealhash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Email uniqueness is case-insensitive.
	dup := rec
	dup.ID = domain.UserID(uuid.NewString())
	dup.Email = "AL123456@uji.es"
	if err := repo.Create(ctx, dup); !errors.Is(err, userrepoport.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil || got.Nickname != "Maria" {
		t.Fatalf("GetByID: %#v err=%v", got, err)
	}
	got, err = repo.GetByEmail(ctx, "AL123456@UJI.ES")
	if err != nil || got.ID != id {
		t.Fatalf("expected case-insensitive email lookup, got %#v err=%v", got, err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@uji.es"); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got.Nickname = "Maria J"
	got.UpdatedAt = now.Add(time.Hour)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, id)
	if err != nil || got.Nickname != "Maria J" {
		t.Fatalf("expected updated nickname, got %#v err=%v", got, err)
	}
}
