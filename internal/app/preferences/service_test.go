package preferences

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memoptionsrepo "github.com/camino-app/route-planner-api/internal/adapters/memory/optionsrepo"
	memvehiclerepo "github.com/camino-app/route-planner-api/internal/adapters/memory/vehiclerepo"
	"github.com/camino-app/route-planner-api/internal/apperr"
	"github.com/camino-app/route-planner-api/internal/app/vehicles"
	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/connectivity"
	"github.com/camino-app/route-planner-api/internal/ports/out/optionsrepo"
)

// countingRepo tracks Save calls so tests can assert that validation failures
// never reach the store.
type countingRepo struct {
	optionsrepo.Repository
	saves int
}

func (c *countingRepo) Save(ctx context.Context, userID domain.UserID, opts domain.Options) error {
	c.saves++
	return c.Repository.Save(ctx, userID, opts)
}

func newFixture(t *testing.T, probe connectivity.Probe) (*Service, *countingRepo, *vehicles.Service) {
	t.Helper()
	repo := &countingRepo{Repository: memoptionsrepo.NewRepo()}
	vehicleSvc := vehicles.NewService(memvehiclerepo.NewRepo(), nil)
	return NewService(repo, vehicleSvc, probe, nil), repo, vehicleSvc
}

func TestGet_FallsBackToDefaults(t *testing.T) {
	t.Parallel()
	svc, _, _ := newFixture(t, connectivity.Always(true))

	got, err := svc.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOptions(), got)
}

func TestSave_MergesOverDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newFixture(t, connectivity.Always(true))

	routeType := "economic"
	require.NoError(t, svc.Save(ctx, "u-1", SaveInput{RouteType: &routeType}))

	got, err := svc.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "economic", got.RouteType)
	// Unspecified fields keep their default values.
	assert.Equal(t, domain.TransportModeVehicle, got.TransportMode)
	assert.Nil(t, got.VehicleName)
}

func TestSave_RejectsUnknownTransportMode(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newFixture(t, connectivity.Always(true))

	mode := domain.TransportMode("Autobús")
	err := svc.Save(context.Background(), "u-1", SaveInput{TransportMode: &mode})
	assert.True(t, apperr.HasCode(err, apperr.CodeMobilityTypeNotFound))
	assert.Zero(t, repo.saves, "invalid input must not reach the store")
}

func TestSave_RejectsUnregisteredDefaultVehicle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo, vehicleSvc := newFixture(t, connectivity.Always(true))

	name := "Phantom"
	err := svc.Save(ctx, "u-1", SaveInput{VehicleName: &name})
	assert.True(t, apperr.HasCode(err, apperr.CodeVehicleNotFound))
	assert.Zero(t, repo.saves)

	// Once registered, the same save goes through.
	require.NoError(t, vehicleSvc.RegisterVehicle(ctx, "u-1", domain.VehicleTypeBike, "Phantom", nil, nil))
	require.NoError(t, svc.Save(ctx, "u-1", SaveInput{VehicleName: &name}))

	got, err := svc.Get(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got.VehicleName)
	assert.Equal(t, "Phantom", *got.VehicleName)
}

func TestSave_OfflineStoreFailsWithoutWriting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo, _ := newFixture(t, connectivity.Always(false))

	routeType := "shortest"
	err := svc.Save(ctx, "u-1", SaveInput{RouteType: &routeType})
	assert.True(t, apperr.HasCode(err, apperr.CodeDatabaseNotAvailable))
	assert.Zero(t, repo.saves, "offline save must not write")

	// The stored state is unchanged: a later read still sees the defaults.
	got, err := svc.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOptions(), got)
}

func TestSave_ClearVehicleName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, vehicleSvc := newFixture(t, connectivity.Always(true))

	require.NoError(t, vehicleSvc.RegisterVehicle(ctx, "u-1", domain.VehicleTypeBike, "Phantom", nil, nil))
	name := "Phantom"
	require.NoError(t, svc.Save(ctx, "u-1", SaveInput{VehicleName: &name}))

	require.NoError(t, svc.Save(ctx, "u-1", SaveInput{ClearVehicleName: true}))
	got, err := svc.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, got.VehicleName)
}

func TestSave_RequiresUser(t *testing.T) {
	t.Parallel()
	svc, _, _ := newFixture(t, connectivity.Always(true))

	err := svc.Save(context.Background(), "", SaveInput{})
	assert.True(t, apperr.HasCode(err, apperr.CodeUserNotFound))
}
