// Package preferences implements the per-user default route options service.
package preferences

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/camino-app/route-planner-api/internal/apperr"
	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/connectivity"
	"github.com/camino-app/route-planner-api/internal/ports/out/optionsrepo"
)

// VehicleLister is the slice of the vehicle service the preferences service
// needs: checking that a default vehicle actually exists for the user.
type VehicleLister interface {
	GetVehicles(ctx context.Context, ownerID domain.UserID) ([]domain.Vehicle, error)
}

// Service stores and validates a user's default route-computation options.
type Service struct {
	repo     optionsrepo.Repository
	vehicles VehicleLister
	probe    connectivity.Probe
	log      *zap.Logger
}

func NewService(repo optionsrepo.Repository, vehicles VehicleLister, probe connectivity.Probe, log *zap.Logger) *Service {
	if probe == nil {
		probe = connectivity.Always(true)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		vehicles: vehicles,
		probe:    probe,
		log:      log.With(zap.String("component", "preferences")),
	}
}

// Get returns the user's stored options, falling back to the defaults when
// none were ever saved.
func (s *Service) Get(ctx context.Context, userID domain.UserID) (domain.Options, error) {
	if userID == "" {
		return domain.Options{}, apperr.New(401, apperr.CodeUserNotFound, "no user id resolved for preferences")
	}
	opts, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, optionsrepo.ErrNotFound) {
			return domain.DefaultOptions(), nil
		}
		return domain.Options{}, err
	}
	return opts, nil
}

// SaveInput is a partial update. Nil fields retain the stored (or default)
// values; ClearVehicleName drops the default vehicle.
type SaveInput struct {
	TransportMode *domain.TransportMode
	RouteType     *string
	VehicleName   *string

	ClearVehicleName bool
}

// Save merges in over the stored/default record and persists the result.
// Validation happens before any write: an unknown transport mode fails with
// MOBILITY_TYPE_NOT_FOUND, a default vehicle that is not registered for the
// user fails with VEHICLE_NOT_FOUND, and an offline store fails with
// DATABASE_NOT_AVAILABLE without touching the repository.
func (s *Service) Save(ctx context.Context, userID domain.UserID, in SaveInput) error {
	if userID == "" {
		return apperr.New(401, apperr.CodeUserNotFound, "no user id resolved for preferences")
	}

	opts, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if in.TransportMode != nil {
		opts.TransportMode = *in.TransportMode
	}
	if in.RouteType != nil {
		opts.RouteType = *in.RouteType
	}
	if in.ClearVehicleName {
		opts.VehicleName = nil
	} else if in.VehicleName != nil {
		opts.VehicleName = in.VehicleName
	}

	if !opts.TransportMode.IsValid() {
		return apperr.New(422, apperr.CodeMobilityTypeNotFound, "unknown transport mode").
			WithDetails(map[string]any{"transportMode": string(opts.TransportMode)})
	}

	if opts.TransportMode == domain.TransportModeVehicle && in.VehicleName != nil {
		owned, err := s.vehicles.GetVehicles(ctx, userID)
		if err != nil {
			return err
		}
		if !hasVehicle(owned, *in.VehicleName) {
			return apperr.New(404, apperr.CodeVehicleNotFound, "default vehicle is not registered").
				WithDetails(map[string]any{"vehicleName": *in.VehicleName})
		}
	}

	if !s.probe.Online(ctx) {
		return apperr.New(503, apperr.CodeDatabaseNotAvailable, "store is not reachable; preferences were not saved")
	}

	if err := s.repo.Save(ctx, userID, opts); err != nil {
		return err
	}
	s.log.Debug("preferences saved",
		zap.String("user_id", string(userID)),
		zap.String("transport_mode", string(opts.TransportMode)))
	return nil
}

func hasVehicle(vs []domain.Vehicle, name string) bool {
	for _, v := range vs {
		if v.Name == name {
			return true
		}
	}
	return false
}
