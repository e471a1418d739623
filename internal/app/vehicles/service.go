package vehicles

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/camino-app/route-planner-api/internal/apperr"
	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/vehiclerepo"
)

// Service orchestrates vehicle persistence for an owner. Vehicles are keyed
// by name within the owner's set.
type Service struct {
	repo vehiclerepo.Repository
	log  *zap.Logger
}

func NewService(repo vehiclerepo.Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo: repo,
		log:  log.With(zap.String("component", "vehicles")),
	}
}

// GetVehicles returns the owner's vehicles; empty results are not an error.
func (s *Service) GetVehicles(ctx context.Context, ownerID domain.UserID) ([]domain.Vehicle, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// GetVehicle returns the named vehicle or fails with VEHICLE_NOT_FOUND.
func (s *Service) GetVehicle(ctx context.Context, ownerID domain.UserID, name string) (domain.Vehicle, error) {
	if err := requireOwner(ownerID); err != nil {
		return domain.Vehicle{}, err
	}
	v, err := s.repo.GetByName(ctx, ownerID, name)
	if err != nil {
		if errors.Is(err, vehiclerepo.ErrNotFound) {
			return domain.Vehicle{}, vehicleNotFound(name)
		}
		return domain.Vehicle{}, err
	}
	return v, nil
}

// RegisterVehicle persists a new vehicle. Consumption is expected in canonical
// units (L/100km or kWh/100km); unit conversion is the consuming layer's job.
func (s *Service) RegisterVehicle(ctx context.Context, ownerID domain.UserID, typ domain.VehicleType, name string, fuelType *string, consumption *float64) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if !typ.IsValid() {
		return apperr.New(422, apperr.CodeInvalidData, "unknown vehicle type").
			WithDetails(map[string]any{"type": string(typ)})
	}
	name = domain.NormalizeHumanName(name)
	if name == "" {
		return apperr.New(422, apperr.CodeInvalidData, "vehicle name must be non-empty")
	}

	v := domain.Vehicle{
		OwnerID:     ownerID,
		Name:        name,
		Type:        typ,
		FuelType:    fuelType,
		Consumption: consumption,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		if errors.Is(err, vehiclerepo.ErrAlreadyExists) {
			return apperr.New(409, apperr.CodeVehicleAlreadyExists, "a vehicle with that name already exists").
				WithDetails(map[string]any{"name": name})
		}
		return err
	}
	s.log.Debug("vehicle registered", zap.String("owner_id", string(ownerID)), zap.String("name", name))
	return nil
}

// EditVehicleInput is a partial update applied over the stored vehicle.
// Pointer fields are "set when non-nil"; the Clear flags drop optional fields.
type EditVehicleInput struct {
	Type        *domain.VehicleType
	FuelType    *string
	Consumption *float64

	ClearFuelType    bool
	ClearConsumption bool
}

// EditVehicle merges in over the stored vehicle identified by name.
func (s *Service) EditVehicle(ctx context.Context, ownerID domain.UserID, name string, in EditVehicleInput) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	v, err := s.repo.GetByName(ctx, ownerID, name)
	if err != nil {
		if errors.Is(err, vehiclerepo.ErrNotFound) {
			return vehicleNotFound(name)
		}
		return err
	}

	if in.Type != nil {
		if !in.Type.IsValid() {
			return apperr.New(422, apperr.CodeInvalidData, "unknown vehicle type").
				WithDetails(map[string]any{"type": string(*in.Type)})
		}
		v.Type = *in.Type
	}
	if in.ClearFuelType {
		v.FuelType = nil
	} else if in.FuelType != nil {
		v.FuelType = in.FuelType
	}
	if in.ClearConsumption {
		v.Consumption = nil
	} else if in.Consumption != nil {
		v.Consumption = in.Consumption
	}

	if err := s.repo.Update(ctx, v); err != nil {
		if errors.Is(err, vehiclerepo.ErrNotFound) {
			return vehicleNotFound(name)
		}
		return err
	}
	return nil
}

// DeleteVehicle removes every vehicle matching (ownerID, name) and fails when
// none exists.
func (s *Service) DeleteVehicle(ctx context.Context, ownerID domain.UserID, name string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := s.repo.DeleteByName(ctx, ownerID, name); err != nil {
		if errors.Is(err, vehiclerepo.ErrNotFound) {
			return vehicleNotFound(name)
		}
		return err
	}
	s.log.Debug("vehicle deleted", zap.String("owner_id", string(ownerID)), zap.String("name", name))
	return nil
}

// SetFavorite flips the favorite flag on the named vehicle.
func (s *Service) SetFavorite(ctx context.Context, ownerID domain.UserID, name string, favorite bool) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	v, err := s.repo.GetByName(ctx, ownerID, name)
	if err != nil {
		if errors.Is(err, vehiclerepo.ErrNotFound) {
			return vehicleNotFound(name)
		}
		return err
	}
	v.Favorite = favorite
	if err := s.repo.Update(ctx, v); err != nil {
		if errors.Is(err, vehiclerepo.ErrNotFound) {
			return vehicleNotFound(name)
		}
		return err
	}
	return nil
}

func requireOwner(ownerID domain.UserID) error {
	if ownerID == "" {
		return apperr.New(401, apperr.CodeUserNotFound, "no user id resolved for vehicle operation")
	}
	return nil
}

func vehicleNotFound(name string) error {
	return apperr.New(404, apperr.CodeVehicleNotFound, "vehicle not found").
		WithDetails(map[string]any{"name": name})
}
