package routes

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/camino-app/route-planner-api/internal/apperr"
	"github.com/camino-app/route-planner-api/internal/domain"
	clockport "github.com/camino-app/route-planner-api/internal/ports/out/clock"
	"github.com/camino-app/route-planner-api/internal/ports/out/routerepo"
)

// Service orchestrates saved-route persistence. All operations take an
// explicit user id; "current session" resolution happens at the API boundary.
type Service struct {
	repo routerepo.Repository
	clk  clockport.Clock
	log  *zap.Logger

	newRouteID func() domain.RouteID
}

func NewService(repo routerepo.Repository, clk clockport.Clock, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo: repo,
		clk:  clk,
		log:  log.With(zap.String("component", "routes")),
		newRouteID: func() domain.RouteID {
			return domain.RouteID(uuid.NewString())
		},
	}
}

// SetNewRouteIDForTest overrides route ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewRouteIDForTest(fn func() domain.RouteID) {
	if fn != nil {
		s.newRouteID = fn
	}
}

// SaveRoute persists a new route for the user and returns its generated id.
func (s *Service) SaveRoute(ctx context.Context, userID domain.UserID, in SaveRouteInput) (domain.RouteID, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Origin) == "" || strings.TrimSpace(in.Destination) == "" {
		return "", apperr.New(422, apperr.CodeInvalidData, "origin and destination are required").
			WithDetails(map[string]any{"origin": in.Origin, "destination": in.Destination})
	}

	method := in.MobilityMethod
	if method == "" {
		method = in.MobilityType
	}

	id := s.newRouteID()
	rt := domain.Route{
		ID:               id,
		Name:             trimNamePtr(in.Name),
		Origin:           in.Origin,
		Destination:      in.Destination,
		OriginLabel:      in.OriginLabel,
		DestinationLabel: in.DestinationLabel,
		MobilityType:     in.MobilityType,
		MobilityMethod:   method,
		RouteType:        in.RouteType,
		CreatedAt:        s.clk.Now().UTC(),
	}
	if err := s.repo.Save(ctx, userID, rt); err != nil {
		return "", err
	}
	s.log.Debug("route saved", zap.String("user_id", string(userID)), zap.String("route_id", string(id)))
	return id, nil
}

// ListSavedRoutes returns the user's saved routes; empty results are not an
// error.
func (s *Service) ListSavedRoutes(ctx context.Context, userID domain.UserID) ([]domain.Route, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, userID)
}

// GetSavedRoute returns the route or nil when it does not exist. Absence is
// not an error here; mutating operations are the ones that fail on missing
// routes.
func (s *Service) GetSavedRoute(ctx context.Context, userID domain.UserID, id domain.RouteID) (*domain.Route, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	rt, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, routerepo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

// UpdateSavedRoute merges the input over the stored route. The name is
// trimmed; when the merge leaves MobilityMethod unset it defaults to the
// effective MobilityType.
func (s *Service) UpdateSavedRoute(ctx context.Context, userID domain.UserID, id domain.RouteID, in UpdateRouteInput) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	rt, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, routerepo.ErrNotFound) {
			return routeNotFound(id)
		}
		return err
	}

	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			rt.Name = nil
		} else {
			name := strings.TrimSpace(in.Name.Value())
			rt.Name = &name
		}
	}
	applyString := func(dst *string, o Optional[string]) {
		if o.IsSpecified() && !o.IsNull() {
			*dst = o.Value()
		}
	}
	applyString(&rt.Origin, in.Origin)
	applyString(&rt.Destination, in.Destination)
	applyString(&rt.MobilityType, in.MobilityType)
	applyString(&rt.RouteType, in.RouteType)

	applyNullableString := func(dst **string, o Optional[string]) {
		if !o.IsSpecified() {
			return
		}
		if o.IsNull() {
			*dst = nil
			return
		}
		v := o.Value()
		*dst = &v
	}
	applyNullableString(&rt.OriginLabel, in.OriginLabel)
	applyNullableString(&rt.DestinationLabel, in.DestinationLabel)

	if in.MobilityMethod.IsSpecified() && !in.MobilityMethod.IsNull() {
		rt.MobilityMethod = in.MobilityMethod.Value()
	} else if in.MobilityType.IsSpecified() && !in.MobilityType.IsNull() {
		// The caller changed the mobility type without naming a method: the
		// method follows the type.
		rt.MobilityMethod = in.MobilityType.Value()
	}
	if rt.MobilityMethod == "" {
		rt.MobilityMethod = rt.MobilityType
	}

	if err := s.repo.Update(ctx, userID, id, rt); err != nil {
		if errors.Is(err, routerepo.ErrNotFound) {
			return routeNotFound(id)
		}
		return err
	}
	return nil
}

// DeleteSavedRoute removes the route or fails when it does not exist.
func (s *Service) DeleteSavedRoute(ctx context.Context, userID domain.UserID, id domain.RouteID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, routerepo.ErrNotFound) {
			return routeNotFound(id)
		}
		return err
	}
	s.log.Debug("route deleted", zap.String("user_id", string(userID)), zap.String("route_id", string(id)))
	return nil
}

func requireUser(userID domain.UserID) error {
	if userID == "" {
		return apperr.New(401, apperr.CodeUserNotFound, "no user id resolved for route operation")
	}
	return nil
}

func routeNotFound(id domain.RouteID) error {
	return apperr.New(404, apperr.CodeRouteNotFound, "route not found").
		WithDetails(map[string]any{"routeId": string(id)})
}

func trimNamePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
