package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/camino-app/route-planner-api/internal/app/routes"
	"github.com/camino-app/route-planner-api/internal/domain"
)

type routeJSON struct {
	Id               string    `json:"id"`
	Name             *string   `json:"name,omitempty"`
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	OriginLabel      *string   `json:"originLabel,omitempty"`
	DestinationLabel *string   `json:"destinationLabel,omitempty"`
	MobilityType     string    `json:"mobilityType"`
	MobilityMethod   string    `json:"mobilityMethod"`
	RouteType        string    `json:"routeType"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toRouteJSON(rt domain.Route) routeJSON {
	return routeJSON{
		Id:               string(rt.ID),
		Name:             rt.Name,
		Origin:           rt.Origin,
		Destination:      rt.Destination,
		OriginLabel:      rt.OriginLabel,
		DestinationLabel: rt.DestinationLabel,
		MobilityType:     rt.MobilityType,
		MobilityMethod:   rt.MobilityMethod,
		RouteType:        rt.RouteType,
		CreatedAt:        rt.CreatedAt,
	}
}

type saveRouteRequest struct {
	Name             *string `json:"name"`
	Origin           string  `json:"origin"`
	Destination      string  `json:"destination"`
	OriginLabel      *string `json:"originLabel"`
	DestinationLabel *string `json:"destinationLabel"`
	MobilityType     string  `json:"mobilityType"`
	MobilityMethod   string  `json:"mobilityMethod"`
	RouteType        string  `json:"routeType"`
}

// routePatchRequest uses tri-state fields: omitted keeps the stored value,
// null clears nullable fields, a value replaces.
type routePatchRequest struct {
	Name             nullable.Nullable[string] `json:"name"`
	Origin           nullable.Nullable[string] `json:"origin"`
	Destination      nullable.Nullable[string] `json:"destination"`
	OriginLabel      nullable.Nullable[string] `json:"originLabel"`
	DestinationLabel nullable.Nullable[string] `json:"destinationLabel"`
	MobilityType     nullable.Nullable[string] `json:"mobilityType"`
	MobilityMethod   nullable.Nullable[string] `json:"mobilityMethod"`
	RouteType        nullable.Nullable[string] `json:"routeType"`
}

func (p routePatchRequest) toInput() routes.UpdateRouteInput {
	return routes.UpdateRouteInput{
		Name:             optFromNullable(p.Name),
		Origin:           optFromNullable(p.Origin),
		Destination:      optFromNullable(p.Destination),
		OriginLabel:      optFromNullable(p.OriginLabel),
		DestinationLabel: optFromNullable(p.DestinationLabel),
		MobilityType:     optFromNullable(p.MobilityType),
		MobilityMethod:   optFromNullable(p.MobilityMethod),
		RouteType:        optFromNullable(p.RouteType),
	}
}

func optFromNullable[T any](n nullable.Nullable[T]) routes.Optional[T] {
	switch {
	case !n.IsSpecified():
		return routes.Unspecified[T]()
	case n.IsNull():
		return routes.Null[T]()
	default:
		return routes.Some(n.MustGet())
	}
}

type vehicleJSON struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	FuelType    *string  `json:"fuelType,omitempty"`
	Consumption *float64 `json:"consumption,omitempty"`
	Favorite    bool     `json:"favorite"`
}

func toVehicleJSON(v domain.Vehicle) vehicleJSON {
	return vehicleJSON{
		Name:        v.Name,
		Type:        string(v.Type),
		FuelType:    v.FuelType,
		Consumption: v.Consumption,
		Favorite:    v.Favorite,
	}
}

type registerVehicleRequest struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	FuelType *string  `json:"fuelType"`
	// Consumption is accepted in either the canonical per-100km unit or the
	// distance-per-unit form; Units says which.
	Consumption *float64 `json:"consumption"`
	Units       string   `json:"units"`
}

type vehiclePatchRequest struct {
	Type        nullable.Nullable[string]  `json:"type"`
	FuelType    nullable.Nullable[string]  `json:"fuelType"`
	Consumption nullable.Nullable[float64] `json:"consumption"`
	Units       string                     `json:"units"`
}

type favoriteRequest struct {
	Favorite bool `json:"favorite"`
}

type optionsJSON struct {
	TransportMode string  `json:"transportMode"`
	RouteType     string  `json:"routeType"`
	VehicleName   *string `json:"vehicleName"`
}

type optionsPatchRequest struct {
	TransportMode *string                   `json:"transportMode"`
	RouteType     *string                   `json:"routeType"`
	VehicleName   nullable.Nullable[string] `json:"vehicleName"`
}

type signUpRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type logInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleSignInRequest struct {
	IdToken string `json:"idToken"`
}

type sessionJSON struct {
	UserId string `json:"userId"`
	Token  string `json:"token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ResetCode       string `json:"resetCode"`
}

type resetLinkRequest struct {
	Email string `json:"email"`
}
