package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/camino-app/route-planner-api/internal/app/preferences"
	"github.com/camino-app/route-planner-api/internal/app/routes"
	"github.com/camino-app/route-planner-api/internal/app/users"
	"github.com/camino-app/route-planner-api/internal/app/vehicles"
	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/platform/session"
)

// Server is the HTTP adapter over the domain services. It owns the boundary
// concerns the services were freed of: decoding, session resolution and
// error envelope mapping.
type Server struct {
	Routes      *routes.Service
	Vehicles    *vehicles.Service
	Preferences *preferences.Service
	Users       *users.Service

	// Sessions, when non-nil, caches the last login so tokenless requests
	// resolve to it. That only makes sense for a single-user embedding; the
	// network server passes nil and requires bearer identity on every call.
	Sessions *session.Holder
}

func NewServer(routesSvc *routes.Service, vehiclesSvc *vehicles.Service, prefsSvc *preferences.Service, usersSvc *users.Service, sessions *session.Holder) *Server {
	return &Server{
		Routes:      routesSvc,
		Vehicles:    vehiclesSvc,
		Preferences: prefsSvc,
		Users:       usersSvc,
		Sessions:    sessions,
	}
}

// resolveUser applies the identity rule: bearer-token identity wins, then the
// cached session, otherwise USER_NOT_FOUND.
func (s *Server) resolveUser(r *http.Request) (domain.UserID, error) {
	explicit, _ := UserIDFromContext(r.Context())
	return session.Resolve(s.Sessions, explicit)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "MALFORMED_BODY", "request body is not valid JSON", nil)
		return false
	}
	return true
}

// --- auth ---

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := s.Users.SignUp(r.Context(), req.Email, req.Nickname, req.Password)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"userId": string(id)})
}

func (s *Server) handleLogIn(w http.ResponseWriter, r *http.Request) {
	var req logInRequest
	if !decode(w, r, &req) {
		return
	}
	sess, err := s.Users.LogIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if s.Sessions != nil {
		_ = s.Sessions.Set(session.Session{UserID: sess.UserID, Token: sess.Token})
	}
	writeJSON(w, http.StatusOK, sessionJSON{UserId: string(sess.UserID), Token: sess.Token})
}

func (s *Server) handleGoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req googleSignInRequest
	if !decode(w, r, &req) {
		return
	}
	sess, err := s.Users.GoogleSignIn(r.Context(), req.IdToken)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if s.Sessions != nil {
		_ = s.Sessions.Set(session.Session{UserID: sess.UserID, Token: sess.Token})
	}
	writeJSON(w, http.StatusOK, sessionJSON{UserId: string(sess.UserID), Token: sess.Token})
}

func (s *Server) handleLogOut(w http.ResponseWriter, r *http.Request) {
	if s.Sessions != nil {
		_ = s.Sessions.Clear()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSendResetLink(w http.ResponseWriter, r *http.Request) {
	var req resetLinkRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.Users.SendPasswordResetLink(r.Context(), req.Email); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	in := users.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ResetCode:       req.ResetCode,
	}
	if req.ResetCode == "" {
		// The reauthentication flow needs an authenticated user.
		userID, err := s.resolveUser(r)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		in.UserID = userID
	}
	if err := s.Users.ChangePassword(r.Context(), in); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- routes ---

func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUser(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	list, err := s.Routes.ListSavedRoutes(r.Context(), userID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]routeJSON, 0, len(list))
	for _, rt := range list {
		out = append(out, toRouteJSON(rt))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSaveRoute(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUser(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var req saveRouteRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := s.Routes.SaveRoute(r.Context(), userID, routes.SaveRouteInput{
		Name:             req.Name,
		Origin:           req.Origin,
		Destination:      req.Destination,
		OriginLabel:      req.OriginLabel,
		DestinationLabel: req.DestinationLabel,
		MobilityType:     req.MobilityType,
		MobilityMethod:   req.MobilityMethod,
		RouteType:        req.RouteType,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": string(id)})
}

func (s *Server) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUser(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	rt, err := s.Routes.GetSavedRoute(r.Context(), userID, domain.RouteID(chi.URLParam(r, "routeId")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if rt == nil {
		// Absence is not a service error, but HTTP still answers 404.
		writeError(w, r, http.StatusNotFound, "ROUTE_NOT_FOUND", "route not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toRouteJSON(*rt))
}

func (s *Server) handleUpdateRoute(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUser(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var req routePatchRequest
	if !decode(w, r, &req) {
		return
	}
	id := domain.RouteID(chi.URLParam(r, "routeId"))
	if err := s.Routes.UpdateSavedRoute(r.Context(), userID, id, req.toInput()); err != nil {
		writeAppError(w, r, err)
		return
	}
	rt, err := s.Routes.GetSavedRoute(r.Context(), userID, id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if rt == nil {
		writeError(w, r, http.StatusNotFound, "ROUTE_NOT_FOUND", "route not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toRouteJSON(*rt))
}

func (s *Server) handleDeleteRoute(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUser(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := s.Routes.DeleteSavedRoute(r.Context(), userID, domain.RouteID(chi.URLParam(r, "routeId"))); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- vehicles ---

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUser(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	list, err := s.Vehicles.GetVehicles(r.Context(), userID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]vehicleJSON, 0, len(list))
	for _, v := range list {
		out = append(out, toVehicleJSON(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRegisterVehicle(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUser(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var req registerVehicleRequest
	if !decode(w, r, &req) {
		return
	}
	typ := domain.VehicleType(req.Type)
	consumption := normalizeForType(typ, req.Consumption, req.Units)
	if err := s.Vehicles.RegisterVehicle(r.Context(), userID, typ, req.Name, req.FuelType, consumption); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleEditVehicle(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUser(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var req vehiclePatchRequest
	if !decode(w, r, &req) {
		return
	}

	in := vehicles.EditVehicleInput{}
	var typ domain.VehicleType
	if req.Type.IsSpecified() && !req.Type.IsNull() {
		typ = domain.VehicleType(req.Type.MustGet())
		in.Type = &typ
	}
	switch {
	case req.FuelType.IsNull():
		in.ClearFuelType = true
	case req.FuelType.IsSpecified():
		v := req.FuelType.MustGet()
		in.FuelType = &v
	}
	switch {
	case req.Consumption.IsNull():
		in.ClearConsumption = true
	case req.Consumption.IsSpecified():
		v := req.Consumption.MustGet()
		if typ == "" && req.Units != "" {
			// The patch carries no type; convert against the stored one.
			stored, err := s.Vehicles.GetVehicle(r.Context(), userID, chi.URLParam(r, "name"))
			if err != nil {
				writeAppError(w, r, err)
				return
			}
			typ = stored.Type
		}
		in.Consumption = normalizeForType(typ, &v, req.Units)
	}

	if err := s.Vehicles.EditVehicle(r.Context(), userID, chi.URLParam(r, "name"), in); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUser(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := s.Vehicles.DeleteVehicle(r.Context(), userID, chi.URLParam(r, "name")); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUser(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var req favoriteRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.Vehicles.SetFavorite(r.Context(), userID, chi.URLParam(r, "name"), req.Favorite); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// normalizeForType converts consumption input to the canonical per-100km
// unit. Unit conversion deliberately lives at this boundary, not in the
// repository.
func normalizeForType(typ domain.VehicleType, consumption *float64, units string) *float64 {
	switch typ {
	case domain.VehicleTypeElectricCar:
		return vehicles.NormalizeElectricConsumption(consumption, units)
	case domain.VehicleTypeFuelCar:
		return vehicles.NormalizeFuelConsumption(consumption, units)
	default:
		return consumption
	}
}

// --- preferences ---

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUser(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	opts, err := s.Preferences.Get(r.Context(), userID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, optionsJSON{
		TransportMode: string(opts.TransportMode),
		RouteType:     opts.RouteType,
		VehicleName:   opts.VehicleName,
	})
}

func (s *Server) handleSavePreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUser(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var req optionsPatchRequest
	if !decode(w, r, &req) {
		return
	}
	in := preferences.SaveInput{RouteType: req.RouteType}
	if req.TransportMode != nil {
		m := domain.TransportMode(*req.TransportMode)
		in.TransportMode = &m
	}
	switch {
	case req.VehicleName.IsNull():
		in.ClearVehicleName = true
	case req.VehicleName.IsSpecified():
		v := req.VehicleName.MustGet()
		in.VehicleName = &v
	}
	if err := s.Preferences.Save(r.Context(), userID, in); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
