package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/camino-app/route-planner-api/internal/adapters/authlocal"
	memoptionsrepo "github.com/camino-app/route-planner-api/internal/adapters/memory/optionsrepo"
	memrouterepo "github.com/camino-app/route-planner-api/internal/adapters/memory/routerepo"
	memuserrepo "github.com/camino-app/route-planner-api/internal/adapters/memory/userrepo"
	memvehiclerepo "github.com/camino-app/route-planner-api/internal/adapters/memory/vehiclerepo"
	"github.com/camino-app/route-planner-api/internal/app/preferences"
	"github.com/camino-app/route-planner-api/internal/app/routes"
	"github.com/camino-app/route-planner-api/internal/app/users"
	"github.com/camino-app/route-planner-api/internal/app/vehicles"
	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/platform/session"
	"github.com/camino-app/route-planner-api/internal/ports/out/connectivity"
)

type testClock struct{ t time.Time }

func (c testClock) Now() time.Time { return c.t }

// newTestHandler wires the stack with a session holder, the single-user
// embedding shape. Bearer-only wiring is covered by newBearerOnlyHandler.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	return newHandler(t, session.NewHolder(session.NewMemoryStore()))
}

func newBearerOnlyHandler(t *testing.T) http.Handler {
	t.Helper()
	return newHandler(t, nil)
}

func newHandler(t *testing.T, sessions *session.Holder) http.Handler {
	t.Helper()

	clk := testClock{t: time.Unix(7000, 0).UTC()}
	userRepo := memuserrepo.NewRepo()
	auth := authlocal.New(userRepo, clk, "httpapi-test-secret-0123456789", nil, authlocal.Options{})

	routeSvc := routes.NewService(memrouterepo.NewRepo(), clk, nil)
	vehicleSvc := vehicles.NewService(memvehiclerepo.NewRepo(), nil)
	prefSvc := preferences.NewService(memoptionsrepo.NewRepo(), vehicleSvc, connectivity.Always(true), nil)
	userSvc := users.NewService(auth, userRepo, nil)

	api := NewServer(routeSvc, vehicleSvc, prefSvc, userSvc, sessions)
	return NewRouter(api, auth)
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func signUpAndLogIn(t *testing.T, h http.Handler) (domain.UserID, string) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"email":    "al123456@uji.es",
		"nickname": "Maria",
		"password": "MiContrasena64",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "al123456@uji.es",
		"password": "MiContrasena64",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
	var sess sessionJSON
	decodeBody(t, rec, &sess)
	return domain.UserID(sess.UserId), sess.Token
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestSignUp_InvalidDataEnvelope(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"email":    "not-an-email",
		"nickname": "M",
		"password": "weak",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var er ErrorResponse
	decodeBody(t, rec, &er)
	if er.Error.Code != "INVALID_DATA" {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestRoutes_RequireIdentity(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/v1/routes", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var er ErrorResponse
	decodeBody(t, rec, &er)
	if er.Error.Code != "USER_NOT_FOUND" {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestInvalidBearerToken(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/v1/routes", "garbage", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var er ErrorResponse
	decodeBody(t, rec, &er)
	if er.Error.Code != "INVALID_TOKEN" {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestRoutes_CRUD(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	_, token := signUpAndLogIn(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/routes", token, map[string]any{
		"name":         "To Work",
		"origin":       "39.98,-0.05",
		"destination":  "39.99,-0.03",
		"mobilityType": "vehicle",
		"routeType":    "fastest",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("save: status %d body %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	decodeBody(t, rec, &created)
	id := created["id"]
	if id == "" {
		t.Fatalf("expected generated id, got %s", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/routes/"+id, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d body %s", rec.Code, rec.Body.String())
	}
	var got routeJSON
	decodeBody(t, rec, &got)
	if got.Name == nil || *got.Name != "To Work" || got.MobilityMethod != "vehicle" {
		t.Fatalf("unexpected route: %s", rec.Body.String())
	}

	// Patch: null clears the name, everything else stays.
	rec = doJSON(t, h, http.MethodPatch, "/v1/routes/"+id, token, map[string]any{
		"name":      nil,
		"routeType": "recommended",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status %d body %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &got)
	if got.Name != nil || got.RouteType != "recommended" || got.Origin != "39.98,-0.05" {
		t.Fatalf("unexpected patched route: %s", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodDelete, "/v1/routes/"+id, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodGet, "/v1/routes/"+id, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestVehicles_RegisterNormalizesUnits(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	_, token := signUpAndLogIn(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/vehicles", token, map[string]any{
		"name":        "Zoe",
		"type":        "electricCar",
		"consumption": 25,
		"units":       "km/kWh",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/vehicles", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d body %s", rec.Code, rec.Body.String())
	}
	var list []vehicleJSON
	decodeBody(t, rec, &list)
	if len(list) != 1 || list[0].Consumption == nil || *list[0].Consumption != 4 {
		t.Fatalf("expected canonical 4 kWh/100km, got %s", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPut, "/v1/vehicles/Zoe/favorite", token, map[string]any{"favorite": true})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("favorite: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodDelete, "/v1/vehicles/Zoe", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestVehicles_PatchConsumptionWithoutType(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	_, token := signUpAndLogIn(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/vehicles", token, map[string]any{
		"name":        "Panda",
		"type":        "fuelCar",
		"fuelType":    "petrol",
		"consumption": 6.5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}

	// The patch omits the type; conversion must fall back to the stored one.
	rec = doJSON(t, h, http.MethodPatch, "/v1/vehicles/Panda", token, map[string]any{
		"consumption": 20,
		"units":       "km/l",
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("patch: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/vehicles", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d body %s", rec.Code, rec.Body.String())
	}
	var list []vehicleJSON
	decodeBody(t, rec, &list)
	if len(list) != 1 || list[0].Consumption == nil || *list[0].Consumption != 5 {
		t.Fatalf("expected canonical 5 l/100km, got %s", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPatch, "/v1/vehicles/Ghost", token, map[string]any{
		"consumption": 20,
		"units":       "km/l",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("patch unknown vehicle: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestPreferences_RoundTrip(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	_, token := signUpAndLogIn(t, h)

	// Defaults before anything is saved.
	rec := doJSON(t, h, http.MethodGet, "/v1/preferences", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d body %s", rec.Code, rec.Body.String())
	}
	var opts optionsJSON
	decodeBody(t, rec, &opts)
	if opts.TransportMode != "vehicle" || opts.RouteType != "fastest" || opts.VehicleName != nil {
		t.Fatalf("unexpected defaults: %s", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPut, "/v1/preferences", token, map[string]any{
		"transportMode": "walk",
		"routeType":     "shortest",
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("put: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/preferences", token, nil)
	decodeBody(t, rec, &opts)
	if opts.TransportMode != "walk" || opts.RouteType != "shortest" {
		t.Fatalf("unexpected saved options: %s", rec.Body.String())
	}

	// Unknown transport mode is rejected with the taxonomy code.
	rec = doJSON(t, h, http.MethodPut, "/v1/preferences", token, map[string]any{
		"transportMode": "Autobús",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid mode: status %d body %s", rec.Code, rec.Body.String())
	}
	var er ErrorResponse
	decodeBody(t, rec, &er)
	if er.Error.Code != "MOBILITY_TYPE_NOT_FOUND" {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestBearerOnlyServerNeverCachesSessions(t *testing.T) {
	t.Parallel()
	h := newBearerOnlyHandler(t)
	_, token := signUpAndLogIn(t, h)

	// A login must not become identity for other clients' tokenless calls.
	rec := doJSON(t, h, http.MethodGet, "/v1/routes", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/routes", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer request: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/auth/logout", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestLogOutDropsCachedSession(t *testing.T) {
	// Not parallel: this test depends on the holder's cached session, which
	// identity resolution falls back to when no bearer token is sent.
	h := newTestHandler(t)
	signUpAndLogIn(t, h)

	// After login the cached session stands in for a missing token.
	rec := doJSON(t, h, http.MethodGet, "/v1/routes", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected cached-session fallback, status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/auth/logout", "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/routes", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, status %d body %s", rec.Code, rec.Body.String())
	}
}
