package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the chi mux: standard middleware, a health probe and
// the versioned API surface.
func NewRouter(s *Server, verifier TokenVerifier) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(NewAuthMiddleware(verifier))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignUp)
			r.Post("/login", s.handleLogIn)
			r.Post("/google", s.handleGoogleSignIn)
			r.Post("/logout", s.handleLogOut)
			r.Post("/password/reset", s.handleSendResetLink)
			r.Put("/password", s.handleChangePassword)
		})

		r.Route("/routes", func(r chi.Router) {
			r.Get("/", s.handleListRoutes)
			r.Post("/", s.handleSaveRoute)
			r.Get("/{routeId}", s.handleGetRoute)
			r.Patch("/{routeId}", s.handleUpdateRoute)
			r.Delete("/{routeId}", s.handleDeleteRoute)
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", s.handleListVehicles)
			r.Post("/", s.handleRegisterVehicle)
			r.Patch("/{name}", s.handleEditVehicle)
			r.Delete("/{name}", s.handleDeleteVehicle)
			r.Put("/{name}/favorite", s.handleSetFavorite)
		})

		r.Get("/preferences", s.handleGetPreferences)
		r.Put("/preferences", s.handleSavePreferences)
	})

	return r
}
