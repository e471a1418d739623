package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/camino-app/route-planner-api/internal/adapters/authlocal"
	"github.com/camino-app/route-planner-api/internal/adapters/httpapi"
	memoptionsrepo "github.com/camino-app/route-planner-api/internal/adapters/memory/optionsrepo"
	memrouterepo "github.com/camino-app/route-planner-api/internal/adapters/memory/routerepo"
	memuserrepo "github.com/camino-app/route-planner-api/internal/adapters/memory/userrepo"
	memvehiclerepo "github.com/camino-app/route-planner-api/internal/adapters/memory/vehiclerepo"
	"github.com/camino-app/route-planner-api/internal/adapters/netprobe"
	postgres "github.com/camino-app/route-planner-api/internal/adapters/postgres"
	pgoptionsrepo "github.com/camino-app/route-planner-api/internal/adapters/postgres/optionsrepo"
	pgrouterepo "github.com/camino-app/route-planner-api/internal/adapters/postgres/routerepo"
	pguserrepo "github.com/camino-app/route-planner-api/internal/adapters/postgres/userrepo"
	pgvehiclerepo "github.com/camino-app/route-planner-api/internal/adapters/postgres/vehiclerepo"
	"github.com/camino-app/route-planner-api/internal/app/preferences"
	"github.com/camino-app/route-planner-api/internal/app/routes"
	"github.com/camino-app/route-planner-api/internal/app/users"
	"github.com/camino-app/route-planner-api/internal/app/vehicles"
	platformclock "github.com/camino-app/route-planner-api/internal/platform/clock"
	"github.com/camino-app/route-planner-api/internal/platform/config"
	"github.com/camino-app/route-planner-api/internal/ports/out/connectivity"
	optionsrepoport "github.com/camino-app/route-planner-api/internal/ports/out/optionsrepo"
	routerepoport "github.com/camino-app/route-planner-api/internal/ports/out/routerepo"
	userrepoport "github.com/camino-app/route-planner-api/internal/ports/out/userrepo"
	vehiclerepoport "github.com/camino-app/route-planner-api/internal/ports/out/vehiclerepo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.Server.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	clk := platformclock.NewSystemClock()

	var (
		routeRepo   routerepoport.Repository
		vehicleRepo vehiclerepoport.Repository
		optionsRepo optionsrepoport.Repository
		userRepo    userrepoport.Repository
		probe       connectivity.Probe
		cleanup     func()
	)

	switch cfg.Storage.Backend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.Storage.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			logger.Fatal("postgres connect", zap.Error(err))
		}
		cleanup = pool.Close

		routeRepo = pgrouterepo.NewRepo(pool)
		vehicleRepo = pgvehiclerepo.NewRepo(pool)
		optionsRepo = pgoptionsrepo.NewRepo(pool)
		userRepo = pguserrepo.NewRepo(pool)

		cc := pool.Config().ConnConfig
		probe = netprobe.New(fmt.Sprintf("%s:%d", cc.Host, cc.Port), cfg.Storage.ProbeTimeout)
	default:
		routeRepo = memrouterepo.NewRepo()
		vehicleRepo = memvehiclerepo.NewRepo()
		optionsRepo = memoptionsrepo.NewRepo()
		userRepo = memuserrepo.NewRepo()
		probe = connectivity.Always(true)
	}

	if cleanup != nil {
		defer cleanup()
	}

	auth := authlocal.New(userRepo, clk, cfg.Auth.JWTSecret, logger, authlocal.Options{
		TokenTTL: cfg.Auth.TokenTTL,
	})

	routeSvc := routes.NewService(routeRepo, clk, logger)
	vehicleSvc := vehicles.NewService(vehicleRepo, logger)
	prefSvc := preferences.NewService(optionsRepo, vehicleSvc, probe, logger)
	userSvc := users.NewService(auth, userRepo, logger)

	// No session holder here: a process-wide cached session would leak one
	// client's identity to tokenless requests from another.
	api := httpapi.NewServer(routeSvc, vehicleSvc, prefSvc, userSvc, nil)
	handler := httpapi.NewRouter(api, auth)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("api listening", zap.Int("port", cfg.Server.Port), zap.String("backend", cfg.Storage.Backend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
