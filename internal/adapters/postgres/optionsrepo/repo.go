package optionsrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/optionsrepo"
)

// Repo is a Postgres implementation of optionsrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Get(ctx context.Context, userID domain.UserID) (domain.Options, error) {
	var opts domain.Options
	var mode string
	err := r.pool.QueryRow(ctx, `
		SELECT transport_mode, route_type, vehicle_name
		FROM default_options
		WHERE user_id = $1
	`, string(userID)).Scan(&mode, &opts.RouteType, &opts.VehicleName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Options{}, optionsrepo.ErrNotFound
		}
		return domain.Options{}, err
	}
	opts.TransportMode = domain.TransportMode(mode)
	return opts, nil
}

func (r *Repo) Save(ctx context.Context, userID domain.UserID, opts domain.Options) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO default_options (user_id, transport_mode, route_type, vehicle_name)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO UPDATE SET
			transport_mode = EXCLUDED.transport_mode,
			route_type = EXCLUDED.route_type,
			vehicle_name = EXCLUDED.vehicle_name
	`, string(userID), string(opts.TransportMode), opts.RouteType, opts.VehicleName)
	return err
}
