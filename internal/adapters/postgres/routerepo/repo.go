package routerepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/camino-app/route-planner-api/internal/adapters/postgres"
	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/routerepo"
)

// Repo is a Postgres implementation of routerepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const routeColumns = `
	id, name, origin, destination, origin_label, destination_label,
	mobility_type, mobility_method, route_type, created_at`

func (r *Repo) Save(ctx context.Context, userID domain.UserID, rt domain.Route) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO routes (
			user_id, id, name, origin, destination, origin_label,
			destination_label, mobility_type, mobility_method, route_type, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		string(userID),
		string(rt.ID),
		rt.Name,
		rt.Origin,
		rt.Destination,
		rt.OriginLabel,
		rt.DestinationLabel,
		rt.MobilityType,
		rt.MobilityMethod,
		rt.RouteType,
		rt.CreatedAt.UTC(),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "routes_pkey") {
			return routerepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) List(ctx context.Context, userID domain.UserID) ([]domain.Route, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+routeColumns+`
		FROM routes
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, string(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Route, 0)
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, userID domain.UserID, id domain.RouteID) (domain.Route, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+routeColumns+`
		FROM routes
		WHERE user_id = $1 AND id = $2
	`, string(userID), string(id))

	rt, err := scanRoute(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Route{}, routerepo.ErrNotFound
		}
		return domain.Route{}, err
	}
	return rt, nil
}

func (r *Repo) Update(ctx context.Context, userID domain.UserID, id domain.RouteID, rt domain.Route) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE routes SET
			name = $3, origin = $4, destination = $5, origin_label = $6,
			destination_label = $7, mobility_type = $8, mobility_method = $9,
			route_type = $10
		WHERE user_id = $1 AND id = $2
	`,
		string(userID),
		string(id),
		rt.Name,
		rt.Origin,
		rt.Destination,
		rt.OriginLabel,
		rt.DestinationLabel,
		rt.MobilityType,
		rt.MobilityMethod,
		rt.RouteType,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return routerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID domain.UserID, id domain.RouteID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM routes WHERE user_id = $1 AND id = $2
	`, string(userID), string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return routerepo.ErrNotFound
	}
	return nil
}

func scanRoute(row pgx.Row) (domain.Route, error) {
	var rt domain.Route
	var id string
	err := row.Scan(
		&id,
		&rt.Name,
		&rt.Origin,
		&rt.Destination,
		&rt.OriginLabel,
		&rt.DestinationLabel,
		&rt.MobilityType,
		&rt.MobilityMethod,
		&rt.RouteType,
		&rt.CreatedAt,
	)
	if err != nil {
		return domain.Route{}, err
	}
	rt.ID = domain.RouteID(id)
	return rt, nil
}
