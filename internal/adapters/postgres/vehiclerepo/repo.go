package vehiclerepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/vehiclerepo"
)

// Repo is a Postgres implementation of vehiclerepo.Repository.
//
// Uniqueness of (owner_id, name) is enforced here with a pre-check inside a
// transaction rather than a DB constraint, so DeleteByName can still sweep
// duplicate rows if any exist (see schema.sql).
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const vehicleColumns = `owner_id, name, type, fuel_type, consumption, favorite`

func (r *Repo) Create(ctx context.Context, v domain.Vehicle) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM vehicles WHERE owner_id = $1 AND name = $2)
		`, string(v.OwnerID), v.Name).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return vehiclerepo.ErrAlreadyExists
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO vehicles (owner_id, name, type, fuel_type, consumption, favorite)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, string(v.OwnerID), v.Name, string(v.Type), v.FuelType, v.Consumption, v.Favorite)
		return err
	})
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]domain.Vehicle, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE owner_id = $1
		ORDER BY name ASC
	`, string(ownerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) GetByName(ctx context.Context, ownerID domain.UserID, name string) (domain.Vehicle, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE owner_id = $1 AND name = $2
		LIMIT 1
	`, string(ownerID), name)

	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vehicle{}, vehiclerepo.ErrNotFound
		}
		return domain.Vehicle{}, err
	}
	return v, nil
}

func (r *Repo) Update(ctx context.Context, v domain.Vehicle) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE vehicles SET
			type = $3, fuel_type = $4, consumption = $5, favorite = $6
		WHERE owner_id = $1 AND name = $2
	`, string(v.OwnerID), v.Name, string(v.Type), v.FuelType, v.Consumption, v.Favorite)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return vehiclerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteByName(ctx context.Context, ownerID domain.UserID, name string) error {
	// Equality on both fields, deleting every match.
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM vehicles WHERE owner_id = $1 AND name = $2
	`, string(ownerID), name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return vehiclerepo.ErrNotFound
	}
	return nil
}

func scanVehicle(row pgx.Row) (domain.Vehicle, error) {
	var v domain.Vehicle
	var owner, typ string
	if err := row.Scan(&owner, &v.Name, &typ, &v.FuelType, &v.Consumption, &v.Favorite); err != nil {
		return domain.Vehicle{}, err
	}
	v.OwnerID = domain.UserID(owner)
	v.Type = domain.VehicleType(typ)
	return v, nil
}
