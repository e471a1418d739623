package userrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/camino-app/route-planner-api/internal/adapters/postgres"
	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/userrepo"
)

// Repo is a Postgres implementation of userrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const userColumns = `id, email, nickname, password_hash, created_at, updated_at`

func (r *Repo) Create(ctx context.Context, u userrepo.Record) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_accounts (id, email, nickname, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, string(u.ID), u.Email, u.Nickname, u.PasswordHash, u.CreatedAt.UTC(), u.UpdatedAt.UTC())
	if err != nil {
		if postgres.IsUniqueViolation(err, "user_accounts_email_unique") {
			return userrepo.ErrEmailTaken
		}
		if postgres.IsUniqueViolation(err, "user_accounts_pkey") {
			return userrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, u userrepo.Record) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE user_accounts SET
			email = $2, nickname = $3, password_hash = $4, updated_at = $5
		WHERE id = $1
	`, string(u.ID), u.Email, u.Nickname, u.PasswordHash, u.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.Record, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM user_accounts WHERE id = $1
	`, string(id))
	return scanUser(row)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (userrepo.Record, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM user_accounts WHERE lower(email) = lower($1)
	`, email)
	return scanUser(row)
}

func scanUser(row pgx.Row) (userrepo.Record, error) {
	var u userrepo.Record
	var id string
	err := row.Scan(&id, &u.Email, &u.Nickname, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return userrepo.Record{}, userrepo.ErrNotFound
		}
		return userrepo.Record{}, err
	}
	u.ID = domain.UserID(id)
	return u, nil
}
