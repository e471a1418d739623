package userrepo

import (
	"context"
	"time"

	"github.com/camino-app/route-planner-api/internal/domain"
)

// Record is the persistence shape for a user account. It carries the password
// hash, which must never leave the auth adapter; the services deal in
// domain.User.
type Record struct {
	ID domain.UserID

	Email    string
	Nickname string

	// PasswordHash is a bcrypt hash. Empty for accounts created through an
	// external identity provider (Google sign-in).
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted user accounts.
type Repository interface {
	Create(ctx context.Context, u Record) error
	Update(ctx context.Context, u Record) error

	GetByID(ctx context.Context, id domain.UserID) (Record, error)
	GetByEmail(ctx context.Context, email string) (Record, error)
}
