package optionsrepo

import (
	"context"
	"errors"

	"github.com/camino-app/route-planner-api/internal/domain"
)

// ErrNotFound indicates the user never saved default options.
var ErrNotFound = errors.New("default options not found")

// Repository stores one default-options record per user.
type Repository interface {
	// Get returns the stored record or ErrNotFound when the user never saved
	// one. Falling back to defaults is the service's job, not the repository's.
	Get(ctx context.Context, userID domain.UserID) (domain.Options, error)

	// Save stores the full record, replacing any previous one.
	Save(ctx context.Context, userID domain.UserID, opts domain.Options) error
}
