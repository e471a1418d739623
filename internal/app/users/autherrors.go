package users

import (
	"errors"

	"github.com/camino-app/route-planner-api/internal/apperr"
	"github.com/camino-app/route-planner-api/internal/ports/out/authprovider"
)

// translateAuthError maps provider failures onto the application error
// taxonomy. Errors without a mapping propagate unchanged.
func translateAuthError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, authprovider.ErrEmailInUse):
		return apperr.New(409, apperr.CodeEmailAlreadyInUse, "an account already exists for that email")
	case errors.Is(err, authprovider.ErrEmailNotFound):
		return apperr.New(404, apperr.CodeEmailNotFound, "no account exists for that email")
	case errors.Is(err, authprovider.ErrInvalidCredential):
		return apperr.New(401, apperr.CodeInvalidData, "invalid credentials")
	case errors.Is(err, authprovider.ErrInvalidResetCode):
		return apperr.New(422, apperr.CodeInvalidData, "password reset code is invalid or expired")
	case errors.Is(err, authprovider.ErrNotAuthenticated):
		return apperr.New(401, apperr.CodeUserNotFound, "no authenticated user for this operation")
	default:
		return err
	}
}
