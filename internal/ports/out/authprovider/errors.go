package authprovider

import "errors"

var (
	// ErrInvalidCredential indicates the password did not match the account.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrEmailNotFound indicates no account exists for the email.
	ErrEmailNotFound = errors.New("email not registered")

	// ErrEmailInUse indicates an account already exists for the email.
	ErrEmailInUse = errors.New("email already in use")

	// ErrInvalidResetCode indicates the reset code is unknown, expired or spent.
	ErrInvalidResetCode = errors.New("invalid password reset code")

	// ErrNotAuthenticated indicates a flow requiring an authenticated user was
	// attempted without one.
	ErrNotAuthenticated = errors.New("not authenticated")
)
