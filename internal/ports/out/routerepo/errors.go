package routerepo

import "errors"

var (
	// ErrNotFound indicates the requested route does not exist for the user.
	ErrNotFound = errors.New("route not found")

	// ErrAlreadyExists indicates a route already exists with the provided ID.
	ErrAlreadyExists = errors.New("route already exists")
)
