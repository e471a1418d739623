package vehiclerepo

import "errors"

var (
	// ErrNotFound indicates no vehicle matches the (owner, name) pair.
	ErrNotFound = errors.New("vehicle not found")

	// ErrAlreadyExists indicates the owner already has a vehicle with that name.
	ErrAlreadyExists = errors.New("vehicle already exists")
)
