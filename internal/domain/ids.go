package domain

// UserID is an internal identifier for a user account.
// It is assigned by the auth provider at signup and treated as opaque.
type UserID string

// RouteID is an internal identifier for a saved route record.
type RouteID string
