package domain

import "time"

// User is the profile record created at signup.
// Email is the immutable identity key; Nickname is mutable.
type User struct {
	ID UserID

	Email    string
	Nickname string

	CreatedAt time.Time
	UpdatedAt time.Time
}
