package authprovider

import (
	"context"

	"github.com/camino-app/route-planner-api/internal/domain"
)

// Session is the authenticated identity returned by the provider.
type Session struct {
	UserID domain.UserID
	Token  string
}

// ChangePasswordInput selects between the two password-change flows:
// a reset code obtained from an email link (no current password needed), or
// reauthentication with the current password.
type ChangePasswordInput struct {
	UserID domain.UserID

	CurrentPassword string
	NewPassword     string

	// ResetCode, when non-empty, selects the reset-by-code flow and UserID /
	// CurrentPassword are ignored.
	ResetCode string
}

// Provider is the external auth collaborator. Implementations translate their
// native failures into the sentinel errors in this package; anything else
// propagates unchanged.
type Provider interface {
	// SignUp creates the auth identity and returns its new user id.
	SignUp(ctx context.Context, email, password string) (domain.UserID, error)

	// LogIn authenticates the credentials and returns an open session.
	LogIn(ctx context.Context, email, password string) (Session, error)

	// GoogleSignIn completes a federated sign-in using the opaque token issued
	// by the external identity provider.
	GoogleSignIn(ctx context.Context, idToken string) (Session, error)

	// UpdateUserEmail reauthenticates with the current password and changes the
	// account email.
	UpdateUserEmail(ctx context.Context, userID domain.UserID, newEmail, currentPassword string) error

	// ChangeUserPassword performs one of the two password-change flows.
	ChangeUserPassword(ctx context.Context, in ChangePasswordInput) error

	// SendPasswordResetLink issues a reset code and delivers it to the email.
	SendPasswordResetLink(ctx context.Context, email string) error
}
