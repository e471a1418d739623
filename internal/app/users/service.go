// Package users implements signup, login and credential-change orchestration
// over an external auth provider and the user profile repository.
package users

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/camino-app/route-planner-api/internal/apperr"
	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/authprovider"
	"github.com/camino-app/route-planner-api/internal/ports/out/userrepo"
)

// Service wraps the auth provider and the profile repository. Provider
// failures are translated into the application error taxonomy at this
// boundary.
type Service struct {
	auth authprovider.Provider
	repo userrepo.Repository
	log  *zap.Logger
}

func NewService(auth authprovider.Provider, repo userrepo.Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		auth: auth,
		repo: repo,
		log:  log.With(zap.String("component", "users")),
	}
}

// SignUp validates the input, creates the auth identity and persists the
// profile, returning the new user id. Any downstream failure is returned to
// the caller; there is no silent empty-id path.
func (s *Service) SignUp(ctx context.Context, email, nickname, password string) (domain.UserID, error) {
	email = strings.TrimSpace(email)
	nickname = domain.NormalizeHumanName(nickname)
	if details := validateSignUp(email, nickname, password); details != nil {
		return "", apperr.New(422, apperr.CodeInvalidData, "invalid signup data").WithDetails(details)
	}

	id, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		return "", translateAuthError(err)
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	rec.Nickname = nickname
	if err := s.repo.Update(ctx, rec); err != nil {
		return "", err
	}

	s.log.Info("user registered", zap.String("user_id", string(id)))
	return id, nil
}

// LogIn authenticates the credentials and returns an open session. An unknown
// email fails with EMAIL_NOT_FOUND; a wrong password with INVALID_DATA.
func (s *Service) LogIn(ctx context.Context, email, password string) (authprovider.Session, error) {
	sess, err := s.auth.LogIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return authprovider.Session{}, translateAuthError(err)
	}
	return sess, nil
}

// GoogleSignIn completes a federated sign-in and provisions a profile record
// on first use.
func (s *Service) GoogleSignIn(ctx context.Context, idToken string) (authprovider.Session, error) {
	sess, err := s.auth.GoogleSignIn(ctx, idToken)
	if err != nil {
		return authprovider.Session{}, translateAuthError(err)
	}
	if rec, err := s.repo.GetByID(ctx, sess.UserID); err == nil && rec.Nickname == "" {
		rec.Nickname = nicknameFromEmail(rec.Email)
		if err := s.repo.Update(ctx, rec); err != nil {
			return authprovider.Session{}, err
		}
	} else if err != nil && !errors.Is(err, userrepo.ErrNotFound) {
		return authprovider.Session{}, err
	}
	return sess, nil
}

// GetProfile returns the user's profile record.
func (s *Service) GetProfile(ctx context.Context, userID domain.UserID) (domain.User, error) {
	rec, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, apperr.New(404, apperr.CodeUserNotFound, "user not found")
		}
		return domain.User{}, err
	}
	return toDomain(rec), nil
}

// UpdateEmail reauthenticates with the current password, updates the auth
// identity and keeps the profile record in step.
func (s *Service) UpdateEmail(ctx context.Context, userID domain.UserID, newEmail, currentPassword string) error {
	newEmail = strings.TrimSpace(newEmail)
	if err := validate.Var(newEmail, "required,email"); err != nil {
		return apperr.New(422, apperr.CodeInvalidData, "invalid email address").
			WithDetails(map[string]any{"email": newEmail})
	}
	if err := s.auth.UpdateUserEmail(ctx, userID, newEmail, currentPassword); err != nil {
		return translateAuthError(err)
	}
	rec, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	rec.Email = newEmail
	return s.repo.Update(ctx, rec)
}

// ChangePasswordInput selects between the reset-by-code flow (no current
// password needed) and reauthentication with the current password, based on
// the presence of ResetCode.
type ChangePasswordInput struct {
	UserID          domain.UserID
	CurrentPassword string
	NewPassword     string
	ResetCode       string
}

// ChangePassword validates the new password's strength, then runs whichever
// flow the input selects.
func (s *Service) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if !ValidatePassword(in.NewPassword) {
		return apperr.New(422, apperr.CodeInvalidData, "new password does not meet the strength policy")
	}
	err := s.auth.ChangeUserPassword(ctx, authprovider.ChangePasswordInput{
		UserID:          in.UserID,
		CurrentPassword: in.CurrentPassword,
		NewPassword:     in.NewPassword,
		ResetCode:       in.ResetCode,
	})
	if err != nil {
		return translateAuthError(err)
	}
	s.log.Info("password changed", zap.Bool("via_reset_code", in.ResetCode != ""))
	return nil
}

// SendPasswordResetLink asks the provider to issue a reset code for the email.
func (s *Service) SendPasswordResetLink(ctx context.Context, email string) error {
	if err := s.auth.SendPasswordResetLink(ctx, strings.TrimSpace(email)); err != nil {
		return translateAuthError(err)
	}
	return nil
}

func toDomain(rec userrepo.Record) domain.User {
	return domain.User{
		ID:        rec.ID,
		Email:     rec.Email,
		Nickname:  rec.Nickname,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func nicknameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
