// Package authlocal implements the auth provider contract against the user
// repository: bcrypt password hashes, HS256 session tokens and single-use
// password reset codes. It stands in for the hosted identity provider the
// production deployment might use.
package authlocal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/authprovider"
	clockport "github.com/camino-app/route-planner-api/internal/ports/out/clock"
	"github.com/camino-app/route-planner-api/internal/ports/out/userrepo"
)

const resetCodeTTL = 30 * time.Minute

// GoogleVerifier validates a federated id token and returns the verified
// email. The default rejects every token; deployments wire a real verifier.
type GoogleVerifier func(ctx context.Context, idToken string) (email string, err error)

type resetCode struct {
	email     string
	expiresAt time.Time
}

// Provider implements authprovider.Provider.
type Provider struct {
	repo     userrepo.Repository
	clk      clockport.Clock
	log      *zap.Logger
	secret   []byte
	tokenTTL time.Duration

	verifyGoogle GoogleVerifier

	mu       sync.Mutex
	codes    map[string]resetCode // reset code -> pending reset
	lastCode string

	newUserID func() domain.UserID
}

type Options struct {
	// TokenTTL bounds session token validity; defaults to 24h.
	TokenTTL time.Duration
	// GoogleVerifier validates federated sign-in tokens.
	GoogleVerifier GoogleVerifier
}

func New(repo userrepo.Repository, clk clockport.Clock, jwtSecret string, log *zap.Logger, opts Options) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	verify := opts.GoogleVerifier
	if verify == nil {
		verify = func(context.Context, string) (string, error) {
			return "", authprovider.ErrInvalidCredential
		}
	}
	return &Provider{
		repo:         repo,
		clk:          clk,
		log:          log.With(zap.String("component", "authlocal")),
		secret:       []byte(jwtSecret),
		tokenTTL:     ttl,
		verifyGoogle: verify,
		codes:        make(map[string]resetCode),
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
	}
}

// SetNewUserIDForTest overrides user ID generation for deterministic tests.
func (p *Provider) SetNewUserIDForTest(fn func() domain.UserID) {
	if fn != nil {
		p.newUserID = fn
	}
}

// LastResetCodeForTest returns the most recently issued reset code. Real
// deployments deliver codes by mail; tests read them here.
func (p *Provider) LastResetCodeForTest() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCode
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (domain.UserID, error) {
	if _, err := p.repo.GetByEmail(ctx, email); err == nil {
		return "", authprovider.ErrEmailInUse
	} else if !errors.Is(err, userrepo.ErrNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	now := p.clk.Now().UTC()
	id := p.newUserID()
	rec := userrepo.Record{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, userrepo.ErrEmailTaken) {
			return "", authprovider.ErrEmailInUse
		}
		return "", err
	}
	return id, nil
}

func (p *Provider) LogIn(ctx context.Context, email, password string) (authprovider.Session, error) {
	rec, err := p.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return authprovider.Session{}, authprovider.ErrEmailNotFound
		}
		return authprovider.Session{}, err
	}
	if rec.PasswordHash == "" {
		// Federated-only account; there is no password to check.
		return authprovider.Session{}, authprovider.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return authprovider.Session{}, authprovider.ErrInvalidCredential
	}
	return p.openSession(rec.ID)
}

func (p *Provider) GoogleSignIn(ctx context.Context, idToken string) (authprovider.Session, error) {
	email, err := p.verifyGoogle(ctx, idToken)
	if err != nil {
		return authprovider.Session{}, err
	}

	rec, err := p.repo.GetByEmail(ctx, email)
	if errors.Is(err, userrepo.ErrNotFound) {
		now := p.clk.Now().UTC()
		rec = userrepo.Record{
			ID:        p.newUserID(),
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := p.repo.Create(ctx, rec); err != nil {
			return authprovider.Session{}, err
		}
	} else if err != nil {
		return authprovider.Session{}, err
	}
	return p.openSession(rec.ID)
}

func (p *Provider) UpdateUserEmail(ctx context.Context, userID domain.UserID, newEmail, currentPassword string) error {
	rec, err := p.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return authprovider.ErrNotAuthenticated
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(currentPassword)); err != nil {
		return authprovider.ErrInvalidCredential
	}
	if existing, err := p.repo.GetByEmail(ctx, newEmail); err == nil && existing.ID != userID {
		return authprovider.ErrEmailInUse
	} else if err != nil && !errors.Is(err, userrepo.ErrNotFound) {
		return err
	}

	rec.Email = newEmail
	rec.UpdatedAt = p.clk.Now().UTC()
	return p.repo.Update(ctx, rec)
}

func (p *Provider) ChangeUserPassword(ctx context.Context, in authprovider.ChangePasswordInput) error {
	if in.ResetCode != "" {
		return p.changeViaResetCode(ctx, in.ResetCode, in.NewPassword)
	}

	if in.UserID == "" {
		return authprovider.ErrNotAuthenticated
	}
	rec, err := p.repo.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return authprovider.ErrNotAuthenticated
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return authprovider.ErrInvalidCredential
	}
	return p.setPassword(ctx, rec, in.NewPassword)
}

func (p *Provider) SendPasswordResetLink(ctx context.Context, email string) error {
	rec, err := p.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return authprovider.ErrEmailNotFound
		}
		return err
	}

	code := uuid.NewString()
	p.mu.Lock()
	p.codes[code] = resetCode{
		email:     rec.Email,
		expiresAt: p.clk.Now().Add(resetCodeTTL),
	}
	p.lastCode = code
	p.mu.Unlock()

	// Delivery is an external concern; the code is surfaced through the log
	// sink the deployment configured for the mailer.
	p.log.Info("password reset code issued", zap.String("email", rec.Email), zap.String("code", code))
	return nil
}

func (p *Provider) changeViaResetCode(ctx context.Context, code, newPassword string) error {
	p.mu.Lock()
	pending, ok := p.codes[code]
	if ok {
		delete(p.codes, code) // single use
	}
	p.mu.Unlock()

	if !ok || p.clk.Now().After(pending.expiresAt) {
		return authprovider.ErrInvalidResetCode
	}
	rec, err := p.repo.GetByEmail(ctx, pending.email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return authprovider.ErrInvalidResetCode
		}
		return err
	}
	return p.setPassword(ctx, rec, newPassword)
}

func (p *Provider) setPassword(ctx context.Context, rec userrepo.Record, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	rec.PasswordHash = string(hash)
	rec.UpdatedAt = p.clk.Now().UTC()
	return p.repo.Update(ctx, rec)
}

func (p *Provider) openSession(id domain.UserID) (authprovider.Session, error) {
	now := p.clk.Now()
	claims := jwt.MapClaims{
		"sub": string(id),
		"iat": now.Unix(),
		"exp": now.Add(p.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return authprovider.Session{}, err
	}
	return authprovider.Session{UserID: id, Token: token}, nil
}

// VerifyToken parses a session token and returns the user id it identifies.
// The HTTP adapter uses it to authenticate bearer requests.
func (p *Provider) VerifyToken(tokenString string) (domain.UserID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return "", authprovider.ErrInvalidCredential
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", authprovider.ErrInvalidCredential
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", authprovider.ErrInvalidCredential
	}
	return domain.UserID(sub), nil
}
