package authlocal

import (
	"context"
	"errors"
	"testing"
	"time"

	memuserrepo "github.com/camino-app/route-planner-api/internal/adapters/memory/userrepo"
	"github.com/camino-app/route-planner-api/internal/domain"
	"github.com/camino-app/route-planner-api/internal/ports/out/authprovider"
)

const testSecret = "provider-test-secret-0123456789"

// manualClock lets tests advance time past the reset-code TTL.
type manualClock struct{ t time.Time }

func (c *manualClock) Now() time.Time { return c.t }

func newTestProvider(opts Options) (*Provider, *manualClock) {
	clk := &manualClock{t: time.Unix(9000, 0).UTC()}
	return New(memuserrepo.NewRepo(), clk, testSecret, nil, opts), clk
}

func TestSignUpAndLogIn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _ := newTestProvider(Options{})

	id, err := p.SignUp(ctx, "a@example.com", "Secret12AB")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if id == "" {
		t.Fatalf("expected non-empty user id")
	}

	if _, err := p.SignUp(ctx, "a@example.com", "Other12AB"); !errors.Is(err, authprovider.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}

	sess, err := p.LogIn(ctx, "a@example.com", "Secret12AB")
	if err != nil {
		t.Fatalf("LogIn: %v", err)
	}
	if sess.UserID != id || sess.Token == "" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	if _, err := p.LogIn(ctx, "a@example.com", "wrong"); !errors.Is(err, authprovider.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if _, err := p.LogIn(ctx, "nobody@example.com", "Secret12AB"); !errors.Is(err, authprovider.ErrEmailNotFound) {
		t.Fatalf("expected ErrEmailNotFound, got %v", err)
	}
}

func TestVerifyToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _ := newTestProvider(Options{})

	id, err := p.SignUp(ctx, "a@example.com", "Secret12AB")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	sess, err := p.LogIn(ctx, "a@example.com", "Secret12AB")
	if err != nil {
		t.Fatalf("LogIn: %v", err)
	}

	got, err := p.VerifyToken(sess.Token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if got != id {
		t.Fatalf("expected %q, got %q", id, got)
	}

	if _, err := p.VerifyToken("not-a-token"); !errors.Is(err, authprovider.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}

	// Tokens from a provider with a different secret are rejected.
	other := New(memuserrepo.NewRepo(), &manualClock{t: time.Unix(9000, 0).UTC()}, "another-secret-9876543210", nil, Options{})
	if _, err := other.VerifyToken(sess.Token); !errors.Is(err, authprovider.ErrInvalidCredential) {
		t.Fatalf("expected cross-secret rejection, got %v", err)
	}
}

func TestGoogleSignIn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, _ := newTestProvider(Options{
		GoogleVerifier: func(_ context.Context, idToken string) (string, error) {
			if idToken != "good-token" {
				return "", authprovider.ErrInvalidCredential
			}
			return "g@example.com", nil
		},
	})

	sess, err := p.GoogleSignIn(ctx, "good-token")
	if err != nil {
		t.Fatalf("GoogleSignIn: %v", err)
	}
	if sess.UserID == "" {
		t.Fatalf("expected provisioned user id")
	}

	// A second federated sign-in reuses the same account.
	again, err := p.GoogleSignIn(ctx, "good-token")
	if err != nil {
		t.Fatalf("GoogleSignIn again: %v", err)
	}
	if again.UserID != sess.UserID {
		t.Fatalf("expected same account, got %q and %q", sess.UserID, again.UserID)
	}

	// Federated-only accounts have no password to log in with.
	if _, err := p.LogIn(ctx, "g@example.com", "anything"); !errors.Is(err, authprovider.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for federated-only account, got %v", err)
	}

	if _, err := p.GoogleSignIn(ctx, "bad-token"); !errors.Is(err, authprovider.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestResetCodeExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, clk := newTestProvider(Options{})

	if _, err := p.SignUp(ctx, "a@example.com", "Secret12AB"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if err := p.SendPasswordResetLink(ctx, "a@example.com"); err != nil {
		t.Fatalf("SendPasswordResetLink: %v", err)
	}
	code := p.LastResetCodeForTest()

	// Past the TTL the code no longer works.
	clk.t = clk.t.Add(resetCodeTTL + time.Minute)
	err := p.ChangeUserPassword(ctx, authprovider.ChangePasswordInput{
		NewPassword: "Fresh12AB",
		ResetCode:   code,
	})
	if !errors.Is(err, authprovider.ErrInvalidResetCode) {
		t.Fatalf("expected ErrInvalidResetCode, got %v", err)
	}
}

func TestChangeUserPassword_RequiresIdentityOrCode(t *testing.T) {
	t.Parallel()
	p, _ := newTestProvider(Options{})

	err := p.ChangeUserPassword(context.Background(), authprovider.ChangePasswordInput{
		NewPassword: "Fresh12AB",
	})
	if !errors.Is(err, authprovider.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	err = p.ChangeUserPassword(context.Background(), authprovider.ChangePasswordInput{
		UserID:      domain.UserID("missing"),
		NewPassword: "Fresh12AB",
	})
	if !errors.Is(err, authprovider.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated for unknown user, got %v", err)
	}
}
