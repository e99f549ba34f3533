package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aiktc/portal/internal/session"
	"github.com/aiktc/portal/pkg/models"
	"github.com/aiktc/portal/pkg/repository/mock"
)

func TestLocalStoreSignUpAndSignIn(t *testing.T) {
	m := mock.NewMocks()
	store := session.NewLocalStore(m.IdentRepo, nil)
	ctx := context.Background()

	if _, err := store.SignUp(ctx, "", "pw"); !errors.Is(err, session.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty email got: %v", err)
	}

	ident, err := store.SignUp(ctx, "  Alice@Example.COM ", "hunter22")
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	if ident.Email != "alice@example.com" {
		t.Fatalf("expected normalized email got %q", ident.Email)
	}
	if ident.PasswordHash == "hunter22" || ident.PasswordHash == "" {
		t.Fatalf("password stored unhashed")
	}

	if _, err := store.SignUp(ctx, "alice@example.com", "other"); !errors.Is(err, session.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken got: %v", err)
	}

	if _, err := store.SignIn(ctx, "alice@example.com", "wrong"); !errors.Is(err, session.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password got: %v", err)
	}
	if _, err := store.SignIn(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, session.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email got: %v", err)
	}

	got, err := store.SignIn(ctx, "ALICE@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	if got.ID != ident.ID {
		t.Fatalf("expected same identity back got %q", got.ID)
	}
}

func TestLocalStoreSessionAndEvents(t *testing.T) {
	m := mock.NewMocks()
	store := session.NewLocalStore(m.IdentRepo, nil)
	ctx := context.Background()

	var events []session.EventKind
	unsub := store.OnChange(func(kind session.EventKind, ident *models.Identity) {
		events = append(events, kind)
	})

	ident, err := store.SignUp(ctx, "bob@example.com", "pw123456")
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	cur, err := store.CurrentSession(ctx)
	if err != nil || cur == nil || cur.ID != ident.ID {
		t.Fatalf("CurrentSession = %#v, %v; want the signed-up identity", cur, err)
	}

	if err := store.SignOut(ctx); err != nil {
		t.Fatalf("SignOut error: %v", err)
	}
	cur, err = store.CurrentSession(ctx)
	if err != nil || cur != nil {
		t.Fatalf("CurrentSession after sign-out = %#v, %v; want nil", cur, err)
	}

	if len(events) != 2 || events[0] != session.EventSignedIn || events[1] != session.EventSignedOut {
		t.Fatalf("unexpected event sequence: %v", events)
	}

	// unsubscribed listeners stop receiving
	unsub()
	if _, err := store.SignIn(ctx, "bob@example.com", "pw123456"); err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("listener received events after unsubscribe: %v", events)
	}
}
