package session

import (
	"context"
	"errors"

	"github.com/aiktc/portal/pkg/models"
)

// Errors surfaced by the identity store and the synchronizer.
var (
	ErrInvalidCredentials = errors.New("session: invalid credentials")
	ErrEmailTaken         = errors.New("session: email already registered")
	// ErrProfileUnavailable marks the degraded-but-ready state: the identity
	// is valid but its profile could not be loaded.
	ErrProfileUnavailable = errors.New("session: profile unavailable")
)

// EventKind labels a session-change event.
type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// Listener receives session-change events. ident is nil for sign-out events.
type Listener func(kind EventKind, ident *models.Identity)

// IdentityStore is the external identity collaborator: it owns credentials,
// knows the current session, and emits change events. The synchronizer is
// written against this contract, not a concrete store.
type IdentityStore interface {
	SignIn(ctx context.Context, email, password string) (*models.Identity, error)
	SignUp(ctx context.Context, email, password string) (*models.Identity, error)
	SignOut(ctx context.Context) error
	// CurrentSession returns the signed-in identity, or nil if anonymous.
	CurrentSession(ctx context.Context) (*models.Identity, error)
	// OnChange registers a listener and returns its unsubscribe function.
	OnChange(l Listener) (unsubscribe func())
}
