package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"log/slog"

	"github.com/aiktc/portal/pkg/models"
	"github.com/aiktc/portal/pkg/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LocalStore is an IdentityStore backed by the identities table. It hashes
// passwords with bcrypt, tracks the current session in memory, and fans
// session-change events out to registered listeners.
type LocalStore struct {
	idents repository.IdentityRepo
	logger *slog.Logger

	mu        sync.Mutex
	current   *models.Identity
	listeners map[int]Listener
	nextSub   int
}

var _ IdentityStore = (*LocalStore)(nil)

func NewLocalStore(idents repository.IdentityRepo, logger *slog.Logger) *LocalStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalStore{
		idents:    idents,
		logger:    logger,
		listeners: map[int]Listener{},
	}
}

func (s *LocalStore) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	ident, err := s.idents.GetIdentityByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup identity: %w", err)
	}
	if ident == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	s.setCurrent(ident)
	s.emit(EventSignedIn, ident)
	return ident, nil
}

func (s *LocalStore) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	ident := &models.Identity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.idents.CreateIdentity(ctx, ident); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}

	s.setCurrent(ident)
	s.emit(EventSignedIn, ident)
	return ident, nil
}

func (s *LocalStore) SignOut(ctx context.Context) error {
	s.setCurrent(nil)
	s.emit(EventSignedOut, nil)
	return nil
}

func (s *LocalStore) CurrentSession(ctx context.Context) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, nil
}

func (s *LocalStore) OnChange(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *LocalStore) setCurrent(ident *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ident
}

// emit delivers the event to a snapshot of listeners taken under the lock, so
// a listener may unsubscribe (or subscribe) without deadlocking.
func (s *LocalStore) emit(kind EventKind, ident *models.Identity) {
	s.mu.Lock()
	snapshot := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		snapshot = append(snapshot, l)
	}
	s.mu.Unlock()

	for _, l := range snapshot {
		l(kind, ident)
	}
}
