package session

import (
	"context"
	"fmt"
	"sync"

	"log/slog"

	"github.com/aiktc/portal/pkg/models"
	"github.com/aiktc/portal/pkg/repository"
)

// Phase is the synchronizer's position in its lifecycle. The three phases
// replace nullable-field guessing: Ready with a nil identity is anonymous,
// Ready with an identity and a nil profile is "setup incomplete", and
// Resolving is the only state that means "loading".
type Phase string

const (
	PhaseUnresolved Phase = "unresolved"
	PhaseResolving  Phase = "resolving"
	PhaseReady      Phase = "ready"
)

// State is the authoritative session snapshot handed to subscribers.
type State struct {
	Phase    Phase
	Identity *models.Identity
	Profile  *models.Profile
	// Err is ErrProfileUnavailable when the identity is valid but the profile
	// load failed; the session continues degraded rather than failing.
	Err error
}

func (s State) IsReady() bool {
	return s.Phase == PhaseReady
}

func (s State) Authenticated() bool {
	return s.Phase == PhaseReady && s.Identity != nil
}

// ProfileSeed carries the profile fields collected at sign-up.
type ProfileSeed struct {
	FullName   string
	Role       models.Role
	Department models.Department
	StudentID  string
}

// Synchronizer reconciles identity-session events with profile loading into
// one race-free view. The initial session fetch and the event stream may
// complete in either order; the most recently observed identity always wins
// and stale profile loads are discarded, never applied.
type Synchronizer struct {
	store    IdentityStore
	profiles repository.ProfileRepo
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	epoch     uint64 // bumped on every identity transition; stale loads compare against it
	eventSeen bool   // true once any change event applied; the initial fetch then discards itself
	closed    bool
	subs      map[int]func(State)
	nextSub   int

	unsub   func()
	baseCtx context.Context
	wg      sync.WaitGroup

	pendingMu    sync.Mutex
	pendingSeeds map[string]ProfileSeed // identity id -> seed awaiting profile creation
}

func NewSynchronizer(store IdentityStore, profiles repository.ProfileRepo, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		store:        store,
		profiles:     profiles,
		logger:       logger,
		state:        State{Phase: PhaseUnresolved},
		subs:         map[int]func(State){},
		pendingSeeds: map[string]ProfileSeed{},
	}
}

// Start subscribes to the store's change events and kicks off the initial
// session fetch. The two race; Start is correct under both completion orders.
func (s *Synchronizer) Start(ctx context.Context) {
	s.baseCtx = ctx
	s.unsub = s.store.OnChange(func(kind EventKind, ident *models.Identity) {
		s.apply(ident, false)
	})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ident, err := s.store.CurrentSession(ctx)
		if err != nil {
			s.logger.Warn("initial session fetch failed", "err", err)
			ident = nil
		}
		s.apply(ident, true)
	}()
}

// Close unsubscribes from the store and waits for in-flight profile loads.
func (s *Synchronizer) Close() {
	if s.unsub != nil {
		s.unsub()
	}
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}

// State returns the current snapshot.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn and immediately delivers the current state to it.
// fn is invoked with the synchronizer's lock held and must not call back in.
func (s *Synchronizer) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	fn(s.state)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// SignIn authenticates against the store. If a sign-up previously created the
// identity but failed to create the profile, the held seed is reconciled here
// with an idempotent upsert keyed by identity id.
func (s *Synchronizer) SignIn(ctx context.Context, email, password string) error {
	ident, err := s.store.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	s.pendingMu.Lock()
	seed, hasPending := s.pendingSeeds[ident.ID]
	s.pendingMu.Unlock()
	if hasPending {
		if err := s.profiles.UpsertProfile(ctx, seed.profile(ident.ID)); err != nil {
			s.logger.Warn("profile reconciliation failed", "identity_id", ident.ID, "err", err)
		} else {
			s.pendingMu.Lock()
			delete(s.pendingSeeds, ident.ID)
			s.pendingMu.Unlock()
			// re-observe the identity so the fresh profile is loaded
			s.apply(ident, false)
		}
	}

	return nil
}

// SignUp creates the identity and then the profile. If the profile insert
// fails after the identity exists, the error is surfaced and the identity is
// kept; the seed is retained so the next sign-in can reconcile.
func (s *Synchronizer) SignUp(ctx context.Context, email, password string, seed ProfileSeed) error {
	if !seed.Role.Valid() {
		return fmt.Errorf("unknown role %q", seed.Role)
	}
	if !seed.Department.Valid() {
		return fmt.Errorf("unknown department %q", seed.Department)
	}

	ident, err := s.store.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	if err := s.profiles.UpsertProfile(ctx, seed.profile(ident.ID)); err != nil {
		s.pendingMu.Lock()
		s.pendingSeeds[ident.ID] = seed
		s.pendingMu.Unlock()
		return fmt.Errorf("identity created but profile creation failed: %w", err)
	}

	// the sign-up event fired before the profile row existed; re-observe so
	// the profile load sees it
	s.apply(ident, false)
	return nil
}

// SignOut clears the session synchronously with the store's event; any
// in-flight profile load is superseded and discarded.
func (s *Synchronizer) SignOut(ctx context.Context) error {
	return s.store.SignOut(ctx)
}

// apply folds one identity observation into the state machine. initial marks
// the observation produced by the Start-time session fetch, which loses to
// any change event regardless of arrival order.
func (s *Synchronizer) apply(ident *models.Identity, initial bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if initial && s.eventSeen {
		// a change event already delivered newer truth
		s.mu.Unlock()
		return
	}
	if !initial {
		s.eventSeen = true
	}

	s.epoch++
	epoch := s.epoch

	if ident == nil {
		s.state = State{Phase: PhaseReady}
		s.notifyLocked()
		s.mu.Unlock()
		return
	}

	held := s.state
	if held.Identity != nil && held.Identity.ID == ident.ID && held.Phase == PhaseReady && held.Profile != nil {
		// same identity with a valid profile already held: reload to pick up
		// out-of-band edits, but do not flicker readiness
		s.state.Identity = ident
	} else {
		s.state = State{Phase: PhaseResolving, Identity: ident}
	}
	s.notifyLocked()
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.loadProfile(ident, epoch)
	}()
}

func (s *Synchronizer) loadProfile(ident *models.Identity, epoch uint64) {
	ctx := s.baseCtx
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := s.profiles.GetProfile(ctx, ident.ID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		// a newer identity observation superseded this load
		return
	}

	st := State{Phase: PhaseReady, Identity: s.state.Identity}
	switch {
	case err != nil:
		s.logger.Warn("profile load failed", "identity_id", ident.ID, "err", err)
		st.Err = ErrProfileUnavailable
	case p != nil:
		st.Profile = p
	default:
		// identity valid, profile row missing: ready with nil profile means
		// setup incomplete, not loading
	}
	s.state = st
	s.notifyLocked()
}

func (s *Synchronizer) notifyLocked() {
	for _, fn := range s.subs {
		fn(s.state)
	}
}

func (seed ProfileSeed) profile(id string) *models.Profile {
	return &models.Profile{
		ID:         id,
		FullName:   seed.FullName,
		Role:       seed.Role,
		Department: seed.Department,
		StudentID:  seed.StudentID,
	}
}
