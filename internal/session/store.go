package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/pkg/logger"
	"go.uber.org/zap"
)

// Snapshot is a consistent copy of the session fields
type Snapshot struct {
	AccessToken string
	Role        domain.Role
	IsLoggedIn  bool
	HasHydrated bool
}

// Store is the process-wide session. All mutation and persistence is
// serialized by mu; readers never wait on I/O.
type Store struct {
	mu        sync.Mutex
	state     State
	hydrated  bool
	mutated   bool // a mutation happened before hydration finished
	ready     chan struct{}
	readyOnce sync.Once
	persister Persister
}

// NewStore creates an empty, un-hydrated store backed by persister
func NewStore(persister Persister) *Store {
	if persister == nil {
		persister = NewMemoryPersister()
	}
	return &Store{
		ready:     make(chan struct{}),
		persister: persister,
	}
}

// SetSession stores a freshly issued credential and persists it
func (s *Store) SetSession(ctx context.Context, token string, role domain.Role) error {
	if token == "" {
		return domain.ErrEmptyToken
	}
	if role == domain.RoleNone || !role.Valid() {
		return domain.ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{AccessToken: token, Role: role}
	if !s.hydrated {
		s.mutated = true
	}
	return s.persistLocked(ctx)
}

// ClearSession drops the token and role together. Clearing an empty
// hydrated store does nothing.
func (s *Store) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated && s.state == (State{}) {
		return nil
	}

	s.state = State{}
	if !s.hydrated {
		s.mutated = true
	}
	return s.persistLocked(ctx)
}

// ExpireSession clears the session only while token is still the current
// credential, so a rejection of an older token cannot sign out a newer
// login. It reports whether the session was cleared.
func (s *Store) ExpireSession(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" || s.state.AccessToken != token {
		return false, nil
	}

	s.state = State{}
	if !s.hydrated {
		s.mutated = true
	}
	return true, s.persistLocked(ctx)
}

// MarkHydrated flags the store as restored. It never reverts.
func (s *Store) MarkHydrated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markHydratedLocked()
}

func (s *Store) markHydratedLocked() {
	s.readyOnce.Do(func() {
		s.hydrated = true
		close(s.ready)
	})
}

// Hydrate restores the persisted session and marks the store hydrated.
// The store is marked hydrated even when loading fails, with an empty
// session, so that waiting requests and guarded views can proceed.
func (s *Store) Hydrate(ctx context.Context) error {
	state, err := s.persister.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return nil
	}
	defer s.markHydratedLocked()

	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	// A login or logout that raced ahead of hydration wins over disk.
	if s.mutated {
		return nil
	}

	if state.AccessToken == "" || state.Role == domain.RoleNone || !state.Role.Valid() {
		state = State{}
	}
	s.state = state
	return nil
}

// WaitHydrated blocks until the store is hydrated or ctx is done
func (s *Store) WaitHydrated(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready is closed once the store is hydrated
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

func (s *Store) Role() domain.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Role
}

func (s *Store) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken != ""
}

func (s *Store) HasHydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// Snapshot returns all fields read under a single lock
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		AccessToken: s.state.AccessToken,
		Role:        s.state.Role,
		IsLoggedIn:  s.state.AccessToken != "",
		HasHydrated: s.hydrated,
	}
}

func (s *Store) persistLocked(ctx context.Context) error {
	if err := s.persister.Save(ctx, s.state); err != nil {
		logger.Get().Named("session").Warn("Failed to persist session",
			zap.Bool("logged_in", s.state.AccessToken != ""),
			zap.Error(err),
		)
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}
