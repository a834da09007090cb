package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPersister is a mock implementation of Persister
type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) Load(ctx context.Context) (State, error) {
	args := m.Called(ctx)
	return args.Get(0).(State), args.Error(1)
}

func (m *MockPersister) Save(ctx context.Context, state State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func hydratedStore(t *testing.T) (*Store, *MemoryPersister) {
	t.Helper()
	p := NewMemoryPersister()
	s := NewStore(p)
	require.NoError(t, s.Hydrate(context.Background()))
	return s, p
}

func TestStore_SetSession(t *testing.T) {
	s, p := hydratedStore(t)

	require.NoError(t, s.SetSession(context.Background(), "abc", domain.RoleGeneral))

	snap := s.Snapshot()
	assert.Equal(t, "abc", snap.AccessToken)
	assert.Equal(t, domain.RoleGeneral, snap.Role)
	assert.True(t, snap.IsLoggedIn)
	assert.True(t, snap.HasHydrated)

	persisted, _ := p.Load(context.Background())
	assert.Equal(t, State{AccessToken: "abc", Role: domain.RoleGeneral}, persisted)
}

func TestStore_SetSession_Rejects(t *testing.T) {
	s, p := hydratedStore(t)

	assert.ErrorIs(t, s.SetSession(context.Background(), "", domain.RoleAdmin), domain.ErrEmptyToken)
	assert.ErrorIs(t, s.SetSession(context.Background(), "abc", domain.RoleNone), domain.ErrInvalidRole)
	assert.ErrorIs(t, s.SetSession(context.Background(), "abc", domain.Role("root")), domain.ErrInvalidRole)
	assert.False(t, s.IsLoggedIn())
	assert.Equal(t, 0, p.Saves())
}

func TestStore_ClearSession_ResetsBothFields(t *testing.T) {
	s, _ := hydratedStore(t)
	require.NoError(t, s.SetSession(context.Background(), "abc", domain.RoleAdmin))

	require.NoError(t, s.ClearSession(context.Background()))

	assert.Empty(t, s.AccessToken())
	assert.Equal(t, domain.RoleNone, s.Role())
	assert.False(t, s.IsLoggedIn())
}

func TestStore_ClearSession_Idempotent(t *testing.T) {
	s, p := hydratedStore(t)
	require.NoError(t, s.SetSession(context.Background(), "abc", domain.RoleAdmin))

	require.NoError(t, s.ClearSession(context.Background()))
	once := s.Snapshot()
	saves := p.Saves()

	require.NoError(t, s.ClearSession(context.Background()))
	assert.Equal(t, once, s.Snapshot())
	assert.Equal(t, saves, p.Saves())
}

func TestStore_ExpireSession_OnlyCurrentToken(t *testing.T) {
	s, p := hydratedStore(t)
	require.NoError(t, s.SetSession(context.Background(), "new", domain.RoleGeneral))
	saves := p.Saves()

	cleared, err := s.ExpireSession(context.Background(), "old")
	require.NoError(t, err)
	assert.False(t, cleared)
	assert.Equal(t, "new", s.AccessToken())
	assert.Equal(t, saves, p.Saves())

	cleared, err = s.ExpireSession(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, cleared)

	cleared, err = s.ExpireSession(context.Background(), "new")
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.False(t, s.IsLoggedIn())
	assert.Equal(t, domain.RoleNone, s.Role())
}

func TestStore_LoggedInMatchesToken(t *testing.T) {
	s, _ := hydratedStore(t)
	rng := rand.New(rand.NewSource(42))
	roles := []domain.Role{domain.RoleAdmin, domain.RoleGeneral, domain.RolePostpaid}

	for i := 0; i < 200; i++ {
		if rng.Intn(2) == 0 {
			_ = s.SetSession(context.Background(), "tok", roles[rng.Intn(len(roles))])
		} else {
			_ = s.ClearSession(context.Background())
		}
		snap := s.Snapshot()
		assert.Equal(t, snap.AccessToken != "", snap.IsLoggedIn)
		assert.Equal(t, snap.AccessToken == "", snap.Role == domain.RoleNone)
	}
}

func TestStore_Hydrate_RestoresPersisted(t *testing.T) {
	p := NewMemoryPersisterWith(State{AccessToken: "abc", Role: domain.RolePostpaid})
	s := NewStore(p)
	assert.False(t, s.HasHydrated())
	assert.False(t, s.IsLoggedIn())

	require.NoError(t, s.Hydrate(context.Background()))

	assert.True(t, s.HasHydrated())
	assert.True(t, s.IsLoggedIn())
	assert.Equal(t, domain.RolePostpaid, s.Role())
}

func TestStore_Hydrate_DropsHalfSession(t *testing.T) {
	p := NewMemoryPersisterWith(State{AccessToken: "abc"})
	s := NewStore(p)

	require.NoError(t, s.Hydrate(context.Background()))
	assert.False(t, s.IsLoggedIn())
}

func TestStore_Hydrate_LoadErrorStillHydrates(t *testing.T) {
	p := new(MockPersister)
	p.On("Load", mock.Anything).Return(State{}, errors.New("disk on fire"))
	s := NewStore(p)

	err := s.Hydrate(context.Background())

	assert.Error(t, err)
	assert.True(t, s.HasHydrated())
	assert.False(t, s.IsLoggedIn())
	p.AssertExpectations(t)
}

func TestStore_Hydrate_MutationBeforeHydrationWins(t *testing.T) {
	p := NewMemoryPersisterWith(State{AccessToken: "old", Role: domain.RoleAdmin})
	s := NewStore(p)

	require.NoError(t, s.ClearSession(context.Background()))
	require.NoError(t, s.Hydrate(context.Background()))

	assert.False(t, s.IsLoggedIn())
}

func TestStore_MarkHydrated_NeverReverts(t *testing.T) {
	p := NewMemoryPersisterWith(State{AccessToken: "abc", Role: domain.RoleGeneral})
	s := NewStore(p)

	s.MarkHydrated()
	s.MarkHydrated()
	assert.True(t, s.HasHydrated())

	// Hydrate after an explicit mark is a no-op
	require.NoError(t, s.Hydrate(context.Background()))
	assert.True(t, s.HasHydrated())
	assert.False(t, s.IsLoggedIn())
}

func TestStore_WaitHydrated(t *testing.T) {
	s := NewStore(NewMemoryPersister())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.WaitHydrated(ctx), context.DeadlineExceeded)

	done := make(chan error, 1)
	go func() { done <- s.WaitHydrated(context.Background()) }()

	s.MarkHydrated()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("WaitHydrated did not return after MarkHydrated")
	}
}

func TestStore_PersistFailureReturned(t *testing.T) {
	p := new(MockPersister)
	p.On("Load", mock.Anything).Return(State{}, nil)
	p.On("Save", mock.Anything, mock.Anything).Return(errors.New("read-only"))
	s := NewStore(p)
	require.NoError(t, s.Hydrate(context.Background()))

	err := s.SetSession(context.Background(), "abc", domain.RoleGeneral)

	assert.Error(t, err)
	// memory state still reflects the login
	assert.True(t, s.IsLoggedIn())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s, _ := hydratedStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.SetSession(context.Background(), "abc", domain.RoleGeneral)
		}()
		go func() {
			defer wg.Done()
			snap := s.Snapshot()
			assert.Equal(t, snap.AccessToken != "", snap.IsLoggedIn)
			_ = s.ClearSession(context.Background())
		}()
	}
	wg.Wait()
}
