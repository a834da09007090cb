package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/handler"
	"github.com/prohmpiriya/canteen-storefront/internal/session"
	"github.com/prohmpiriya/canteen-storefront/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "canteen-storefront"},
		Server:  config.ServerConfig{Port: 3000, LandingPath: "/"},
		API:     config.APIConfig{BaseURL: baseURL, Timeout: 2 * time.Second},
		Session: config.SessionConfig{Backend: config.SessionBackendFile, Key: session.DefaultKey},
		Cache:   config.CacheConfig{StaleTime: time.Minute},
		Idem:    config.IdemConfig{Enabled: true},
	}
}

// fakeBackend records the Authorization header of every call
type fakeBackend struct {
	mu    sync.Mutex
	auths map[string]string
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"01HU","name":"Ani","type":"general"},"token":"abc"}`))
	})
	mux.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
	})
	return mux
}

func (b *fakeBackend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.auths[r.URL.Path] = r.Header.Get("Authorization")
}

func (b *fakeBackend) auth(path string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.auths[path]
}

func TestNewContainer_RequiresConfig(t *testing.T) {
	_, err := NewContainer(nil)
	assert.Error(t, err)
}

func TestNewContainer_RedisBackendNeedsConnection(t *testing.T) {
	cfg := testConfig("http://localhost:8000/api")
	cfg.Session.Backend = config.SessionBackendRedis

	_, err := NewContainer(&ContainerConfig{Config: cfg})
	assert.Error(t, err)
}

func TestNewContainer_FileBackend(t *testing.T) {
	cfg := testConfig("http://localhost:8000/api")
	cfg.Session.File = t.TempDir() + "/session.json"

	c, err := NewContainer(&ContainerConfig{Config: cfg})
	require.NoError(t, err)

	fp, ok := c.Persister.(*session.FilePersister)
	require.True(t, ok)
	assert.Equal(t, cfg.Session.File, fp.Path())
	assert.Empty(t, c.RouteConfig().CheckoutMiddleware, "no redis, no idempotency")
}

func TestStorefront_LoginThenCart(t *testing.T) {
	backend := &fakeBackend{auths: map[string]string{}}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	persister := session.NewMemoryPersister()
	c, err := NewContainer(&ContainerConfig{
		Config:        testConfig(srv.URL + "/api"),
		Persister:     persister,
		BaseTransport: http.DefaultTransport,
	})
	require.NoError(t, err)
	require.NoError(t, c.Session.Hydrate(context.Background()))

	router := gin.New()
	handler.RegisterRoutes(router, c.Handlers, c.RouteConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ani@example.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	snap := c.Session.Snapshot()
	assert.Equal(t, "abc", snap.AccessToken)
	assert.Equal(t, domain.RoleGeneral, snap.Role)
	assert.True(t, snap.IsLoggedIn)
	assert.Empty(t, backend.auth("/api/login"), "login itself is sent without a token")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Bearer abc", backend.auth("/api/cart"))

	// The backend rejecting the token ends the session
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, c.Session.Snapshot().IsLoggedIn)

	state, err := persister.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.AccessToken)
}

func TestRedisConfig(t *testing.T) {
	cfg := testConfig("http://localhost:8000/api")
	cfg.Redis = config.RedisConfig{Host: "cache", Port: 6380, DB: 2, PoolSize: 4}

	rc := RedisConfig(cfg)
	assert.Equal(t, "cache:6380", rc.Addr())
	assert.Equal(t, 2, rc.DB)
	assert.Equal(t, 4, rc.PoolSize)
	assert.Equal(t, 5*time.Second, rc.DialTimeout)
}
