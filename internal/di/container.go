package di

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prohmpiriya/canteen-storefront/internal/apiclient"
	"github.com/prohmpiriya/canteen-storefront/internal/handler"
	"github.com/prohmpiriya/canteen-storefront/internal/middleware"
	"github.com/prohmpiriya/canteen-storefront/internal/query"
	"github.com/prohmpiriya/canteen-storefront/internal/service"
	"github.com/prohmpiriya/canteen-storefront/internal/session"
	"github.com/prohmpiriya/canteen-storefront/pkg/config"
	"github.com/prohmpiriya/canteen-storefront/pkg/logger"
	"github.com/prohmpiriya/canteen-storefront/pkg/redis"
)

// Container holds all dependencies of the storefront
type Container struct {
	// Infrastructure
	Config    *config.Config
	Redis     *redis.Client // nil when no Redis is configured
	Persister session.Persister
	Session   *session.Store
	API       *apiclient.Client
	Cache     *query.Cache

	// Services
	AuthService     service.AuthService
	CatalogService  service.CatalogService
	CartService     service.CartService
	CheckoutService service.CheckoutService
	OrderService    service.OrderService
	AdminService    service.AdminService

	// Handlers
	Handlers *handler.Handlers
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config *config.Config
	Redis  *redis.Client
	// Persister overrides the backend picked from Config.Session
	Persister session.Persister
	// BaseTransport overrides the outbound HTTP transport
	BaseTransport http.RoundTripper
	Logger        *logger.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) (*Container, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, fmt.Errorf("container config is required")
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}

	c := &Container{
		Config: cfg.Config,
		Redis:  cfg.Redis,
	}

	persister, err := c.persister(cfg.Persister)
	if err != nil {
		return nil, err
	}
	c.Persister = persister
	c.Session = session.NewStore(persister)

	opts := []apiclient.Option{apiclient.WithLogger(log.Named("apiclient"))}
	if cfg.BaseTransport != nil {
		opts = append(opts, apiclient.WithBaseTransport(cfg.BaseTransport))
	} else {
		opts = append(opts, apiclient.WithBaseTransport(apiclient.DefaultTransport()))
	}
	c.API = apiclient.New(apiclient.Config{
		BaseURL: cfg.Config.API.BaseURL,
		Timeout: cfg.Config.API.Timeout,
	}, c.Session, opts...)
	c.Cache = query.NewCache(cfg.Config.Cache.StaleTime)

	// Initialize services
	c.CatalogService = service.NewCatalogService(c.API, c.Cache)
	c.CartService = service.NewCartService(c.API, c.Cache)
	c.CheckoutService = service.NewCheckoutService(c.API, c.CartService, c.Cache)
	c.OrderService = service.NewOrderService(c.API, c.Cache)
	c.AdminService = service.NewAdminService(c.API, c.Cache)
	c.AuthService = service.NewAuthService(c.API, c.Session, c.Cache, c.OrderService.Reset)

	var checks []handler.DependencyCheck
	if c.Redis != nil {
		checks = append(checks, handler.DependencyCheck{Name: "redis", Ping: c.Redis.HealthCheck})
	}

	// Initialize handlers
	c.Handlers = &handler.Handlers{
		Health:   handler.NewHealthHandler(cfg.Config.App.Name, c.Session, checks...),
		Auth:     handler.NewAuthHandler(c.AuthService, c.Session),
		Catalog:  handler.NewCatalogHandler(c.CatalogService),
		Cart:     handler.NewCartHandler(c.CartService),
		Checkout: handler.NewCheckoutHandler(c.CheckoutService),
		Order:    handler.NewOrderHandler(c.OrderService),
		Admin:    handler.NewAdminHandler(c.AdminService, c.CatalogService, c.OrderService),
	}

	return c, nil
}

func (c *Container) persister(override session.Persister) (session.Persister, error) {
	if override != nil {
		return override, nil
	}

	switch c.Config.Session.Backend {
	case config.SessionBackendRedis:
		if c.Redis == nil {
			return nil, fmt.Errorf("redis session backend requires a redis connection")
		}
		return session.NewRedisPersister(c.Redis, c.Config.Session.Key), nil
	default:
		return session.NewFilePersister(c.Config.Session.File, c.Config.Session.Key), nil
	}
}

// RouteConfig returns the route settings of the storefront server
func (c *Container) RouteConfig() handler.RouteConfig {
	rc := handler.RouteConfig{
		Session:     c.Session,
		LandingPath: c.Config.Server.LandingPath,
	}

	if c.Redis != nil && c.Config.Idem.Enabled {
		idem := middleware.DefaultIdempotencyConfig(c.Redis.Client())
		idem.TTL = c.Config.Idem.TTL
		idem.ProcessingTTL = c.Config.Idem.ProcessingTTL
		idem.Logger = logger.Get().Named("idempotency")
		idem.Owner = func(*gin.Context) string {
			return middleware.HashOwner(c.Session.AccessToken())
		}
		rc.CheckoutMiddleware = append(rc.CheckoutMiddleware, middleware.Idempotency(idem))
	}

	return rc
}

// RedisConfig converts the application config into a Redis client config
func RedisConfig(cfg *config.Config) *redis.Config {
	rc := redis.DefaultConfig()
	rc.Host = cfg.Redis.Host
	rc.Port = cfg.Redis.Port
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	if cfg.Redis.PoolSize > 0 {
		rc.PoolSize = cfg.Redis.PoolSize
	}
	if cfg.Redis.DialTimeout > 0 {
		rc.DialTimeout = cfg.Redis.DialTimeout
	}
	if cfg.Redis.ReadTimeout > 0 {
		rc.ReadTimeout = cfg.Redis.ReadTimeout
	}
	if cfg.Redis.WriteTimeout > 0 {
		rc.WriteTimeout = cfg.Redis.WriteTimeout
	}
	return rc
}
