package service

import (
	"context"
	"fmt"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/query"
	"github.com/prohmpiriya/canteen-storefront/pkg/logger"
	"github.com/prohmpiriya/canteen-storefront/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// AuthService defines the interface for sign-in flows
type AuthService interface {
	// Login signs in and stores the issued token with the user's role
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.User, error)

	// Register creates an account and signs it in
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error)

	// Logout ends the session. The local session is cleared even when the
	// backend call fails; that failure is still returned.
	Logout(ctx context.Context) error

	// Me returns the signed-in user
	Me(ctx context.Context) (*domain.User, error)
}

type authService struct {
	api     AuthAPI
	store   SessionStore
	cache   *query.Cache
	onReset []func()
	log     *logger.Logger
}

// NewAuthService creates a new auth service. onReset hooks run after every
// login and logout so per-user view state is dropped.
func NewAuthService(api AuthAPI, store SessionStore, cache *query.Cache, onReset ...func()) AuthService {
	return &authService{
		api:     api,
		store:   store,
		cache:   cache,
		onReset: onReset,
		log:     logger.Get().Named("auth"),
	}
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		return nil, err
	}

	if err := s.startSession(ctx, resp); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("role", string(resp.User.Type)))
	span.SetStatus(codes.Ok, "")
	return &resp.User, nil
}

func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "register failed")
		return nil, err
	}

	if err := s.startSession(ctx, resp); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &resp.User, nil
}

func (s *authService) startSession(ctx context.Context, resp *domain.AuthResponse) error {
	role, err := domain.ParseRole(string(resp.User.Type))
	if err != nil {
		return fmt.Errorf("backend returned user type %q: %w", resp.User.Type, err)
	}

	s.reset()

	if err := s.store.SetSession(ctx, resp.Token, role); err != nil {
		// A credential that only lives in memory still serves this process
		if s.store.Snapshot().IsLoggedIn {
			s.log.Warn("Session not persisted", zap.Error(err))
			return nil
		}
		return err
	}
	return nil
}

func (s *authService) Logout(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.logout")
	defer span.End()

	_, apiErr := s.api.Logout(ctx)
	if apiErr != nil {
		span.RecordError(apiErr)
		s.log.Warn("Backend logout failed, clearing session anyway", zap.Error(apiErr))
	}

	clearErr := s.store.ClearSession(ctx)
	s.reset()

	if apiErr != nil {
		span.SetStatus(codes.Error, "logout failed")
		return apiErr
	}
	if clearErr != nil {
		span.SetStatus(codes.Error, clearErr.Error())
		return clearErr
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *authService) Me(ctx context.Context) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.me")
	defer span.End()

	user, err := s.api.Me(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return user, nil
}

func (s *authService) reset() {
	s.cache.Reset()
	for _, fn := range s.onReset {
		fn()
	}
}
