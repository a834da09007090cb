package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/guard"
	"github.com/prohmpiriya/canteen-storefront/internal/service"
	"github.com/prohmpiriya/canteen-storefront/internal/session"
	"github.com/prohmpiriya/canteen-storefront/pkg/response"
	"github.com/prohmpiriya/canteen-storefront/pkg/telemetry"
)

// AuthHandler handles sign-in HTTP requests
type AuthHandler struct {
	authService service.AuthService
	session     guard.Snapshotter
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, sess guard.Snapshotter) *AuthHandler {
	return &AuthHandler{authService: authService, session: sess}
}

// authView is returned after a successful sign-in
type authView struct {
	User     *domain.User `json:"user"`
	Redirect string       `json:"redirect"`
}

// sessionView is the public part of the session; the token itself is never shown
type sessionView struct {
	IsLoggedIn  bool       `json:"is_logged_in"`
	Role        string     `json:"role"`
	HasHydrated bool       `json:"has_hydrated"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func landingFor(role domain.Role) string {
	if role == domain.RoleAdmin {
		return "/admin"
	}
	return "/"
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.login")
	defer span.End()

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, "Invalid login request")
		return
	}

	user, err := h.authService.Login(ctx, &req)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.SuccessWithNotice(c, authView{User: user, Redirect: landingFor(user.Type)}, "Login successful!")
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.register")
	defer span.End()

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, "Invalid registration request")
		return
	}

	user, err := h.authService.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordMismatch) {
			span.SetStatus(codes.Error, err.Error())
			response.BadRequest(c, "Passwords do not match!")
			return
		}
		fail(c, span, err, "")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Created(c, authView{User: user, Redirect: landingFor(user.Type)}, "Registration successful!")
}

// Logout handles POST /logout. The local session is gone even when the
// backend call fails.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.logout")
	defer span.End()

	if err := h.authService.Logout(ctx); err != nil {
		fail(c, span, err, "Logout failed: ")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.SuccessWithNotice(c, gin.H{"redirect": "/login"}, "Logged out successfully")
}

// Me handles GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.me")
	defer span.End()

	user, err := h.authService.Me(ctx)
	if err != nil {
		fail(c, span, err, "")
		return
	}
	response.Success(c, user)
}

// Session handles GET /session
func (h *AuthHandler) Session(c *gin.Context) {
	_, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.session")
	defer span.End()

	snap := h.session.Snapshot()
	view := sessionView{
		IsLoggedIn:  snap.IsLoggedIn,
		Role:        snap.Role.String(),
		HasHydrated: snap.HasHydrated,
	}
	if exp, ok := session.PeekExpiry(snap.AccessToken); ok {
		view.ExpiresAt = &exp
	}

	span.SetAttributes(
		attribute.Bool("logged_in", view.IsLoggedIn),
		attribute.Bool("hydrated", view.HasHydrated),
	)
	response.Success(c, view)
}
