package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/medisure/portal/internal/access"
	"github.com/medisure/portal/internal/api/dto"
	"github.com/medisure/portal/internal/auth"
	"github.com/medisure/portal/internal/backend"
	"github.com/medisure/portal/internal/service"
	"github.com/medisure/portal/internal/session"
	apperrors "github.com/medisure/portal/pkg/util/errorutil"
)

// AuthHandler exposes login, registration, logout and session endpoints.
type AuthHandler struct {
	sessions *auth.SessionMiddleware
	deps     service.AuthDependencies
}

// NewAuthHandler constructs handler.
func NewAuthHandler(sessions *auth.SessionMiddleware, deps service.AuthDependencies) *AuthHandler {
	return &AuthHandler{sessions: sessions, deps: deps}
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return c.JSON(dto.LoginForm())
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return c.JSON(dto.RegisterForm())
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	id, store := h.sessions.Begin()
	res := service.NewAuthGateway(store, h.deps).Login(c.UserContext(), req.Email, req.Password)
	return h.establish(c, id, res, fiber.StatusUnauthorized)
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	id, store := h.sessions.Begin()
	res := service.NewAuthGateway(store, h.deps).Register(c.UserContext(), backend.RegisterInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
	})
	return h.establish(c, id, res, fiber.StatusBadRequest)
}

func (h *AuthHandler) establish(c *fiber.Ctx, id string, res service.Result, failStatus int) error {
	if !res.Success {
		return c.Status(failureStatus(res, failStatus)).JSON(res)
	}
	h.sessions.Commit(c, id)
	if !auth.WantsJSON(c) {
		return c.Redirect(access.PathDashboard, fiber.StatusSeeOther)
	}
	return c.JSON(res)
}

func failureStatus(res service.Result, fallback int) int {
	switch res.Error {
	case service.MsgFillAllFields:
		return fiber.StatusBadRequest
	case service.MsgServerUnreached:
		return fiber.StatusServiceUnavailable
	default:
		return fallback
	}
}

// Logout handles POST /logout. It succeeds with or without a session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	store, err := storeOf(c)
	if err != nil {
		return err
	}
	res := service.NewAuthGateway(store, h.deps).Logout(c.UserContext())
	h.sessions.Expire(c)
	if !auth.WantsJSON(c) {
		return c.Redirect(access.PathLogin, fiber.StatusSeeOther)
	}
	return c.JSON(res)
}

// Refresh handles POST /session/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	store, err := storeOf(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	res := service.NewAuthGateway(store, h.deps).CurrentUser(ctx)
	if res.Success {
		return c.JSON(res)
	}
	if _, ok := store.Load(ctx); !ok {
		h.sessions.Expire(c)
		return auth.RedirectToLogin(c)
	}
	return c.Status(failureStatus(res, fiber.StatusBadGateway)).JSON(res)
}

// Session handles GET /session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return auth.RedirectToLogin(c)
	}
	role := sess.User.Role
	return c.JSON(dto.NewSessionResponse(*sess, access.DashboardFor(role), access.MenuFor(role)))
}

func storeOf(c *fiber.Ctx) (session.Store, error) {
	store, ok := auth.StoreFromContext(c)
	if !ok {
		return nil, apperrors.NewInternalError(errors.New("session middleware not installed"))
	}
	return store, nil
}
