package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/medisure/portal/internal/access"
	"github.com/medisure/portal/internal/auth"
	"github.com/medisure/portal/internal/backend"
	"github.com/medisure/portal/internal/service"
	apperrors "github.com/medisure/portal/pkg/util/errorutil"
)

// PagesHandler serves the view model of every guarded page.
type PagesHandler struct {
	views   *service.ViewService
	backend *backend.Factory
}

// NewPagesHandler constructs handler.
func NewPagesHandler(views *service.ViewService, factory *backend.Factory) *PagesHandler {
	return &PagesHandler{views: views, backend: factory}
}

// Show renders the page auth.Guard admitted.
func (h *PagesHandler) Show(c *fiber.Ctx) error {
	route, ok := auth.RouteFromContext(c)
	if !ok {
		return apperrors.NewInternalError(errors.New("page served without route guard"))
	}
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return auth.RedirectToLogin(c)
	}
	store, err := storeOf(c)
	if err != nil {
		return err
	}

	model, err := h.views.Build(c.UserContext(), h.backend.For(store), *sess, route)
	if err != nil {
		return err
	}
	return c.JSON(model)
}

// Fallback sends / and every unknown path to the dashboard.
func Fallback(c *fiber.Ctx) error {
	return c.Redirect(access.PathDashboard, fiber.StatusSeeOther)
}
