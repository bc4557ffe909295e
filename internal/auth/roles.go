package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/medisure/portal/internal/access"
	"github.com/medisure/portal/internal/domain"
	apperrors "github.com/medisure/portal/pkg/util/errorutil"
)

const routeKey = "auth_route"

// DecisionRecorder observes guard outcomes.
type DecisionRecorder interface {
	RecordGuardDecision(route, decision string)
}

// Guard evaluates the route guard on every request to route.
// Browsers are redirected with 303; JSON callers without a session get 401 and the login path.
func Guard(route access.RouteDescriptor, recorder DecisionRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, _ := SessionFromContext(c)
		decision := access.Decide(sess, route)
		if recorder != nil {
			recorder.RecordGuardDecision(route.Path, decision.String())
		}

		switch decision {
		case access.DecisionRender:
			c.Locals(routeKey, route)
			return c.Next()
		case access.DecisionRedirectLogin:
			return RedirectToLogin(c)
		default:
			return c.Redirect(decision.Target(), fiber.StatusSeeOther)
		}
	}
}

// RedirectToLogin sends the caller to the login page.
func RedirectToLogin(c *fiber.Ctx) error {
	if WantsJSON(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"redirect": access.PathLogin})
	}
	return c.Redirect(access.PathLogin, fiber.StatusSeeOther)
}

// RouteFromContext returns the route descriptor Guard admitted.
func RouteFromContext(c *fiber.Ctx) (access.RouteDescriptor, bool) {
	route, ok := c.Locals(routeKey).(access.RouteDescriptor)
	return route, ok
}

// RequireRoles guards JSON actions: no session is 401, a role outside allowed is 403.
// An empty allowed list admits any signed-in caller.
func RequireRoles(allowed ...domain.RoleTag) fiber.Handler {
	allowedSet := domain.NewRoleSet(allowed...)

	return func(c *fiber.Ctx) error {
		sess, ok := SessionFromContext(c)
		if !ok || !sess.Complete() {
			return apperrors.NewUnauthorized("sign in required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if !allowedSet.Has(sess.User.Role) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// WantsJSON reports whether the caller asked for JSON rather than a page.
func WantsJSON(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON) ||
		strings.EqualFold(c.Get(fiber.HeaderXRequestedWith), "XMLHttpRequest")
}
