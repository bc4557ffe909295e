package access

import "github.com/medisure/portal/internal/domain"

// Decision is the outcome of evaluating a route against a session.
type Decision int

const (
	// DecisionUnchecked is the zero value; Decide never returns it.
	DecisionUnchecked Decision = iota
	DecisionRender
	DecisionRedirectLogin
	DecisionRedirectDefault
)

func (d Decision) String() string {
	switch d {
	case DecisionRender:
		return "render"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectDefault:
		return "redirect_default"
	default:
		return "unchecked"
	}
}

// Target returns the path a redirect decision points at, or "" for render.
func (d Decision) Target() string {
	switch d {
	case DecisionRedirectLogin:
		return PathLogin
	case DecisionRedirectDefault:
		return PathDashboard
	default:
		return ""
	}
}

// Decide evaluates route for sess. A nil or incomplete session is absent.
// No return path is remembered; after login the caller always lands on the dashboard.
func Decide(sess *domain.Session, route RouteDescriptor) Decision {
	if sess == nil || !sess.Complete() {
		return DecisionRedirectLogin
	}
	if !route.AnyAuthenticated() && !route.AllowedRoles.Has(sess.User.Role) {
		return DecisionRedirectDefault
	}
	return DecisionRender
}
