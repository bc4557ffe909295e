package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medisure/portal/internal/domain"
)

func sessionFor(role domain.RoleTag) *domain.Session {
	return &domain.Session{
		Token: "token",
		User:  domain.Identity{ID: 7, Email: "user@medisure.test", FullName: "Test User", Role: role},
	}
}

func TestDecide_AbsentSessionAlwaysRedirectsToLogin(t *testing.T) {
	for _, route := range Routes() {
		assert.Equal(t, DecisionRedirectLogin, Decide(nil, route), route.Path)
	}
}

func TestDecide_PartialSessionIsAbsent(t *testing.T) {
	route, _ := Lookup(PathDashboard)

	noToken := sessionFor(domain.RoleAdmin)
	noToken.Token = ""
	assert.Equal(t, DecisionRedirectLogin, Decide(noToken, route))

	noUser := &domain.Session{Token: "token"}
	assert.Equal(t, DecisionRedirectLogin, Decide(noUser, route))
}

func TestDecide_RoleOutsideAllowedSetRedirectsToDefault(t *testing.T) {
	for _, route := range Routes() {
		if route.AnyAuthenticated() {
			continue
		}
		for _, role := range domain.Roles() {
			if route.AllowedRoles.Has(role) {
				continue
			}
			decision := Decide(sessionFor(role), route)
			assert.Equal(t, DecisionRedirectDefault, decision, "%s on %s", role, route.Path)
			assert.Equal(t, PathDashboard, decision.Target())
		}
	}
}

func TestDecide_AllowedOrUnconstrainedRenders(t *testing.T) {
	for _, route := range Routes() {
		for _, role := range domain.Roles() {
			if !route.AnyAuthenticated() && !route.AllowedRoles.Has(role) {
				continue
			}
			assert.Equal(t, DecisionRender, Decide(sessionFor(role), route), "%s on %s", role, route.Path)
		}
	}
}

func TestDecide_UnknownRoleOnUnconstrainedRouteRenders(t *testing.T) {
	route, _ := Lookup(PathDashboard)
	assert.Equal(t, DecisionRender, Decide(sessionFor("AUDITOR"), route))

	claims, _ := Lookup(PathClaims)
	assert.Equal(t, DecisionRedirectDefault, Decide(sessionFor("AUDITOR"), claims))
}

func TestDecision_StringAndTarget(t *testing.T) {
	assert.Equal(t, "render", DecisionRender.String())
	assert.Equal(t, "unchecked", DecisionUnchecked.String())
	assert.Equal(t, PathLogin, DecisionRedirectLogin.Target())
	assert.Empty(t, DecisionRender.Target())
}
