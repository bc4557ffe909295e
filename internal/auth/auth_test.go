package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisure/portal/internal/access"
	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/session"
	apperrors "github.com/medisure/portal/pkg/util/errorutil"
)

type memoryBinder struct {
	mu     sync.Mutex
	stores map[string]*session.MemoryStore
}

func newMemoryBinder() *memoryBinder {
	return &memoryBinder{stores: map[string]*session.MemoryStore{}}
}

func (b *memoryBinder) Scoped(id string) session.Store {
	b.mu.Lock()
	defer b.mu.Unlock()
	store, ok := b.stores[id]
	if !ok {
		store = session.NewMemoryStore()
		b.stores[id] = store
	}
	return store
}

type recordedDecision struct{ route, decision string }

type decisionLog struct {
	mu      sync.Mutex
	entries []recordedDecision
}

func (d *decisionLog) RecordGuardDecision(route, decision string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, recordedDecision{route, decision})
}

const sessionCookie = "medisure_session"
const knownID = "4b8f4a0e-6f6e-4c1c-9a53-0d4f6d0b8a11"

func signIn(t *testing.T, binder *memoryBinder, role domain.RoleTag) {
	t.Helper()
	require.NoError(t, binder.Scoped(knownID).Save(context.Background(), domain.Session{
		Token: "tok",
		User:  domain.Identity{ID: 3, Email: "user@medisure.test", Role: role},
	}))
}

func guardedApp(binder *memoryBinder, recorder DecisionRecorder) (*fiber.App, *SessionMiddleware) {
	app := fiber.New()
	mw := NewSessionMiddleware(binder, CookieConfig{Name: sessionCookie}, nil)
	app.Use(mw.Handle)
	for _, route := range access.Routes() {
		app.Get(route.Path, Guard(route, recorder), func(c *fiber.Ctx) error {
			r, _ := RouteFromContext(c)
			return c.SendString(string(r.View))
		})
	}
	return app, mw
}

func get(t *testing.T, app *fiber.App, path string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func withCookie() map[string]string {
	return map[string]string{"Cookie": sessionCookie + "=" + knownID}
}

func TestGuard_NoSessionRedirectsToLogin(t *testing.T) {
	log := &decisionLog{}
	app, _ := guardedApp(newMemoryBinder(), log)

	resp := get(t, app, access.PathFinancePending, nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, access.PathLogin, resp.Header.Get(fiber.HeaderLocation))
	assert.Equal(t, []recordedDecision{{access.PathFinancePending, "redirect_login"}}, log.entries)
}

func TestGuard_NoSessionJSONCallerGets401(t *testing.T) {
	app, _ := guardedApp(newMemoryBinder(), nil)

	resp := get(t, app, access.PathDashboard, map[string]string{"Accept": "application/json"})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, access.PathLogin, body["redirect"])
}

func TestGuard_WrongRoleRedirectsToDashboard(t *testing.T) {
	binder := newMemoryBinder()
	signIn(t, binder, domain.RolePolicyHolder)
	app, _ := guardedApp(binder, nil)

	resp := get(t, app, access.PathFinancePending, withCookie())
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, access.PathDashboard, resp.Header.Get(fiber.HeaderLocation))
}

func TestGuard_AllowedRoleRenders(t *testing.T) {
	binder := newMemoryBinder()
	signIn(t, binder, domain.RoleFinanceManager)
	app, _ := guardedApp(binder, nil)

	resp := get(t, app, access.PathFinancePending, withCookie())
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	route, ok := access.Lookup(access.PathFinancePending)
	require.True(t, ok)
	assert.Equal(t, string(route.View), string(body))
}

func TestGuard_EvaluatesEveryRequest(t *testing.T) {
	binder := newMemoryBinder()
	signIn(t, binder, domain.RoleDoctor)
	app, _ := guardedApp(binder, nil)

	assert.Equal(t, fiber.StatusOK, get(t, app, access.PathDashboard, withCookie()).StatusCode)

	require.NoError(t, binder.Scoped(knownID).Clear(context.Background()))
	resp := get(t, app, access.PathDashboard, withCookie())
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, access.PathLogin, resp.Header.Get(fiber.HeaderLocation))
}

func TestGuard_GarbageCookieIsAnonymous(t *testing.T) {
	app, _ := guardedApp(newMemoryBinder(), nil)

	resp := get(t, app, access.PathDashboard, map[string]string{"Cookie": sessionCookie + "=../../etc"})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, access.PathLogin, resp.Header.Get(fiber.HeaderLocation))
}

func TestSessionMiddleware_CommitSwitchesSession(t *testing.T) {
	binder := newMemoryBinder()
	signIn(t, binder, domain.RoleAdmin)

	app := fiber.New()
	mw := NewSessionMiddleware(binder, CookieConfig{Name: sessionCookie, TTL: time.Hour}, nil)
	app.Use(mw.Handle)
	var newID string
	app.Post("/login", func(c *fiber.Ctx) error {
		id, store := mw.Begin()
		newID = id
		if err := store.Save(c.UserContext(), domain.Session{
			Token: "new",
			User:  domain.Identity{ID: 8, Email: "new@medisure.test", Role: domain.RoleDoctor},
		}); err != nil {
			return err
		}
		mw.Commit(c, id)
		sess, ok := SessionFromContext(c)
		if !ok || sess.User.Role != domain.RoleDoctor {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Cookie", sessionCookie+"="+knownID)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotEqual(t, knownID, newID)
	var found bool
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie {
			found = true
			assert.Equal(t, newID, ck.Value)
			assert.True(t, ck.HttpOnly)
		}
	}
	assert.True(t, found)

	_, oldPresent := binder.Scoped(knownID).Load(context.Background())
	assert.False(t, oldPresent)
	sess, ok := binder.Scoped(newID).Load(context.Background())
	require.True(t, ok)
	assert.Equal(t, domain.RoleDoctor, sess.User.Role)
}

func TestSessionMiddleware_BeginWithoutCommitKeepsSession(t *testing.T) {
	binder := newMemoryBinder()
	signIn(t, binder, domain.RoleAdmin)

	app := fiber.New()
	mw := NewSessionMiddleware(binder, CookieConfig{Name: sessionCookie}, nil)
	app.Use(mw.Handle)
	app.Post("/login", func(c *fiber.Ctx) error {
		_, _ = mw.Begin()
		return c.SendStatus(fiber.StatusUnauthorized)
	})

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Cookie", sessionCookie+"="+knownID)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, resp.Cookies())

	_, ok := binder.Scoped(knownID).Load(context.Background())
	assert.True(t, ok)
}

func TestSessionMiddleware_Expire(t *testing.T) {
	app := fiber.New()
	mw := NewSessionMiddleware(newMemoryBinder(), CookieConfig{Name: sessionCookie}, nil)
	app.Use(mw.Handle)
	app.Post("/logout", func(c *fiber.Ctx) error {
		mw.Expire(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/logout", nil))
	require.NoError(t, err)
	require.Len(t, resp.Cookies(), 1)
	assert.Empty(t, resp.Cookies()[0].Value)
	assert.True(t, resp.Cookies()[0].Expires.Before(time.Now()))
}

func TestRequireRoles(t *testing.T) {
	binder := newMemoryBinder()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var de *apperrors.DomainError
			if errors.As(err, &de) {
				return c.SendStatus(de.HTTPStatus)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Use(NewSessionMiddleware(binder, CookieConfig{Name: sessionCookie}, nil).Handle)
	app.Get("/finance", RequireRoles(domain.RoleFinanceManager, domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/finance", withCookie()).StatusCode)

	signIn(t, binder, domain.RoleDoctor)
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/finance", withCookie()).StatusCode)

	signIn(t, binder, domain.RoleAdmin)
	assert.Equal(t, fiber.StatusNoContent, get(t, app, "/finance", withCookie()).StatusCode)
}

func signToken(t *testing.T, exp *time.Time) string {
	t.Helper()
	claims := Claims{Role: "DOCTOR", RegisteredClaims: jwt.RegisteredClaims{Subject: "doc@medisure.test"}}
	if exp != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func TestTokenInspector(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ti := NewTokenInspector()
	ti.now = func() time.Time { return now }

	soon := now.Add(30 * time.Minute)
	later := now.Add(48 * time.Hour)

	claims, err := ti.Inspect(signToken(t, &soon))
	require.NoError(t, err)
	assert.Equal(t, "DOCTOR", claims.Role)
	assert.Equal(t, "doc@medisure.test", claims.Subject)

	assert.True(t, ti.SessionExpiry(signToken(t, &soon), 24*time.Hour).Equal(soon))
	assert.True(t, ti.SessionExpiry(signToken(t, &later), 24*time.Hour).Equal(now.Add(24*time.Hour)))
	assert.True(t, ti.SessionExpiry(signToken(t, nil), time.Hour).Equal(now.Add(time.Hour)))
	assert.True(t, ti.SessionExpiry("opaque-token", time.Hour).Equal(now.Add(time.Hour)))
	assert.True(t, ti.SessionExpiry("opaque-token", 0).IsZero())

	_, ok := ti.ExpiresAt("opaque-token")
	assert.False(t, ok)
}
