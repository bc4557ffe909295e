package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/session"
)

const (
	sessionIDKey = "auth_session_id"
	storeKey     = "auth_store"
	sessionKey   = "auth_session"
)

// SessionBinder hands out a Store bound to one browser session id.
type SessionBinder interface {
	Scoped(id string) session.Store
}

// CookieConfig describes the browser session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// SessionMiddleware binds every request to the session named by its cookie.
type SessionMiddleware struct {
	sessions SessionBinder
	cookie   CookieConfig
	logger   *zap.Logger
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(sessions SessionBinder, cookie CookieConfig, logger *zap.Logger) *SessionMiddleware {
	if cookie.Name == "" {
		cookie.Name = "medisure_session"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionMiddleware{sessions: sessions, cookie: cookie, logger: logger}
}

// Handle loads the session, if any, and exposes its store to handlers.
// Requests without a valid cookie get a throwaway id; nothing is persisted under it.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	id := c.Cookies(m.cookie.Name)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	store := m.sessions.Scoped(id)
	c.Locals(sessionIDKey, id)
	c.Locals(storeKey, store)

	if sess, ok := store.Load(c.UserContext()); ok {
		c.Locals(sessionKey, &sess)
	}
	return c.Next()
}

// Begin allocates a fresh session id and its store. Nothing about the current request changes
// until Commit, so a failed login leaves any existing session in place.
func (m *SessionMiddleware) Begin() (string, session.Store) {
	id := uuid.NewString()
	return id, m.sessions.Scoped(id)
}

// Commit makes id the request's session: the previous session is cleared and the cookie now
// names id.
func (m *SessionMiddleware) Commit(c *fiber.Ctx, id string) {
	ctx := c.UserContext()
	if old, ok := StoreFromContext(c); ok && SessionID(c) != id {
		if err := old.Clear(ctx); err != nil {
			m.logger.Warn("clear previous session failed", zap.Error(err))
		}
	}

	store := m.sessions.Scoped(id)
	c.Locals(sessionIDKey, id)
	c.Locals(storeKey, store)
	c.Locals(sessionKey, nil)
	if sess, ok := store.Load(ctx); ok {
		c.Locals(sessionKey, &sess)
	}

	cookie := &fiber.Cookie{
		Name:     m.cookie.Name,
		Value:    id,
		Path:     "/",
		HTTPOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if m.cookie.TTL > 0 {
		cookie.Expires = time.Now().Add(m.cookie.TTL)
	}
	c.Cookie(cookie)
}

// Expire drops the session cookie.
func (m *SessionMiddleware) Expire(c *fiber.Ctx) {
	c.Locals(sessionKey, nil)
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie.Name,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// SessionFromContext returns the session loaded for this request.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	sess, ok := c.Locals(sessionKey).(*domain.Session)
	if !ok || sess == nil {
		return nil, false
	}
	return sess, true
}

// StoreFromContext returns the store bound to this request's session id.
func StoreFromContext(c *fiber.Ctx) (session.Store, bool) {
	store, ok := c.Locals(storeKey).(session.Store)
	return store, ok
}

// SessionID returns the opaque id of this request's session.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionIDKey).(string)
	return id
}
