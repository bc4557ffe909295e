package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medisure/portal/internal/auth"
	"github.com/medisure/portal/internal/backend"
	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/events"
	"github.com/medisure/portal/internal/observability"
	"github.com/medisure/portal/internal/session"
)

// Messages shown to the user when an auth operation fails.
const (
	MsgFillAllFields   = "Please fill in all fields"
	MsgLoginFailed     = "Login failed"
	MsgRegisterFailed  = "Registration failed"
	MsgRefreshFailed   = "Unable to refresh session"
	MsgNotSignedIn     = "Not signed in"
	MsgServerUnreached = "Unable to reach the server, please try again later"
)

// Result is the normalized outcome of an auth operation. Failures never carry Data.
type Result struct {
	Success bool             `json:"success" yaml:"success"`
	Data    *domain.Identity `json:"data,omitempty" yaml:"data,omitempty"`
	Error   string           `json:"error,omitempty" yaml:"error,omitempty"`
}

func succeeded(user domain.Identity) Result {
	return Result{Success: true, Data: &user}
}

func failed(message string) Result {
	return Result{Success: false, Error: message}
}

// AuthRecorder observes auth outcomes.
type AuthRecorder interface {
	RecordAuth(operation string, success bool)
}

// AuthDependencies encapsulates what every AuthGateway shares.
type AuthDependencies struct {
	Backend    *backend.Factory
	Tokens     *auth.TokenInspector
	Dispatcher events.Dispatcher
	Metrics    AuthRecorder
	Logger     *zap.Logger
	// SessionTTL caps how long a session lives regardless of token expiry. Zero means the token
	// alone decides.
	SessionTTL time.Duration
}

// AuthGateway runs login, registration, logout and refresh against the backend and keeps one
// Session Store in step with the outcome.
type AuthGateway struct {
	store  session.Store
	client *backend.Client
	deps   AuthDependencies
}

// NewAuthGateway binds a gateway to store.
func NewAuthGateway(store session.Store, deps AuthDependencies) *AuthGateway {
	if deps.Tokens == nil {
		deps.Tokens = auth.NewTokenInspector()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &AuthGateway{store: store, client: deps.Backend.For(store), deps: deps}
}

// Client returns the backend client bound to the same store.
func (g *AuthGateway) Client() *backend.Client {
	return g.client
}

// Session returns the stored session, if any.
func (g *AuthGateway) Session(ctx context.Context) (domain.Session, bool) {
	return g.store.Load(ctx)
}

// Login exchanges credentials for a session. On failure the store is left untouched.
func (g *AuthGateway) Login(ctx context.Context, email, password string) Result {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return g.finish(ctx, "login", failed(MsgFillAllFields))
	}

	payload, err := g.client.Auth.Login(ctx, backend.Credentials{Email: email, Password: password})
	if err != nil {
		msg := failureMessage(err, MsgLoginFailed)
		g.publish(ctx, events.New(events.EventLoginFailed, events.Actor{Email: email}, failurePayload(err, msg)))
		return g.finish(ctx, "login", failed(msg))
	}

	res := g.establish(ctx, payload, MsgLoginFailed)
	if res.Success {
		g.publish(ctx, events.New(events.EventLoginSucceeded, events.ActorOf(*res.Data), nil))
	} else {
		g.publish(ctx, events.New(events.EventLoginFailed, events.Actor{Email: email}, events.FailurePayload{Reason: res.Error}))
	}
	return g.finish(ctx, "login", res)
}

// Register creates a policy holder account and signs it in.
func (g *AuthGateway) Register(ctx context.Context, in backend.RegisterInput) Result {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return g.finish(ctx, "register", failed(MsgFillAllFields))
	}

	payload, err := g.client.Auth.Register(ctx, in)
	if err != nil {
		msg := failureMessage(err, MsgRegisterFailed)
		g.publish(ctx, events.New(events.EventRegisterFailed, events.Actor{Email: in.Email}, failurePayload(err, msg)))
		return g.finish(ctx, "register", failed(msg))
	}

	res := g.establish(ctx, payload, MsgRegisterFailed)
	if res.Success {
		g.publish(ctx, events.New(events.EventRegistered, events.ActorOf(*res.Data), nil))
	} else {
		g.publish(ctx, events.New(events.EventRegisterFailed, events.Actor{Email: in.Email}, events.FailurePayload{Reason: res.Error}))
	}
	return g.finish(ctx, "register", res)
}

// Logout clears the session. It never calls the backend and always succeeds.
func (g *AuthGateway) Logout(ctx context.Context) Result {
	sess, hadSession := g.store.Load(ctx)
	if err := g.store.Clear(ctx); err != nil {
		g.deps.Logger.Warn("clear session failed", zap.Error(err))
	}
	if hadSession {
		g.publish(ctx, events.New(events.EventLogout, events.ActorOf(sess.User), nil))
	}
	return g.finish(ctx, "logout", Result{Success: true})
}

// CurrentUser refreshes the identity from /auth/me and replaces the stored session with it.
// A 401 signs the caller out through the client's interceptor.
func (g *AuthGateway) CurrentUser(ctx context.Context) Result {
	sess, ok := g.store.Load(ctx)
	if !ok {
		return g.finish(ctx, "refresh", failed(MsgNotSignedIn))
	}

	user, err := g.client.Auth.Me(ctx)
	if err != nil {
		return g.finish(ctx, "refresh", failed(failureMessage(err, MsgRefreshFailed)))
	}
	if !user.Complete() {
		g.deps.Logger.Warn("backend returned incomplete profile", zap.Int64("user_id", user.ID))
		return g.finish(ctx, "refresh", failed(MsgRefreshFailed))
	}

	refreshed := domain.Session{Token: sess.Token, User: user, ExpiresAt: sess.ExpiresAt}
	if err := g.store.Save(ctx, refreshed); err != nil {
		g.deps.Logger.Error("save refreshed session failed", zap.Error(err))
		return g.finish(ctx, "refresh", failed(MsgRefreshFailed))
	}
	g.publish(ctx, events.New(events.EventSessionRefreshed, events.ActorOf(user), nil))
	return g.finish(ctx, "refresh", succeeded(user))
}

func (g *AuthGateway) establish(ctx context.Context, payload backend.AuthPayload, fallback string) Result {
	sess := domain.Session{
		Token:     payload.Token,
		User:      payload.Identity(),
		ExpiresAt: g.deps.Tokens.SessionExpiry(payload.Token, g.deps.SessionTTL),
	}
	if !sess.Complete() {
		g.deps.Logger.Warn("backend auth payload lacks token or profile",
			zap.Bool("has_token", payload.Token != ""),
			zap.Int64("user_id", sess.User.ID))
		return failed(fallback)
	}
	if err := g.store.Save(ctx, sess); err != nil {
		g.deps.Logger.Error("save session failed", zap.Error(err))
		return failed(fallback)
	}
	return succeeded(sess.User)
}

func (g *AuthGateway) finish(ctx context.Context, operation string, res Result) Result {
	if g.deps.Metrics != nil {
		g.deps.Metrics.RecordAuth(operation, res.Success)
	}
	if !res.Success {
		g.deps.Logger.Info("auth operation failed",
			zap.String("operation", operation),
			zap.String("request_id", observability.RequestIDFromContext(ctx)),
			zap.String("reason", res.Error))
	}
	return res
}

func (g *AuthGateway) publish(ctx context.Context, event events.Event) {
	if g.deps.Dispatcher == nil {
		return
	}
	event.RequestID = observability.RequestIDFromContext(ctx)
	if err := g.deps.Dispatcher.Publish(ctx, event); err != nil {
		g.deps.Logger.Warn("event handlers failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

// ForcedLogoutHook publishes a forced_logout event whenever the backend rejects a session.
// It is meant for backend.Options.OnUnauthorized.
func ForcedLogoutHook(dispatcher events.Dispatcher, logger *zap.Logger) func(*http.Request, *domain.Identity) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(req *http.Request, user *domain.Identity) {
		ctx := req.Context()
		var actor events.Actor
		if user != nil {
			actor = events.ActorOf(*user)
		}
		logger.Info("backend rejected session; signed out",
			zap.String("request_id", observability.RequestIDFromContext(ctx)),
			zap.String("path", req.URL.Path),
			zap.Int64("user_id", actor.UserID))
		if dispatcher == nil || user == nil {
			return
		}
		event := events.New(events.EventForcedLogout, actor, events.ForcedLogoutPayload{Method: req.Method, Path: req.URL.Path})
		event.RequestID = observability.RequestIDFromContext(ctx)
		if err := dispatcher.Publish(ctx, event); err != nil {
			logger.Warn("event handlers failed", zap.String("event", string(event.Type)), zap.Error(err))
		}
	}
}

// failureMessage maps a backend error onto the message shown to the user.
func failureMessage(err error, fallback string) string {
	if errors.Is(err, backend.ErrTransport) {
		return MsgServerUnreached
	}
	if msg := backend.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}

func failurePayload(err error, reason string) events.FailurePayload {
	payload := events.FailurePayload{Reason: reason}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		payload.Status = apiErr.Status
	}
	return payload
}
