package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/observability"
	"github.com/medisure/portal/internal/session"
)

type skipLogoutKey struct{}

// withoutLogoutOn401 marks calls whose 401 means "bad credentials" rather than "session gone".
func withoutLogoutOn401(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipLogoutKey{}, true)
}

func logoutOn401(ctx context.Context) bool {
	skip, _ := ctx.Value(skipLogoutKey{}).(bool)
	return !skip
}

// retryRoundTripper retries idempotent calls; everything else goes straight through.
type retryRoundTripper struct {
	next  http.RoundTripper
	retry *retryablehttp.RoundTripper
}

func newRetryRoundTripper(next http.RoundTripper, attempts int) *retryRoundTripper {
	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{Transport: next}
	client.RetryMax = attempts
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.Logger = nil
	// the last answer reaches the caller as is, so a 5xx still decodes into APIError
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return &retryRoundTripper{next: next, retry: &retryablehttp.RoundTripper{Client: client}}
}

func (t *retryRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return t.next.RoundTrip(r)
	}
	return t.retry.RoundTrip(r)
}

// bearerRoundTripper attaches the stored session token.
type bearerRoundTripper struct {
	next  http.RoundTripper
	store session.Store
}

func (b *bearerRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if b.store == nil {
		return b.next.RoundTrip(r)
	}
	sess, ok := b.store.Load(r.Context())
	if !ok {
		return b.next.RoundTrip(r)
	}
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+sess.Token)
	return b.next.RoundTrip(r)
}

// unauthorizedRoundTripper signs the caller out whenever the backend answers 401.
type unauthorizedRoundTripper struct {
	next           http.RoundTripper
	store          session.Store
	onUnauthorized func(req *http.Request, user *domain.Identity)
	logger         *zap.Logger
}

func (u *unauthorizedRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	resp, err := u.next.RoundTrip(r)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || !logoutOn401(r.Context()) {
		return resp, err
	}

	ctx := r.Context()
	var user *domain.Identity
	if u.store != nil {
		if sess, ok := u.store.Load(ctx); ok {
			user = &sess.User
		}
		if clearErr := u.store.Clear(ctx); clearErr != nil {
			u.logger.Warn("clear session after 401 failed", zap.Error(clearErr))
		}
	}
	if u.onUnauthorized != nil {
		u.onUnauthorized(r, user)
	}
	return resp, nil
}

// loggingRoundTripper logs each call and propagates the request id.
type loggingRoundTripper struct {
	next    http.RoundTripper
	logger  *zap.Logger
	metrics CallRecorder
}

func (l *loggingRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	reqID := observability.RequestIDFromContext(ctx)
	if reqID != "" {
		r = r.Clone(ctx)
		r.Header.Set(observability.RequestIDHeader, reqID)
	}

	l.logger.Debug("outgoing request",
		zap.String("request_id", reqID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.Redacted()))

	resp, err := l.next.RoundTrip(r)
	status := 0
	if err == nil {
		status = resp.StatusCode
	}
	if l.metrics != nil {
		l.metrics.RecordBackendCall(r.Method, status)
	}
	if err != nil {
		l.logger.Warn("backend unreachable",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("url", r.URL.Redacted()),
			zap.Error(err))
		return nil, err
	}

	l.logger.Debug("incoming response",
		zap.String("request_id", reqID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.Redacted()),
		zap.Int("status", status))
	return resp, nil
}
