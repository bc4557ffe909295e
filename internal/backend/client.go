// Package backend is the typed client for the Medisure REST backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/session"
)

const maxResponseBytes = 8 << 20

var (
	// ErrUnauthorized is matched by errors from calls the backend answered with 401.
	ErrUnauthorized = errors.New("backend: unauthorized")
	// ErrTransport wraps failures to reach the backend at all.
	ErrTransport = errors.New("backend: transport failure")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded %d", e.Status)
	}
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 answers.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// CallRecorder receives one observation per backend round trip.
type CallRecorder interface {
	RecordBackendCall(method string, status int)
}

// Options configures a Factory.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    *zap.Logger
	Metrics   CallRecorder
	// Retries is how many extra attempts GET calls get on transport errors and 5xx answers.
	Retries int
	// OnUnauthorized runs after the bound session was cleared because of a 401. user is the
	// identity that was signed out, nil when no session was held.
	OnUnauthorized func(req *http.Request, user *domain.Identity)
}

// Factory shares one transport across per-session clients.
type Factory struct {
	opts Options
}

// NewFactory validates opts and returns a factory.
func NewFactory(opts Options) (*Factory, error) {
	if _, err := url.ParseRequestURI(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid backend base url %q: %w", opts.BaseURL, err)
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Retries > 0 {
		opts.Transport = newRetryRoundTripper(opts.Transport, opts.Retries)
	}
	return &Factory{opts: opts}, nil
}

// For returns a client that authenticates with, and clears on 401, the given store.
func (f *Factory) For(store session.Store) *Client {
	var rt http.RoundTripper = &bearerRoundTripper{next: f.opts.Transport, store: store}
	rt = &unauthorizedRoundTripper{next: rt, store: store, onUnauthorized: f.opts.OnUnauthorized, logger: f.opts.Logger}
	rt = &loggingRoundTripper{next: rt, logger: f.opts.Logger, metrics: f.opts.Metrics}

	c := &Client{
		baseURL: f.opts.BaseURL,
		http:    &http.Client{Timeout: f.opts.Timeout, Transport: rt},
	}
	c.Auth = AuthAPI{c: c}
	c.Policies = PoliciesAPI{c: c}
	c.PolicyHolders = PolicyHoldersAPI{c: c}
	c.Doctors = DoctorsAPI{c: c}
	c.Appointments = AppointmentsAPI{c: c}
	c.Claims = ClaimsAPI{c: c}
	c.ClaimsManager = ClaimsManagerAPI{c: c}
	c.Finance = FinanceAPI{c: c}
	c.Admin = AdminAPI{c: c}
	return c
}

// Client exposes the backend endpoints grouped by resource.
type Client struct {
	baseURL string
	http    *http.Client

	Auth          AuthAPI
	Policies      PoliciesAPI
	PolicyHolders PolicyHoldersAPI
	Doctors       DoctorsAPI
	Appointments  AppointmentsAPI
	Claims        ClaimsAPI
	ClaimsManager ClaimsManagerAPI
	Finance       FinanceAPI
	Admin         AdminAPI
}

// Ping checks that the backend answers HTTP at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/policies/all", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return &APIError{Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrapData(raw), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// unwrapData returns the "data" member of a {success, message, data} envelope, or raw when the
// body is not enveloped.
func unwrapData(raw []byte) []byte {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw
	}
	data, hasData := env["data"]
	_, hasSuccess := env["success"]
	_, hasMessage := env["message"]
	if hasData && (hasSuccess || hasMessage) {
		return data
	}
	return raw
}

// errorMessage extracts the backend's message from an error body. The backend answers either
// with an envelope, a {"message"} / {"error"} object, or a bare string.
func errorMessage(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	var obj struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		var s string
		if err := json.Unmarshal(obj.Error, &s); err == nil {
			return s
		}
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	if trimmed[0] == '<' || len(trimmed) > 512 {
		return ""
	}
	return string(trimmed)
}

// MessageOf returns the backend-provided message carried by err, if any.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
