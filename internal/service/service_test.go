package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/medisure/portal/internal/backend"
	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/events"
	"github.com/medisure/portal/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func envelope(data any) map[string]any {
	return map[string]any{"success": true, "message": "ok", "data": data}
}

func newFactory(t *testing.T, handler http.Handler, hook func(*http.Request, *domain.Identity)) *backend.Factory {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	factory, err := backend.NewFactory(backend.Options{
		BaseURL:        srv.URL + "/api",
		Timeout:        2 * time.Second,
		OnUnauthorized: hook,
	})
	require.NoError(t, err)
	return factory
}

func signedInStore(t *testing.T, role domain.RoleTag) *session.MemoryStore {
	t.Helper()
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), domain.Session{
		Token: "tok",
		User:  domain.Identity{ID: 11, FullName: "Pat Holder", Email: "pat@medisure.test", Role: role},
	}))
	return store
}

type capturedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func captureAll(d events.Dispatcher) *capturedEvents {
	c := &capturedEvents{}
	for _, et := range events.AuthEventTypes() {
		d.Subscribe(et, func(_ context.Context, e events.Event) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.events = append(c.events, e)
			return nil
		})
	}
	return c
}

func (c *capturedEvents) types() []events.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]events.EventType, len(c.events))
	for i, e := range c.events {
		out[i] = e.Type
	}
	return out
}

func (c *capturedEvents) last() events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[len(c.events)-1]
}
