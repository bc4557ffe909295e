package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisure/portal/internal/domain"
)

func TestDispatcher_DeliversToSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string
	d.Subscribe(EventLogout, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.Actor.Email)
		return nil
	})
	d.Subscribe(EventLogout, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.Actor.Email)
		return nil
	})
	d.Subscribe(EventLoginFailed, func(context.Context, Event) error {
		got = append(got, "wrong")
		return nil
	})

	actor := ActorOf(domain.Identity{ID: 1, Email: "a@b.com", Role: domain.RoleAdmin})
	require.NoError(t, d.Publish(context.Background(), New(EventLogout, actor, nil)))
	assert.Equal(t, []string{"first:a@b.com", "second:a@b.com"}, got)
}

func TestDispatcher_KeepsGoingAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	called := false
	d.Subscribe(EventLoginFailed, func(context.Context, Event) error { return boom })
	d.Subscribe(EventLoginFailed, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), New(EventLoginFailed, Actor{Email: "a@b.com"}, FailurePayload{Reason: "Invalid credentials"}))
	assert.ErrorIs(t, err, boom)
	assert.True(t, called)
}

func TestNew_StampsIdentity(t *testing.T) {
	a := New(EventRegistered, Actor{}, nil)
	b := New(EventRegistered, Actor{}, nil)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())
	assert.Len(t, AuthEventTypes(), 7)
}
