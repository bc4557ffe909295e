package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/events"
	apperrors "github.com/medisure/portal/pkg/util/errorutil"
)

type sliceSink struct{ entries []domain.AuditEntry }

func (s *sliceSink) Record(_ context.Context, entry domain.AuditEntry) {
	s.entries = append(s.entries, entry)
}

type stubAuditRepo struct {
	listed domain.AuditFilter
	rows   []domain.AuditEntry
	err    error
}

func (s *stubAuditRepo) Create(context.Context, *domain.AuditEntry) error { return nil }

func (s *stubAuditRepo) List(_ context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	s.listed = filter
	return s.rows, s.err
}

func TestAuditService_RecordsEveryAuthEvent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	sink := &sliceSink{}
	NewAuditService(dispatcher, nil, sink, nil).RegisterHandlers()

	ctx := context.Background()
	user := domain.Identity{ID: 42, Email: "holder@medisure.test", Role: domain.RolePolicyHolder}
	succeeded := events.New(events.EventLoginSucceeded, events.ActorOf(user), nil)
	succeeded.RequestID = "req-1"
	require.NoError(t, dispatcher.Publish(ctx, succeeded))
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventLoginFailed,
		events.Actor{Email: "a@b.com"}, events.FailurePayload{Reason: "Invalid credentials", Status: 401})))

	require.Len(t, sink.entries, 2)
	assert.Equal(t, domain.AuditEntry{
		EntityType:  domain.AuditEntityUser,
		EntityID:    "42",
		Action:      "login_succeeded",
		PerformedBy: "holder@medisure.test",
		RequestID:   "req-1",
		Timestamp:   succeeded.Timestamp,
	}, sink.entries[0])
	assert.Empty(t, sink.entries[1].EntityID)
	assert.JSONEq(t, `{"reason":"Invalid credentials","status":401}`, sink.entries[1].Details)
}

func TestAuditService_List(t *testing.T) {
	_, err := NewAuditService(nil, nil, nil, nil).List(context.Background(), domain.AuditFilter{})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "AUDIT_DISABLED", de.Code)

	repo := &stubAuditRepo{rows: []domain.AuditEntry{{ID: 1, Action: "logout"}}}
	svc := NewAuditService(nil, nil, nil, repo)
	rows, err := svc.List(context.Background(), domain.AuditFilter{Action: "logout", Limit: 5})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, domain.AuditFilter{Action: "logout", Limit: 5}, repo.listed)

	repo.err = errors.New("connection reset")
	_, err = svc.List(context.Background(), domain.AuditFilter{})
	assert.Equal(t, "INTERNAL_ERROR", apperrors.ToDomainError(err).Code)
}
