package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/events"
	"github.com/medisure/portal/internal/repository"
	apperrors "github.com/medisure/portal/pkg/util/errorutil"
)

// AuditSink accepts audit entries for persistence.
type AuditSink interface {
	Record(ctx context.Context, entry domain.AuditEntry)
}

// AuditService turns auth events into log lines and audit entries.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	sink       AuditSink
	repo       repository.AuditLogRepository
}

// NewAuditService creates the service. sink and repo may be nil when no database is configured;
// events are then only logged.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, sink AuditSink, repo repository.AuditLogRepository) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{dispatcher: dispatcher, logger: logger, sink: sink, repo: repo}
}

// RegisterHandlers subscribes to every auth event.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AuthEventTypes() {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	a.logger.Info("auth event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("request_id", event.RequestID),
		zap.Int64("user_id", event.Actor.UserID),
		zap.String("email", event.Actor.Email),
		zap.Any("payload", event.Payload))

	if a.sink != nil {
		a.sink.Record(ctx, EntryFromEvent(event))
	}
	return nil
}

// List returns audit entries, newest first.
func (a *AuditService) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	if a.repo == nil {
		return nil, apperrors.NewDomainError("AUDIT_DISABLED", "audit log is not configured", http.StatusServiceUnavailable, nil)
	}
	entries, err := a.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return entries, nil
}

// EntryFromEvent maps an auth event onto an audit row.
func EntryFromEvent(event events.Event) domain.AuditEntry {
	entry := domain.AuditEntry{
		EntityType:  domain.AuditEntityUser,
		Action:      string(event.Type),
		PerformedBy: event.Actor.Email,
		RequestID:   event.RequestID,
		Timestamp:   event.Timestamp,
	}
	if event.Actor.UserID != 0 {
		entry.EntityID = strconv.FormatInt(event.Actor.UserID, 10)
	}
	if event.Payload != nil {
		if raw, err := json.Marshal(event.Payload); err == nil {
			entry.Details = string(raw)
		}
	}
	return entry
}
