package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/repository"
	"github.com/medisure/portal/internal/service"
)

const (
	defaultQueueSize    = 256
	defaultWriteTimeout = 5 * time.Second
)

// AuditWriter persists audit entries off the request path.
type AuditWriter struct {
	repo         repository.AuditLogRepository
	logger       *zap.Logger
	queue        chan domain.AuditEntry
	writeTimeout time.Duration
}

// NewAuditWriter builds a writer with a bounded queue.
func NewAuditWriter(repo repository.AuditLogRepository, logger *zap.Logger, queueSize int) *AuditWriter {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditWriter{
		repo:         repo,
		logger:       logger,
		queue:        make(chan domain.AuditEntry, queueSize),
		writeTimeout: defaultWriteTimeout,
	}
}

// Record enqueues entry. A full queue drops the entry rather than blocking the caller.
func (w *AuditWriter) Record(_ context.Context, entry domain.AuditEntry) {
	select {
	case w.queue <- entry:
	default:
		w.logger.Warn("audit queue full; entry dropped",
			zap.String("action", entry.Action),
			zap.String("request_id", entry.RequestID))
	}
}

// Run writes queued entries until ctx is done, then drains what is left.
func (w *AuditWriter) Run(ctx context.Context) error {
	for {
		select {
		case entry := <-w.queue:
			w.write(entry)
		case <-ctx.Done():
			w.drain()
			return nil
		}
	}
}

func (w *AuditWriter) drain() {
	for {
		select {
		case entry := <-w.queue:
			w.write(entry)
		default:
			return
		}
	}
}

func (w *AuditWriter) write(entry domain.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), w.writeTimeout)
	defer cancel()
	if err := w.repo.Create(ctx, &entry); err != nil {
		w.logger.Error("write audit entry failed",
			zap.String("action", entry.Action),
			zap.String("request_id", entry.RequestID),
			zap.Error(err))
	}
}

// StartAuditWorker registers the audit handlers on the dispatcher.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
