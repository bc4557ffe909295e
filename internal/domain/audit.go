package domain

import "time"

// AuditEntityUser is the entity type recorded for authentication events.
const AuditEntityUser = "USER"

// AuditEntry is one row of the audit log.
type AuditEntry struct {
	ID          int64     `json:"id"`
	EntityType  string    `json:"entityType"`
	EntityID    string    `json:"entityId,omitempty"`
	Action      string    `json:"action"`
	PerformedBy string    `json:"performedBy,omitempty"`
	Details     string    `json:"details,omitempty"`
	RequestID   string    `json:"requestId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// AuditFilter narrows an audit listing. Zero values match everything.
type AuditFilter struct {
	Action      string
	PerformedBy string
	Limit       int
	Offset      int
}
