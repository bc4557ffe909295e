package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/medisure/portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded   EventType = "login_succeeded"
	EventLoginFailed      EventType = "login_failed"
	EventRegistered       EventType = "registered"
	EventRegisterFailed   EventType = "register_failed"
	EventLogout           EventType = "logout"
	EventForcedLogout     EventType = "forced_logout"
	EventSessionRefreshed EventType = "session_refreshed"
)

// AuthEventTypes lists every event the auth gateway emits.
func AuthEventTypes() []EventType {
	return []EventType{
		EventLoginSucceeded,
		EventLoginFailed,
		EventRegistered,
		EventRegisterFailed,
		EventLogout,
		EventForcedLogout,
		EventSessionRefreshed,
	}
}

// Actor identifies who the event is about. Failed logins carry only the attempted email.
type Actor struct {
	UserID int64          `json:"user_id,omitempty"`
	Email  string         `json:"email,omitempty"`
	Role   domain.RoleTag `json:"role,omitempty"`
}

// ActorOf builds an actor from an identity.
func ActorOf(user domain.Identity) Actor {
	return Actor{UserID: user.ID, Email: user.Email, Role: user.Role}
}

// Event represents an authentication lifecycle event.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	RequestID string    `json:"request_id,omitempty"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, actor Actor, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// FailurePayload explains a rejected login or registration.
type FailurePayload struct {
	Reason string `json:"reason"`
	Status int    `json:"status,omitempty"`
}

// ForcedLogoutPayload records where the backend rejected the session.
type ForcedLogoutPayload struct {
	Method string `json:"method,omitempty"`
	Path   string `json:"path,omitempty"`
}
