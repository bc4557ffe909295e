package domain

import (
	"errors"
	"time"
)

// ErrIncompleteSession is returned when a session lacks its token or identity.
var ErrIncompleteSession = errors.New("session must carry both token and identity")

// Session bundles the backend bearer token with the identity it was issued for.
// A session is either fully present or absent.
type Session struct {
	Token     string    `json:"token"`
	User      Identity  `json:"user"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// Complete reports whether both halves of the session are populated.
func (s Session) Complete() bool {
	return s.Token != "" && s.User.Complete()
}

// Expired reports whether the token expiry, when known, lies before now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Validate returns ErrIncompleteSession for partial sessions.
func (s Session) Validate() error {
	if !s.Complete() {
		return ErrIncompleteSession
	}
	return nil
}
