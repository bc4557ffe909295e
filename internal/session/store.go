// Package session persists the authenticated identity between requests or process runs.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/medisure/portal/internal/domain"
)

// Store holds at most one session. Load never fails: missing or unreadable data is absent.
type Store interface {
	Load(ctx context.Context) (domain.Session, bool)
	Save(ctx context.Context, sess domain.Session) error
	Clear(ctx context.Context) error
}

// decode parses persisted bytes, treating malformed or partial data as absent.
func decode(raw []byte) (domain.Session, bool) {
	if len(raw) == 0 {
		return domain.Session{}, false
	}
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return domain.Session{}, false
	}
	if !sess.Complete() {
		return domain.Session{}, false
	}
	return sess, true
}

func encode(sess domain.Session) ([]byte, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(sess)
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	sess *domain.Session
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (domain.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.sess == nil {
		return domain.Session{}, false
	}
	return *m.sess, true
}

func (m *MemoryStore) Save(_ context.Context, sess domain.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = &sess
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	return nil
}
