package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/medisure/portal/internal/domain"
)

// ErrExpired is returned when saving a session whose token has already expired.
var ErrExpired = errors.New("session is expired")

// RedisRepository stores browser sessions keyed by an opaque session id.
type RedisRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewRedisRepository builds a repository. ttl bounds idle sessions; token expiry bounds it further.
func NewRedisRepository(client redis.UniversalClient, prefix string, ttl time.Duration, logger *zap.Logger) *RedisRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisRepository{client: client, prefix: prefix, ttl: ttl, logger: logger, now: time.Now}
}

// Get loads the session for id. Missing, expired, malformed and unreachable are all absent.
func (r *RedisRepository) Get(ctx context.Context, id string) (domain.Session, bool) {
	if id == "" {
		return domain.Session{}, false
	}
	raw, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("session lookup failed", zap.Error(err))
		}
		return domain.Session{}, false
	}
	sess, ok := decode(raw)
	if !ok {
		r.logger.Warn("malformed session record dropped")
		_ = r.Delete(ctx, id)
		return domain.Session{}, false
	}
	if sess.Expired(r.now()) {
		_ = r.Delete(ctx, id)
		return domain.Session{}, false
	}
	return sess, true
}

// Put replaces the session stored under id.
func (r *RedisRepository) Put(ctx context.Context, id string, sess domain.Session) error {
	if id == "" {
		return errors.New("session id cannot be empty")
	}
	raw, err := encode(sess)
	if err != nil {
		return err
	}
	ttl := r.ttl
	if !sess.ExpiresAt.IsZero() {
		left := sess.ExpiresAt.Sub(r.now())
		if left <= 0 {
			return ErrExpired
		}
		if ttl <= 0 || left < ttl {
			ttl = left
		}
	}
	if err := r.client.Set(ctx, r.prefix+id, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes the session stored under id.
func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := r.client.Del(ctx, r.prefix+id).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Scoped returns a Store bound to one session id.
func (r *RedisRepository) Scoped(id string) Store {
	return &scopedStore{repo: r, id: id}
}

type scopedStore struct {
	repo *RedisRepository
	id   string
}

func (s *scopedStore) Load(ctx context.Context) (domain.Session, bool) {
	return s.repo.Get(ctx, s.id)
}

func (s *scopedStore) Save(ctx context.Context, sess domain.Session) error {
	return s.repo.Put(ctx, s.id, sess)
}

func (s *scopedStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, s.id)
}
