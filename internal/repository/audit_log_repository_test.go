package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisure/portal/internal/domain"
)

func TestBuildAuditListQuery(t *testing.T) {
	query, args := buildAuditListQuery(domain.AuditFilter{})
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{defaultAuditLimit, 0}, args)

	query, args = buildAuditListQuery(domain.AuditFilter{Action: "login_failed", PerformedBy: "a@b.com", Limit: 10_000, Offset: 20})
	assert.Contains(t, query, "WHERE action=$1 AND performed_by=$2")
	assert.Contains(t, query, "LIMIT $3 OFFSET $4")
	assert.Equal(t, []any{"login_failed", "a@b.com", maxAuditLimit, 20}, args)
}

func setupTestPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("postgres not available: %v", err)
	}

	schema, err := os.ReadFile("../../migrations/001_audit_logs.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, "TRUNCATE audit_logs")
	require.NoError(t, err)

	t.Cleanup(pool.Close)
	return pool
}

func TestAuditLogRepository_CreateAndList(t *testing.T) {
	pool := setupTestPostgres(t)
	repo := NewAuditLogRepository(pool)
	ctx := context.Background()

	first := &domain.AuditEntry{EntityType: domain.AuditEntityUser, EntityID: "7", Action: "login_succeeded", PerformedBy: "a@b.com"}
	second := &domain.AuditEntry{EntityType: domain.AuditEntityUser, Action: "login_failed", PerformedBy: "x@y.com", Details: "Invalid credentials"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.NotZero(t, first.ID)
	assert.False(t, first.Timestamp.IsZero())

	all, err := repo.List(ctx, domain.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	failed, err := repo.List(ctx, domain.AuditFilter{Action: "login_failed"})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "Invalid credentials", failed[0].Details)
}
