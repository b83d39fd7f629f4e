package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mmeshcher/santana-waiter/internal/storage"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: pgerrcode.SerializationFailure}, want: true},
		{name: "deadlock", err: fmt.Errorf("upsert value: %w", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}), want: true},
		{name: "unique violation", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: false},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: true},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "other", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	r := &PostgresRepository{}
	calls := 0
	permanent := errors.New("permanent")

	err := r.withRetry(context.Background(), func() error {
		calls++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_HonoursContext(t *testing.T) {
	r := &PostgresRepository{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.withRetry(ctx, func() error {
		return &pgconn.PgError{Code: pgerrcode.SerializationFailure}
	})

	require.ErrorIs(t, err, context.Canceled)
}

func TestPostgresRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	repo, err := NewPostgresRepository(dsn)
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.Get(ctx, "@santanapizzaria")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, repo.Set(ctx, "@santanapizzaria", []byte(`{"token":"a"}`)))
	require.NoError(t, repo.Set(ctx, "@santanapizzaria", []byte(`{"token":"b"}`)))

	got, err := repo.Get(ctx, "@santanapizzaria")
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"b"}`, string(got))

	require.NoError(t, repo.Delete(ctx, "@santanapizzaria"))
	_, err = repo.Get(ctx, "@santanapizzaria")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
