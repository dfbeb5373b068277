package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/mail-gateway/internal/migrations"
	"github.com/magabrotheeeer/mail-gateway/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, dsn, PoolConfig{MaxOpenConns: 5})
	require.NoError(t, err)

	sqlDB, err := storage.SQLDB()
	require.NoError(t, err)

	projectRoot, err := filepath.Abs("../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(sqlDB, filepath.Join(projectRoot, "migrations")))

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

// createUser создает тестового пользователя с указанной ролью.
func createUser(t *testing.T, s *Storage, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "hashedpassword", Role: role}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}
