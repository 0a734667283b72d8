package repository

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"jidauth/internal/domain/model"
	"jidauth/internal/infra/db"
	domainrepo "jidauth/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// 実PostgreSQLを使う結合テスト（Docker必須）。
// GO_TEST_INTEGRATION が空ならskipされる。同時失効で+Nになることはここでしか確認できない
// （sqlmockの方はSQLが1文であることだけを見ている）。
//
//	make test-integration
//	GO_TEST_INTEGRATION=1 go test ./internal/infra/repository -run Integration -v -count=1
func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "auth"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/auth?sslmode=disable", host, port.Port())

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	gdb, err := db.Connect(dsn, log)
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(ctx, sqlDB, log))

	return gdb
}

func TestIntegration_UserLifecycle(t *testing.T) {
	gdb := startPostgres(t)
	repo := NewUserGormRepository(gdb)
	ctx := context.Background()

	u := &model.User{Email: "a@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	require.Positive(t, u.ID)

	got, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, 0, got.TokenVersion)

	err = repo.Create(ctx, &model.User{Email: "a@example.com", PasswordHash: "other"})
	assert.ErrorIs(t, err, domainrepo.ErrEmailAlreadyExists)

	v, err := repo.IncrementTokenVersion(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, NewAuditLogGormRepository(gdb).Create(ctx, model.AuditLog{
		ActorUserID:  u.ID,
		Action:       model.AuditActionRevokeTokens,
		TokenVersion: v,
		CreatedAt:    time.Now(),
	}))

	got, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TokenVersion)

	_, err = repo.IncrementTokenVersion(ctx, u.ID+1000)
	assert.ErrorIs(t, err, domainrepo.ErrUserNotFound)
}

// 同時に失効してもカウントが失われない
func TestIntegration_ConcurrentRevocation(t *testing.T) {
	repo := NewUserGormRepository(startPostgres(t))
	ctx := context.Background()

	u := &model.User{Email: "race@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementTokenVersion(ctx, u.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.TokenVersion)
}
