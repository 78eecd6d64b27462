package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

func startPostgres(t *testing.T) *Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpassword",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://testuser:testpassword@%s:%s/testdb?sslmode=disable", host, port.Port())
	client, err := New(ctx, ClientConfig{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.RunMigrations(ctx))
	// Applying twice is a no-op.
	require.NoError(t, client.RunMigrations(ctx))

	return client
}

func TestStore_GetPut(t *testing.T) {
	client := startPostgres(t)
	store := NewStore(client)
	ctx := context.Background()

	got, err := store.Get(ctx, pricing.MEXC)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.Put(ctx, pricing.MEXC, []string{"BTC", "JASMY"}))
	got, err = store.Get(ctx, pricing.MEXC)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "JASMY"}, got)

	// Whole-value replace.
	require.NoError(t, store.Put(ctx, pricing.MEXC, []string{"PEPE"}))
	got, err = store.Get(ctx, pricing.MEXC)
	require.NoError(t, err)
	assert.Equal(t, []string{"PEPE"}, got)

	got, err = store.Get(ctx, pricing.GateIO)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_ClosedPoolIsPersistenceError(t *testing.T) {
	client := startPostgres(t)
	store := NewStore(client)
	client.Close()

	_, err := store.Get(context.Background(), pricing.MEXC)
	assert.True(t, apperror.IsCode(err, apperror.CodePersistenceFailed), "got %v", err)
}
