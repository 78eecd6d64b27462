package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

func startRedis(t *testing.T) *Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := New(ctx, ClientConfig{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStore_GetPut(t *testing.T) {
	client := startRedis(t)
	store := NewStore(client)
	ctx := context.Background()

	got, err := store.Get(ctx, pricing.GateIO)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.Put(ctx, pricing.GateIO, []string{"ADA", "DOT"}))
	got, err = store.Get(ctx, pricing.GateIO)
	require.NoError(t, err)
	assert.Equal(t, []string{"ADA", "DOT"}, got)
}

func TestLocker_Serializes(t *testing.T) {
	client := startRedis(t)
	locker := NewLocker(client, 2*time.Second)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, pricing.MEXC)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(20 * time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestLocker_HeldTimesOut(t *testing.T) {
	client := startRedis(t)
	holder := NewLocker(client, 5*time.Second)
	waiter := NewLocker(client, 200*time.Millisecond)
	ctx := context.Background()

	unlock, err := holder.Lock(ctx, pricing.Bitmart)
	require.NoError(t, err)
	defer unlock()

	_, err = waiter.Lock(ctx, pricing.Bitmart)
	assert.True(t, apperror.IsCode(err, apperror.CodeLockHeld), "got %v", err)
}
