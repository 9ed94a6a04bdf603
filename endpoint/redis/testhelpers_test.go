//go:build integration

package redis_test

import (
	"context"
	"strings"
	"testing"

	"github.com/marcelsud/webhook-relay/endpoint/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

/* Test Helpers for Redis Integration Tests
 * Following the pattern from: https://eltonminetto.dev/post/2024-02-15-using-test-helpers/
 */

// SetupRedisContainer starts a Redis testcontainer and returns its address
func SetupRedisContainer(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()

	redisContainer, err := testcontainersredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start Redis container")

	addr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err, "failed to get Redis connection string")
	addr = strings.TrimPrefix(addr, "redis://")

	cleanup := func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	}

	return addr, cleanup
}

// CreateTestRepository creates a repository connected to the test container
func CreateTestRepository(t *testing.T, addr, key string) *redis.Repository {
	t.Helper()

	repo, err := redis.NewRepository(addr, "", 0, key)
	require.NoError(t, err, "failed to create Redis repository")

	return repo
}

// SetRaw writes a value directly, bypassing the repository
func SetRaw(t *testing.T, addr, key, value string) {
	t.Helper()

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), key, value, 0).Err())
}
