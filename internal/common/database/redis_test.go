// internal/common/database/redis_test.go
package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"tender-scheduler/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

// ==========================
// Basic Operations
// ==========================

func TestRedis_PingSetGetDel(t *testing.T) {
	client, _ := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Ping(ctx))

	require.NoError(t, client.Set(ctx, "key", "value", time.Minute))

	got, err := client.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	require.NoError(t, client.Del(ctx, "key"))

	_, err = client.Get(ctx, "key")
	assert.Error(t, err)
}

// ==========================
// Lease
// ==========================

func TestAcquireLease_IsExclusive(t *testing.T) {
	client, _ := setupRedis(t)
	ctx := context.Background()

	token, acquired, err := client.AcquireLease(ctx, "rebuild:lease", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
	assert.NotEmpty(t, token)

	_, acquired, err = client.AcquireLease(ctx, "rebuild:lease", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestReleaseLease_AllowsReacquire(t *testing.T) {
	client, _ := setupRedis(t)
	ctx := context.Background()

	token, acquired, err := client.AcquireLease(ctx, "rebuild:lease", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, client.ReleaseLease(ctx, "rebuild:lease", token))

	_, acquired, err = client.AcquireLease(ctx, "rebuild:lease", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestReleaseLease_WrongTokenKeepsLease(t *testing.T) {
	client, _ := setupRedis(t)
	ctx := context.Background()

	_, acquired, err := client.AcquireLease(ctx, "rebuild:lease", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	// A stale holder must not be able to free someone else's lease.
	require.NoError(t, client.ReleaseLease(ctx, "rebuild:lease", "stale-token"))

	_, acquired, err = client.AcquireLease(ctx, "rebuild:lease", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestAcquireLease_ExpiresWithTTL(t *testing.T) {
	client, mr := setupRedis(t)
	ctx := context.Background()

	_, acquired, err := client.AcquireLease(ctx, "rebuild:lease", time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(2 * time.Second)

	_, acquired, err = client.AcquireLease(ctx, "rebuild:lease", time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

// ==========================
// Redis Outage
// ==========================

// An outage during acquire must surface as an error, not as a denied
// lease, so the caller can tell "someone else holds it" from "Redis is
// down".

func TestAcquireLease_ReportsOutageAsError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{Client: db}

	// The token is a fresh UUID per call, so match it loosely.
	mock.Regexp().ExpectSetNX("rebuild:lease", `.+`, time.Minute).
		SetErr(errors.New("connection refused"))

	token, acquired, err := client.AcquireLease(context.Background(), "rebuild:lease", time.Minute)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis lease acquire failed")
	assert.False(t, acquired)
	assert.Empty(t, token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseLease_ReportsOutageAsError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{Client: db}

	mock.ExpectEvalSha(releaseScript.Hash(), []string{"rebuild:lease"}, "token").
		SetErr(errors.New("connection refused"))

	err := client.ReleaseLease(context.Background(), "rebuild:lease", "token")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis lease release failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing_ReportsOutageAsError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{Client: db}

	mock.ExpectPing().SetErr(errors.New("connection refused"))

	err := client.Ping(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}
