//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/infrastructure/cache"
)

func TestChecklistCache_ConRedis(t *testing.T) {
	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	url, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	client, err := cache.NewClient(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	inner := &countingRepo{byID: map[string]*entity.Checklist{"cl1": template()}}
	c := cache.NewChecklistCache(inner, client, time.Minute, nil)

	first, err := c.GetByID(ctx, "cl1")
	require.NoError(t, err)
	second, err := c.GetByID(ctx, "cl1")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "la segunda lectura sale de Redis")
	assert.Equal(t, first.Name, second.Name)
	require.Len(t, second.Sections[0].Items[0].Criteria, 1)
	assert.Equal(t, int64(1), second.Sections[0].Items[0].Criteria[0].Weight.IntPart())

	ttl, err := client.TTL(ctx, "checklist:cl1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Invalidate(ctx, "cl1"))
	_, err = c.GetByID(ctx, "cl1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)

	_, err = c.GetByID(ctx, "nope")
	require.NoError(t, err)
	n, err := client.Exists(ctx, "checklist:nope").Result()
	require.NoError(t, err)
	assert.Zero(t, n, "las plantillas inexistentes no se cachean")
}

