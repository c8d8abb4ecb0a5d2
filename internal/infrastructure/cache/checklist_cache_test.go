package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/infrastructure/cache"
)

type countingRepo struct {
	byID  map[string]*entity.Checklist
	calls int
}

func (r *countingRepo) GetByID(_ context.Context, id string) (*entity.Checklist, error) {
	r.calls++
	return r.byID[id], nil
}

func (r *countingRepo) List(context.Context) ([]*entity.Checklist, error) {
	r.calls++
	out := make([]*entity.Checklist, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func template() *entity.Checklist {
	return &entity.Checklist{
		ID: "cl1", Name: "Estándar",
		Sections: []entity.ChecklistSection{{
			ID: "s1", Name: "Exposición", Position: 1,
			Items: []entity.ChecklistItem{{
				ID: "i1", Name: "Lineal", Position: 1,
				Criteria: []entity.Criterion{{ID: "c1", Name: "Precios", Position: 1, Weight: decimal.NewFromInt(1)}},
			}},
		}},
	}
}

// Redis inalcanzable: cada lectura cae al repositorio sin error.
func TestChecklistCache_SinRedisLeeDelRepositorio(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	inner := &countingRepo{byID: map[string]*entity.Checklist{"cl1": template()}}
	c := cache.NewChecklistCache(inner, client, time.Minute, nil)

	got, err := c.GetByID(context.Background(), "cl1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Estándar", got.Name)

	_, err = c.GetByID(context.Background(), "cl1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)

	missing, err := c.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
