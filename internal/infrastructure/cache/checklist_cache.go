package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
	"github.com/jhoicas/retail-audit-api/pkg/logger"
)

var _ repository.ChecklistRepository = (*ChecklistCache)(nil)

const keyPrefix = "checklist:"

// ChecklistCache decorador de lectura sobre ChecklistRepository. Las plantillas son de solo
// lectura para el núcleo: expiran por TTL o se invalidan desde la administración
// (ChecklistUseCase.Refresh). Si Redis falla se lee del repositorio.
type ChecklistCache struct {
	inner  repository.ChecklistRepository
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewClient abre y verifica la conexión a Redis a partir de una URL redis://.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// NewChecklistCache envuelve inner. ttl <= 0 usa 5 minutos.
func NewChecklistCache(inner repository.ChecklistRepository, client *redis.Client, ttl time.Duration, log *logger.Logger) *ChecklistCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ChecklistCache{inner: inner, client: client, ttl: ttl, log: log}
}

// GetByID lee la plantilla de Redis o, en su defecto, del repositorio y la guarda.
// Las plantillas inexistentes no se cachean.
func (c *ChecklistCache) GetByID(ctx context.Context, id string) (*entity.Checklist, error) {
	key := keyPrefix + id
	var cl entity.Checklist
	hit, err := c.get(ctx, key, &cl)
	if hit {
		return &cl, nil
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("checklist cache read")
	}

	got, err := c.inner.GetByID(ctx, id)
	if err != nil || got == nil {
		return got, err
	}
	c.set(ctx, key, got)
	return got, nil
}

// List no se cachea: lo usa la administración y debe reflejar altas nuevas.
func (c *ChecklistCache) List(ctx context.Context) ([]*entity.Checklist, error) {
	return c.inner.List(ctx)
}

// Invalidate borra la plantilla id de la caché.
func (c *ChecklistCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, keyPrefix+id).Err()
}

func (c *ChecklistCache) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *ChecklistCache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("checklist cache encode")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("checklist cache write")
	}
}
