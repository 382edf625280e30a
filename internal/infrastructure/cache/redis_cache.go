package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/costeo-api/internal/application/hpp"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

var _ hpp.RecalcCache = (*SnapshotCache)(nil)

// SnapshotCache caché Redis del snapshot más reciente por receta. Un fallo de
// Redis se degrada a miss (el motor lee el store); nunca es fatal.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewSnapshotCache construye la caché. ttl <= 0 usa 24h.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *SnapshotCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SnapshotCache{client: client, ttl: ttl, log: log}
}

// NewClient crea y verifica un cliente Redis.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func snapshotKey(recipeID string) string {
	return "hpp:latest:" + recipeID
}

// GetLatest snapshot cacheado de la receta; false en miss o fallo de Redis.
func (c *SnapshotCache) GetLatest(ctx context.Context, recipeID string) (*entity.HppSnapshot, bool) {
	data, err := c.client.Get(ctx, snapshotKey(recipeID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("recipe_id", recipeID).Msg("caché de snapshots no disponible")
		}
		return nil, false
	}
	var s entity.HppSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		// Entrada corrupta: se descarta y se deja que el store responda.
		c.client.Del(ctx, snapshotKey(recipeID))
		return nil, false
	}
	return &s, true
}

// SetLatest guarda el snapshot como el más reciente de su receta.
func (c *SnapshotCache) SetLatest(ctx context.Context, s *entity.HppSnapshot) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, snapshotKey(s.RecipeID), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("recipe_id", s.RecipeID).Msg("no se pudo cachear el snapshot")
	}
}

// Invalidate elimina la entrada de la receta.
func (c *SnapshotCache) Invalidate(ctx context.Context, recipeID string) {
	if err := c.client.Del(ctx, snapshotKey(recipeID)).Err(); err != nil {
		c.log.Warn().Err(err).Str("recipe_id", recipeID).Msg("no se pudo invalidar la caché")
	}
}
