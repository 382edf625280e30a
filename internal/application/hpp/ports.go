package hpp

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que snapshot y alerta se escriban
// de forma atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		snapshotRepo repository.HppSnapshotRepository,
		alertRepo repository.HppAlertRepository,
	) error) error
}

// RecalcCache colaborador de caché explícito para el snapshot más reciente
// por receta. Los fallos de caché se degradan a lectura del store; nunca son
// fatales. En tests se sustituye por NoopCache.
type RecalcCache interface {
	GetLatest(ctx context.Context, recipeID string) (*entity.HppSnapshot, bool)
	SetLatest(ctx context.Context, s *entity.HppSnapshot)
	Invalidate(ctx context.Context, recipeID string)
}

// NoopCache caché nula: siempre miss, nunca guarda.
type NoopCache struct{}

// GetLatest siempre miss.
func (NoopCache) GetLatest(context.Context, string) (*entity.HppSnapshot, bool) { return nil, false }

// SetLatest no hace nada.
func (NoopCache) SetLatest(context.Context, *entity.HppSnapshot) {}

// Invalidate no hace nada.
func (NoopCache) Invalidate(context.Context, string) {}
