package repository

import (
	"context"
	"time"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// HppSnapshotRepository puerto de persistencia de snapshots (append-only).
type HppSnapshotRepository interface {
	// Insert agrega un snapshot nuevo; nunca actualiza filas existentes.
	Insert(ctx context.Context, s *entity.HppSnapshot) error
	// GetLatest snapshot más reciente de la receta; (nil, nil) si no hay.
	GetLatest(ctx context.Context, recipeID string) (*entity.HppSnapshot, error)
	// ListByRecipe snapshots desde `from`, ordenados por fecha ascendente.
	ListByRecipe(ctx context.Context, recipeID string, from time.Time) ([]*entity.HppSnapshot, error)
}
