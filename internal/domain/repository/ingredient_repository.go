package repository

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// IngredientRepository puerto de lectura de ingredientes (DIP).
type IngredientRepository interface {
	// GetByID devuelve domain.ErrIngredientNotFound si no existe o está inactivo.
	GetByID(ctx context.Context, id string) (*entity.Ingredient, error)
}
