package repository

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// RecipeRepository puerto de lectura de recetas y su fan-out.
type RecipeRepository interface {
	// GetByID devuelve domain.ErrRecipeNotFound si no existe.
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
	// GetDetail receta con sus líneas e ingredientes anidados ya normalizados
	// (Ingredient es nil cuando el referenciado ya no existe).
	GetDetail(ctx context.Context, id string) (*entity.RecipeDetail, error)
	// ListIDsByIngredient ids de toda receta activa que usa el ingrediente.
	ListIDsByIngredient(ctx context.Context, ingredientID string) ([]string, error)
	// ListActiveIDs ids de todas las recetas activas de un usuario.
	ListActiveIDs(ctx context.Context, userID string) ([]string, error)
}
