package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

// IngredientRepo implementación del puerto IngredientRepository sobre
// PostgreSQL (usable con pool o tx).
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

// GetByID obtiene un ingrediente activo por ID.
func (r *IngredientRepo) GetByID(ctx context.Context, id string) (*entity.Ingredient, error) {
	query := `
		SELECT id, user_id, name, unit, current_stock, price_per_unit, weighted_average_cost, is_active, created_at, updated_at
		FROM ingredients WHERE id = $1 AND is_active = true`
	var i entity.Ingredient
	err := r.q.QueryRow(ctx, query, id).Scan(
		&i.ID, &i.UserID, &i.Name, &i.Unit, &i.CurrentStock, &i.PricePerUnit,
		&i.WeightedAverageCost, &i.IsActive, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return &i, nil
}
