package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo implementación del puerto RecipeRepository sobre PostgreSQL
// (usable con pool o tx).
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

const recipeColumns = `id, user_id, name, servings, cost_per_unit, selling_price, margin_percentage, is_active, created_at, updated_at`

// GetByID obtiene una receta activa por ID.
func (r *RecipeRepo) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1 AND is_active = true`
	var rec entity.Recipe
	err := r.q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.UserID, &rec.Name, &rec.Servings, &rec.CostPerUnit,
		&rec.SellingPrice, &rec.MarginPercentage, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &rec, nil
}

// GetDetail receta con sus líneas e ingredientes anidados. El LEFT JOIN deja
// el ingrediente en NULL cuando ya no existe o fue desactivado: la línea llega
// con Ingredient nil y el motor de costeo la degrada en vez de fallar.
func (r *RecipeRepo) GetDetail(ctx context.Context, id string) (*entity.RecipeDetail, error) {
	recipe, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ri.recipe_id, ri.ingredient_id, ri.quantity, ri.unit,
		       i.id, i.user_id, i.name, i.unit, i.current_stock, i.price_per_unit,
		       i.weighted_average_cost, i.is_active, i.created_at, i.updated_at
		FROM recipe_ingredients ri
		LEFT JOIN ingredients i ON i.id = ri.ingredient_id AND i.is_active = true
		WHERE ri.recipe_id = $1
		ORDER BY ri.ingredient_id`
	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe detail: %w", err)
	}
	defer rows.Close()

	detail := &entity.RecipeDetail{Recipe: *recipe}
	for rows.Next() {
		var line entity.RecipeIngredient
		// Columnas del ingrediente como punteros: todas NULL cuando el LEFT
		// JOIN no encontró fila.
		var (
			ingID, ingUserID, ingName, ingUnit *string
			stock, price, wac                  *decimal.Decimal
			active                             *bool
			createdAt, updatedAt               *time.Time
		)
		if err := rows.Scan(
			&line.RecipeID, &line.IngredientID, &line.Quantity, &line.Unit,
			&ingID, &ingUserID, &ingName, &ingUnit, &stock, &price, &wac,
			&active, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		if ingID != nil {
			line.Ingredient = &entity.Ingredient{
				ID:                  *ingID,
				UserID:              *ingUserID,
				Name:                *ingName,
				Unit:                *ingUnit,
				CurrentStock:        *stock,
				PricePerUnit:        *price,
				WeightedAverageCost: *wac,
				IsActive:            *active,
				CreatedAt:           *createdAt,
				UpdatedAt:           *updatedAt,
			}
		}
		detail.Ingredients = append(detail.Ingredients, line)
	}
	return detail, rows.Err()
}

// ListIDsByIngredient ids de toda receta activa que usa el ingrediente.
func (r *RecipeRepo) ListIDsByIngredient(ctx context.Context, ingredientID string) ([]string, error) {
	query := `
		SELECT r.id
		FROM recipes r
		JOIN recipe_ingredients ri ON ri.recipe_id = r.id
		WHERE ri.ingredient_id = $1 AND r.is_active = true
		ORDER BY r.id`
	rows, err := r.q.Query(ctx, query, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("list recipes by ingredient: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// ListActiveIDs ids de todas las recetas activas de un usuario.
func (r *RecipeRepo) ListActiveIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT id FROM recipes WHERE user_id = $1 AND is_active = true ORDER BY id`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list active recipes: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

func scanIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan recipe id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
