package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.HppSnapshotRepository = (*HppSnapshotRepo)(nil)

// HppSnapshotRepo persistencia append-only de snapshots de HPP. Nunca hay
// UPDATE sobre esta tabla: cada recálculo inserta una fila nueva.
type HppSnapshotRepo struct {
	q Querier
}

// NewHppSnapshotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHppSnapshotRepository(q Querier) *HppSnapshotRepo {
	return &HppSnapshotRepo{q: q}
}

const snapshotColumns = `id, recipe_id, user_id, snapshot_date, hpp_value, material_cost, operational_cost, cost_per_serving, margin_percentage, degraded, missing_ingredients, created_at`

// Insert agrega un snapshot nuevo.
func (r *HppSnapshotRepo) Insert(ctx context.Context, s *entity.HppSnapshot) error {
	query := `
		INSERT INTO hpp_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.RecipeID, s.UserID, s.SnapshotDate, s.HppValue, s.MaterialCost,
		s.OperationalCost, s.CostPerServing, s.MarginPercentage, s.Degraded,
		s.MissingIngredients, s.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrRecipeNotFound
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// GetLatest snapshot más reciente de la receta; (nil, nil) si no hay.
func (r *HppSnapshotRepo) GetLatest(ctx context.Context, recipeID string) (*entity.HppSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM hpp_snapshots WHERE recipe_id = $1
		ORDER BY snapshot_date DESC LIMIT 1`
	s, err := scanSnapshot(r.q.QueryRow(ctx, query, recipeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	return s, nil
}

// ListByRecipe snapshots desde `from`, ordenados por fecha ascendente.
func (r *HppSnapshotRepo) ListByRecipe(ctx context.Context, recipeID string, from time.Time) ([]*entity.HppSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM hpp_snapshots WHERE recipe_id = $1 AND snapshot_date >= $2
		ORDER BY snapshot_date ASC`
	rows, err := r.q.Query(ctx, query, recipeID, from)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var list []*entity.HppSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSnapshot(row pgx.Row) (*entity.HppSnapshot, error) {
	var s entity.HppSnapshot
	err := row.Scan(&s.ID, &s.RecipeID, &s.UserID, &s.SnapshotDate, &s.HppValue,
		&s.MaterialCost, &s.OperationalCost, &s.CostPerServing, &s.MarginPercentage,
		&s.Degraded, &s.MissingIngredients, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
