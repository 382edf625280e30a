package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.OperationalCostRepository = (*OperationalCostRepo)(nil)

// OperationalCostRepo lectura de costos operacionales para la amortización.
type OperationalCostRepo struct {
	q Querier
}

// NewOperationalCostRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperationalCostRepository(q Querier) *OperationalCostRepo {
	return &OperationalCostRepo{q: q}
}

// ListActive costos operacionales activos del usuario.
func (r *OperationalCostRepo) ListActive(ctx context.Context, userID string) ([]*entity.OperationalCost, error) {
	query := `
		SELECT id, user_id, category, name, amount, frequency, is_active, created_at, updated_at
		FROM operational_costs WHERE user_id = $1 AND is_active = true
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list operational costs: %w", err)
	}
	defer rows.Close()

	var list []*entity.OperationalCost
	for rows.Next() {
		var c entity.OperationalCost
		if err := rows.Scan(&c.ID, &c.UserID, &c.Category, &c.Name, &c.Amount,
			&c.Frequency, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan operational cost: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
