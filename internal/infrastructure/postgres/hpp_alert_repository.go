package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.HppAlertRepository = (*HppAlertRepo)(nil)

// HppAlertRepo persistencia de alertas de cambio de HPP.
type HppAlertRepo struct {
	q Querier
}

// NewHppAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHppAlertRepository(q Querier) *HppAlertRepo {
	return &HppAlertRepo{q: q}
}

// Insert persiste una alerta nueva.
func (r *HppAlertRepo) Insert(ctx context.Context, a *entity.HppAlert) error {
	query := `
		INSERT INTO hpp_alerts (id, recipe_id, user_id, alert_type, message, old_value, new_value, change_percentage, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.RecipeID, a.UserID, a.AlertType, a.Message,
		a.OldValue, a.NewValue, a.ChangePercentage, a.IsRead, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// ListByUser alertas del usuario, las más recientes primero.
func (r *HppAlertRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.HppAlert, error) {
	query := `
		SELECT id, recipe_id, user_id, alert_type, message, old_value, new_value, change_percentage, is_read, created_at
		FROM hpp_alerts WHERE user_id = $1 AND ($2 = false OR is_read = false)
		ORDER BY created_at DESC LIMIT $3`
	rows, err := r.q.Query(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var list []*entity.HppAlert
	for rows.Next() {
		var a entity.HppAlert
		if err := rows.Scan(&a.ID, &a.RecipeID, &a.UserID, &a.AlertType, &a.Message,
			&a.OldValue, &a.NewValue, &a.ChangePercentage, &a.IsRead, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// MarkRead marca una alerta como leída.
func (r *HppAlertRepo) MarkRead(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE hpp_alerts SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
